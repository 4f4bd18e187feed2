package req

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privlib/internal/pkg/errs"
)

type themeInput struct {
	Theme string `json:"theme"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestBindJSON(t *testing.T) {
	var in themeInput
	require.Nil(t, BindJSON(jsonRequest(`{"theme":"natal"}`), &in))
	assert.Equal(t, "natal", in.Theme)
}

func TestBindJSONErrors(t *testing.T) {
	var in themeInput

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	assert.Equal(t, errs.ErrUnsupportedMediaType, BindJSON(r, &in).Code)

	assert.Equal(t, errs.ErrInvalidJSONFormat, BindJSON(jsonRequest(`{"theme":`), &in).Code)
	assert.Equal(t, errs.ErrInvalidJSONFormat, BindJSON(jsonRequest(`{"colour":"red"}`), &in).Code)
	assert.Equal(t, errs.ErrExtraContentInBody, BindJSON(jsonRequest(`{"theme":"a"}{"theme":"b"}`), &in).Code)
}

func multipartRequest(t *testing.T, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestSetupMultipart(t *testing.T) {
	r := multipartRequest(t, []byte("hello"))
	require.Nil(t, SetupMultipart(httptest.NewRecorder(), r, 1024))

	_, header, err := r.FormFile("file")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", header.Filename)
}

func TestSetupMultipartTooLarge(t *testing.T) {
	r := multipartRequest(t, bytes.Repeat([]byte("x"), int(multipartOverhead)+2048))

	customErr := SetupMultipart(httptest.NewRecorder(), r, 1024)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrRequestEntityTooLarge, customErr.Code)
}
