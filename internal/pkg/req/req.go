/*
Package req provides helper functions for HTTP request parsing and data binding.

It covers strict JSON binding for API bodies and bounded multipart parsing for file uploads,
translating failures into errs codes.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"privlib/internal/pkg/errs"
)

// MaxFormMemory is the amount of multipart data kept in memory; larger parts spill to temporary files.
const MaxFormMemory int64 = 32 << 20

// multipartOverhead is added on top of the file limit to leave room for boundaries and text fields.
const multipartOverhead int64 = 1 << 20

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// SetupMultipart bounds the request body to maxFileSize (plus a small allowance for form
// overhead) and parses the multipart form.
func SetupMultipart(w http.ResponseWriter, r *http.Request, maxFileSize int64) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(MaxFormMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}
