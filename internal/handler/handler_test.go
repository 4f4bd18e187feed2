package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"privlib/internal/app/chatlog"
	"privlib/internal/app/collab"
	"privlib/internal/app/db"
	"privlib/internal/app/db/dbtest"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/storage/storagetest"
	"privlib/internal/configs"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/pow"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	deps    *AppDeps
	db      *dbtest.Querier
	store   *storagetest.Storage
	handler http.Handler
}

func newTestEnv(t *testing.T, powDifficulty int) *testEnv {
	t.Helper()

	q := dbtest.New()
	require.NoError(t, q.EnsureSetting(context.Background(), dbc.EnsureSettingParams{Key: db.SettingChatEnabled, Value: false}))

	store := storagetest.New()
	chat := chatlog.New(q)
	hub := collab.NewHub(chat, collab.Options{})
	t.Cleanup(hub.Shutdown)

	deps := &AppDeps{
		Hub: hub,
		Config: &configs.AppConfig{
			Environment:    configs.EnvDevelopment,
			JWTSecret:      testSecret,
			MaxUploadMB:    1,
			WSMessageRate:  100,
			WSMessageBurst: 100,
		},
		StorageService: store,
		DB:             q,
		Chat:           chat,
		Pow:            pow.NewManager(powDifficulty),
	}

	return &testEnv{deps: deps, db: q, store: store, handler: Router(deps)}
}

// createUser inserts an account directly and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, username, role string) (dbc.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	u, err := e.db.CreateUser(context.Background(), dbc.CreateUserParams{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
	require.NoError(t, err)

	token, err := jwt.GenerateToken(&jwt.Payload{
		ID:       db.UUIDString(u.ID),
		Username: u.Username,
		Role:     u.Role,
	}, testSecret, jwt.AccessTokenExpiration)
	require.NoError(t, err)

	return u, token
}

func (e *testEnv) serve(r *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, r)
	return rec
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return e.serve(r, token)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func assertCode(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	assert.Equal(t, code, decode(t, rec, nil).Code, rec.Body.String())
}

func multipartBody(t *testing.T, fileName string, content []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, token, fileName string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fileName, content, fields)
	r := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	r.Header.Set("Content-Type", contentType)
	return e.serve(r, token)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, 0)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_RegisterRequiresProofOfWork(t *testing.T) {
	env := newTestEnv(t, 1)
	creds := map[string]string{"username": "alice", "password": "secret1"}

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assertCode(t, rec, errs.ErrPowChallengeRequired)

	var challenge struct {
		Nonce      string `json:"nonce"`
		Difficulty int    `json:"difficulty"`
	}
	decode(t, env.do(t, http.MethodGet, "/api/auth/challenge", "", nil), &challenge)
	require.NotEmpty(t, challenge.Nonce)
	assert.Equal(t, 1, challenge.Difficulty)

	rec = env.do(t, http.MethodPost, "/api/auth/challenge/verify", "", map[string]string{"nonce": "bogus", "counter": "0"})
	assertCode(t, rec, errs.ErrPowChallengeInvalid)

	var proof struct {
		Token string `json:"token"`
	}
	counter := pow.Solve(challenge.Nonce, challenge.Difficulty)
	decode(t, env.do(t, http.MethodPost, "/api/auth/challenge/verify", "", map[string]string{"nonce": challenge.Nonce, "counter": counter}), &proof)
	require.NotEmpty(t, proof.Token)

	register := func() *httptest.ResponseRecorder {
		raw, _ := json.Marshal(creds)
		r := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(raw))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set(pow.TokenHeaderKey, proof.Token)
		return env.serve(r, "")
	}

	var out struct {
		Token string   `json:"token"`
		User  UserView `json:"user"`
	}
	rec = register()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &out)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "alice", out.User.Username)
	assert.Equal(t, jwt.RoleUser, out.User.Role)
	assert.Equal(t, "auto", out.User.Theme)

	assertCode(t, register(), errs.ErrPowChallengeRequired)
}

func TestAuth_RegisterValidation(t *testing.T) {
	env := newTestEnv(t, 0)
	env.createUser(t, "taken", jwt.RoleUser)

	tests := []struct {
		name     string
		username string
		password string
		code     int
	}{
		{"short username", "ab", "secret1", errs.ErrInvalidUsername},
		{"bad characters", "bad name", "secret1", errs.ErrInvalidUsername},
		{"short password", "valid_name", "12345", errs.ErrInvalidPassword},
		{"duplicate", "taken", "secret1", errs.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": tt.username, "password": tt.password})
			assertCode(t, rec, tt.code)
		})
	}
}

func TestAuth_LoginAndMe(t *testing.T) {
	env := newTestEnv(t, 0)
	_, existing := env.createUser(t, "bob", jwt.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "bob", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assertCode(t, rec, errs.ErrInvalidCredentials)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "nobody", "password": "password1"})
	assertCode(t, rec, errs.ErrInvalidCredentials)

	var out struct {
		Token string `json:"token"`
	}
	decode(t, env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "bob", "password": "password1"}), &out)
	require.NotEmpty(t, out.Token)

	var me UserView
	decode(t, env.do(t, http.MethodGet, "/api/auth/me", out.Token, nil), &me)
	assert.Equal(t, "bob", me.Username)

	rec = env.do(t, http.MethodPost, "/api/auth/login", existing, map[string]string{"username": "bob", "password": "password1"})
	assertCode(t, rec, errs.ErrAlreadyLoggedIn)

	rec = env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUser_ThemeAndStats(t *testing.T) {
	env := newTestEnv(t, 0)
	_, token := env.createUser(t, "alice", jwt.RoleUser)

	var view UserView
	decode(t, env.do(t, http.MethodPut, "/api/user/theme", token, map[string]string{"theme": "natal"}), &view)
	assert.Equal(t, "natal", view.Theme)

	assertCode(t, env.do(t, http.MethodPut, "/api/user/theme", token, map[string]string{"theme": "neon"}), errs.ErrInvalidTheme)

	require.Equal(t, http.StatusOK, env.upload(t, token, "a.txt", bytes.Repeat([]byte("x"), 1<<19), nil).Code)
	require.Equal(t, http.StatusOK, env.upload(t, token, "b.txt", bytes.Repeat([]byte("y"), 1<<19), nil).Code)

	var stats UserStats
	decode(t, env.do(t, http.MethodGet, "/api/user/stats", token, nil), &stats)
	assert.Equal(t, int64(2), stats.TotalFiles)
	assert.Equal(t, int64(1<<20), stats.TotalStorageBytes)
	assert.Equal(t, 1.0, stats.TotalStorageMB)
	assert.Zero(t, stats.TotalTeams)
}
