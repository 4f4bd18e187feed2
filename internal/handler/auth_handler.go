/*
Package handler provides HTTP handler functions for user authentication and management.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"privlib/internal/app/db"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/user"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/pow"
	"privlib/internal/pkg/req"
	"privlib/internal/pkg/resp"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)
)

const (
	minPasswordLength = 6

	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

func validPassword(password string) bool {
	return utf8.RuneCountInString(password) >= minPasswordLength && len(password) <= maxPasswordBytes
}

// HandleChallenge issues a Proof-of-Work nonce for registration.
func HandleChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"nonce":      deps.Pow.GenerateNonce(),
			"difficulty": deps.Pow.Difficulty(),
		})
	}
}

type VerifyChallengeInput struct {
	Nonce   string `json:"nonce"`
	Counter string `json:"counter"`
}

// HandleVerifyChallenge trades a solved challenge for a single-use proof token.
func HandleVerifyChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input VerifyChallengeInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		token, err := deps.Pow.ValidateProof(input.Nonce, input.Counter)
		if err != nil {
			if !errors.Is(err, pow.ErrProofInsufficient) && !errors.Is(err, pow.ErrNonceInvalid) {
				logx.Error(err, "pow: unexpected validation failure")
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeInvalid))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"token": token})
	}
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a regular account. The request must carry a proof token.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		if !deps.Pow.ConsumeProofToken(r) {
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeRequired))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !usernameRegex.MatchString(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		if !validPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		dbUser, err := deps.DB.CreateUser(r.Context(), dbc.CreateUserParams{
			Username:     input.Username,
			PasswordHash: string(hashedPassword),
			Role:         user.RoleUser,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("registration conflict: username already exists", "username", input.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		respondWithToken(w, r, deps, dbUser)
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials and issues a JWT token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity := jwt.GetPayloadFromContext(r); identity != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		dbUser, err := deps.DB.GetUserByUsername(r.Context(), input.Username)
		if err != nil {
			if !db.IsNotFound(err) {
				logx.Error(err, "login: user fetch failed", "username", input.Username)
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		respondWithToken(w, r, deps, dbUser)
	}
}

func respondWithToken(w http.ResponseWriter, r *http.Request, deps *AppDeps, dbUser dbc.User) {
	view := newUserView(dbUser)

	token, err := jwt.GenerateToken(&jwt.Payload{
		ID:       view.ID,
		Username: view.Username,
		Role:     view.Role,
	}, deps.Config.JWTSecret, jwt.AccessTokenExpiration)
	if err != nil {
		logx.Error(err, "jwt generation failed", "username", view.Username)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	resp.RespondSuccess(w, r, map[string]any{
		"token":      token,
		"token_type": "bearer",
		"user":       view,
	})
}

// HandleMe returns the account behind the current token.
func HandleMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbUser, customErr := currentUser(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, newUserView(dbUser))
	}
}

// currentUser loads the account of the authenticated caller. Tokens of deleted accounts
// are rejected as unauthorized.
func currentUser(r *http.Request, deps *AppDeps) (dbc.User, *errs.CustomError) {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		return dbc.User{}, errs.NewError(errs.ErrUnauthorized)
	}

	id, ok := db.ParseUUID(identity.ID)
	if !ok {
		return dbc.User{}, errs.NewError(errs.ErrUnauthorized)
	}

	dbUser, err := deps.DB.GetUserByID(r.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			return dbc.User{}, errs.NewError(errs.ErrUnauthorized)
		}
		logx.Error(err, "failed to load current user", "user_id", identity.ID)
		return dbc.User{}, errs.NewError(errs.ErrUnknown)
	}

	return dbUser, nil
}
