package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types/users"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/jwt"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/password"
	"github.com/princekumarofficial/tourism-media-service/internal/utils/response"
)

var (
	validate = validator.New()

	errBadCredentials = errors.New("invalid email or password")
)

// decode reads a JSON body of at most 16KB into dst and validates it.
// It writes the 400 response itself and reports whether the caller may go on.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(dst); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
			return false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an editor account.
// @Summary Register a new user
// @Description Register a new editor account. Only mounted when auth.allow_signup is set.
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignUpRequest true "User registration details"
// @Success 201 {object} response.Response "User created successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 409 {object} response.Response "Email already registered"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /signup [post]
func SignUp(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.SignUpRequest
		if !decode(w, r, &req) {
			return
		}

		hashed, err := password.HashPassword(req.Password)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to hash password")))
			return
		}

		userID, err := store.CreateUser(r.Context(), normalizeEmail(req.Email), hashed)
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			response.WriteJSON(w, http.StatusConflict, response.GeneralError(errors.New("email already registered")))
			return
		case err != nil:
			slog.Error("failed to create user", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info("user created", slog.String("user_id", userID))
		response.WriteJSON(w, http.StatusCreated, response.RequestOK("User created successfully", map[string]string{
			"id": userID,
		}))
	}
}

// Login exchanges email and password for a bearer token.
// @Summary Authenticate a user
// @Description Authenticate an editor and return a JWT for the upload, update and delete routes
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignInRequest true "User login details"
// @Success 200 {object} users.TokenResponse "User authenticated successfully with token"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /login [post]
func Login(store storage.Storage, jwtSecret string, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.SignInRequest
		if !decode(w, r, &req) {
			return
		}

		userID, hashed, err := store.GetUserByEmail(r.Context(), normalizeEmail(req.Email))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errBadCredentials))
				return
			}
			slog.Error("failed to load user", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to load user")))
			return
		}

		if !password.CheckPasswordHash(req.Password, hashed) {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errBadCredentials))
			return
		}

		token, expiresAt, err := jwt.CreateToken(userID, jwtSecret, tokenTTL)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to generate token")))
			return
		}

		response.WriteJSON(w, http.StatusOK, users.TokenResponse{
			UserID:    userID,
			Token:     token,
			ExpiresAt: expiresAt.Unix(),
		})
	}
}
