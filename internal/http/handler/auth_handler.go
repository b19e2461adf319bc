package handler

import (
	"net/http"

	"github.com/contractgov/contract-api/internal/domain"
	"github.com/contractgov/contract-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignUp godoc
// @Summary Create an account
// @Description Registers a user with a profile and returns an open session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.SignUpRequest true "Account data"
// @Success 201 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already registered"
// @Failure 429 {object} domain.APIError
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	session, err := h.authService.SignUp(r.Context(), &req, r.UserAgent())
	if err != nil {
		handleServiceError(w, h.logger, err, "sign up")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// SignIn godoc
// @Summary Sign in
// @Description Authenticates with email and password and returns an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.SignInRequest true "Credentials"
// @Success 200 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 429 {object} domain.APIError
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	session, err := h.authService.SignIn(r.Context(), &req, r.UserAgent())
	if err != nil {
		handleServiceError(w, h.logger, err, "sign in")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// SignOut godoc
// @Summary Sign out
// @Description Revokes the current session
// @Tags Auth
// @Success 204 "No Content"
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.SignOut(r.Context()); err != nil {
		handleServiceError(w, h.logger, err, "sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session godoc
// @Summary Get current session
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.SessionDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.authService.Session(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "get session")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the user and profile behind the session
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.MeResponse
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.authService.Me(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "get current user")
		return
	}
	respondJSON(w, http.StatusOK, me)
}
