package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/social-api/internal/api/metrics"
	"github.com/sirpyerre/social-api/internal/api/session"
	"github.com/sirpyerre/social-api/internal/core/domain"
	"github.com/sirpyerre/social-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	transport   *session.Transport
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, transport *session.Transport, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, transport: transport, log: log}
}

type signupRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup creates a new account and starts a session for it.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(signupFailure(err)).Inc()
		return err
	}
	metrics.SignupsTotal.WithLabelValues("created").Inc()

	h.transport.Attach(c, sess.Token)
	return c.JSON(http.StatusCreated, toUserResponse(sess.User))
}

// Login verifies credentials and starts a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.transport.Attach(c, sess.Token)
	return c.JSON(http.StatusOK, toUserResponse(sess.User))
}

// Logout clears the session cookie. It succeeds whether or not a session
// was presented.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), h.transport.Extract(c)); err != nil {
		h.log.Warn().Err(err).Msg("token revocation failed")
	}
	metrics.LogoutsTotal.Inc()

	h.transport.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out successfully"})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func signupFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
