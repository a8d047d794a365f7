// Package auth is the HTTP surface of the authentication flows: login,
// registration, logout, and the password reset pages. Browser clients get
// server-rendered pages and redirects; everyone else gets JSON.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/newsdesk/core"
	"github.com/dmitrymomot/newsdesk/modules/theme"
	"github.com/dmitrymomot/newsdesk/pkg/binder"
	"github.com/dmitrymomot/newsdesk/pkg/logger"
	"github.com/dmitrymomot/newsdesk/pkg/session"
	"github.com/dmitrymomot/newsdesk/pkg/validator"
	authsvc "github.com/dmitrymomot/newsdesk/svc/auth"
)

const (
	// resetAckMessage is returned for every forgot-password submission,
	// known email or not.
	resetAckMessage = "If this email is registered, you will receive a message with instructions."

	invalidLinkMessage  = "The reset link is invalid or has expired."
	weakPasswordMessage = "Password must be at least 6 characters."
)

type Service struct {
	auth     *authsvc.Service
	sessions *session.Manager
	log      *slog.Logger
}

func NewService(auth *authsvc.Service, sessions *session.Manager, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		auth:     auth,
		sessions: sessions,
		log:      log.With(logger.Component("modules.auth")),
	}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/login", core.Handler(s.loginPage))
	r.Post("/login", core.HandlerWithWriter(s.login))

	r.Get("/register", core.Handler(s.registerPage))
	r.Post("/register", core.HandlerWithWriter(s.register))

	r.Post("/logout", core.HandlerWithWriter(s.logout))

	r.Get("/forgot", core.Handler(s.forgotPage))
	r.Post("/forgot", core.Handler(s.forgot))

	r.Get("/reset/{token}", core.Handler(s.resetPage))
	r.Post("/reset/{token}", core.Handler(s.reset))

	return r
}

func (s *Service) loginPage(r *http.Request) core.Response {
	return core.Templ(LoginPage(LoginPageParams{Theme: theme.Current(r)}))
}

type loginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) core.Response {
	var req loginRequest
	if err := binder.Form()(r, &req); err != nil {
		return s.badForm(r, err)
	}

	user, err := s.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			if wantsHTML(r) {
				return core.TemplStatus(http.StatusUnauthorized, LoginPage(LoginPageParams{
					Email:        req.Email,
					ErrorMessage: "Invalid email or password.",
					Theme:        theme.Current(r),
				}))
			}
			return core.JSONError(core.ErrUnauthorized)
		}
		return s.serverError(r, "login failed", err)
	}

	if _, err := s.sessions.Authenticate(r.Context(), w, r, user.ID.Hex()); err != nil {
		return s.serverError(r, "establishing session", err)
	}

	if wantsHTML(r) {
		return core.Redirect("/")
	}
	return core.JSON(user)
}

func (s *Service) registerPage(r *http.Request) core.Response {
	return core.Templ(RegisterPage(RegisterPageParams{Theme: theme.Current(r)}))
}

type registerRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Age      int    `form:"age"`
}

func (s *Service) register(w http.ResponseWriter, r *http.Request) core.Response {
	var req registerRequest
	if err := binder.Form()(r, &req); err != nil {
		return s.badForm(r, err)
	}

	user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password, req.Age)
	switch {
	case err == nil:
	case errors.Is(err, authsvc.ErrEmailTaken):
		if wantsHTML(r) {
			return core.TemplStatus(http.StatusConflict, RegisterPage(RegisterPageParams{
				Name:         req.Name,
				Email:        req.Email,
				ErrorMessage: "A user with this email is already registered.",
				Theme:        theme.Current(r),
			}))
		}
		return core.JSONError(core.ErrConflict)
	case validator.IsValidationError(err):
		if wantsHTML(r) {
			return core.TemplStatus(http.StatusBadRequest, RegisterPage(RegisterPageParams{
				Name:         req.Name,
				Email:        req.Email,
				ErrorMessage: "Please check the form fields.",
				Theme:        theme.Current(r),
			}))
		}
		return core.JSONError(err)
	default:
		return s.serverError(r, "registration failed", err)
	}

	// Auto-login after registration.
	if _, err := s.sessions.Authenticate(r.Context(), w, r, user.ID.Hex()); err != nil {
		return s.serverError(r, "establishing session after registration", err)
	}

	if wantsHTML(r) {
		return core.Redirect("/")
	}
	return core.JSONStatus(http.StatusCreated, user)
}

// logout is idempotent; destroying a missing session is not an error.
func (s *Service) logout(w http.ResponseWriter, r *http.Request) core.Response {
	if err := s.sessions.Destroy(r.Context(), w, r); err != nil {
		s.log.ErrorContext(r.Context(), "destroying session", logger.Error(err))
	}
	if wantsHTML(r) {
		return core.Redirect(authsvc.LoginPath)
	}
	return core.JSONMessage("logged out")
}

func (s *Service) forgotPage(r *http.Request) core.Response {
	return core.Templ(ForgotPage(ForgotPageParams{Theme: theme.Current(r)}))
}

type forgotRequest struct {
	Email string `form:"email"`
}

func (s *Service) forgot(r *http.Request) core.Response {
	var req forgotRequest
	if err := binder.Form()(r, &req); err != nil {
		return s.badForm(r, err)
	}

	err := s.auth.RequestReset(r.Context(), req.Email)
	switch {
	case err == nil:
	case validator.IsValidationError(err):
		if wantsHTML(r) {
			return core.TemplStatus(http.StatusBadRequest, ForgotPage(ForgotPageParams{
				Message: "Please enter a valid email address.",
				Theme:   theme.Current(r),
			}))
		}
		return core.JSONError(err)
	default:
		return s.serverError(r, "reset request failed", err)
	}

	if wantsHTML(r) {
		return core.Templ(ForgotPage(ForgotPageParams{
			Message: resetAckMessage,
			Theme:   theme.Current(r),
		}))
	}
	return core.JSONMessage(resetAckMessage)
}

func (s *Service) resetPage(r *http.Request) core.Response {
	token := chi.URLParam(r, "token")

	if _, err := s.auth.ValidateResetToken(r.Context(), token); err != nil {
		if errors.Is(err, authsvc.ErrInvalidResetToken) {
			return s.invalidLink(r)
		}
		return s.serverError(r, "validating reset token", err)
	}

	return core.Templ(ResetPage(ResetPageParams{Token: token, Theme: theme.Current(r)}))
}

type resetRequest struct {
	Password string `form:"password"`
}

func (s *Service) reset(r *http.Request) core.Response {
	token := chi.URLParam(r, "token")

	var req resetRequest
	if err := binder.Form()(r, &req); err != nil {
		return s.badForm(r, err)
	}

	err := s.auth.ResetPassword(r.Context(), token, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, authsvc.ErrInvalidResetToken):
		return s.invalidLink(r)
	case errors.Is(err, authsvc.ErrWeakPassword):
		// Token stays unconsumed; re-present the form.
		if wantsHTML(r) {
			return core.TemplStatus(http.StatusBadRequest, ResetPage(ResetPageParams{
				Token:   token,
				Message: weakPasswordMessage,
				Theme:   theme.Current(r),
			}))
		}
		return core.JSONError(core.ErrBadRequest)
	default:
		return s.serverError(r, "password reset failed", err)
	}

	if wantsHTML(r) {
		return core.Redirect(authsvc.LoginPath)
	}
	return core.JSONMessage("password updated")
}

func (s *Service) invalidLink(r *http.Request) core.Response {
	if wantsHTML(r) {
		return core.TemplStatus(http.StatusNotFound, ResetPage(ResetPageParams{
			Message: invalidLinkMessage,
			Theme:   theme.Current(r),
		}))
	}
	return core.JSONError(core.ErrNotFound)
}

func (s *Service) badForm(r *http.Request, err error) core.Response {
	s.log.WarnContext(r.Context(), "malformed form submission", logger.Error(err))
	return core.JSONError(core.ErrBadRequest)
}

func (s *Service) serverError(r *http.Request, msg string, err error) core.Response {
	s.log.ErrorContext(r.Context(), msg, logger.Error(err))
	return core.JSONError(core.ErrInternalServerError)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
