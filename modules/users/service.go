// Package users is the HTTP surface of user management, mounted behind
// the authentication gate. Creation goes through the auth service so the
// password hashing and default-role policy stay in one place.
package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/newsdesk/core"
	"github.com/dmitrymomot/newsdesk/pkg/binder"
	"github.com/dmitrymomot/newsdesk/pkg/logger"
	"github.com/dmitrymomot/newsdesk/pkg/sanitizer"
	"github.com/dmitrymomot/newsdesk/pkg/validator"
	"github.com/dmitrymomot/newsdesk/storage"
	authsvc "github.com/dmitrymomot/newsdesk/svc/auth"
)

// UserStore is the repository surface of the handlers; creation is not
// here on purpose, it belongs to the auth service.
type UserStore interface {
	List(ctx context.Context, opts storage.ListUsersOptions) ([]storage.User, error)
	FindByID(ctx context.Context, id string) (*storage.User, error)
	Update(ctx context.Context, id string, set bson.M) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store UserStore
	auth  *authsvc.Service
	log   *slog.Logger
}

func NewService(store UserStore, auth *authsvc.Service, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store: store,
		auth:  auth,
		log:   log.With(logger.Component("modules.users")),
	}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", core.Handler(s.list))
	r.Post("/", core.Handler(s.create))

	r.Get("/{id}", core.Handler(s.get))
	r.Put("/{id}", core.Handler(s.update))
	r.Delete("/{id}", core.Handler(s.del))

	return r
}

func (s *Service) list(r *http.Request) core.Response {
	var opts storage.ListUsersOptions
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return core.JSONError(core.ErrBadRequest)
		}
		opts.Limit = n
	}
	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return core.JSONError(core.ErrBadRequest)
		}
		opts.Skip = n
	}

	users, err := s.store.List(r.Context(), opts)
	if err != nil {
		return s.serverError(r, "listing users", err)
	}
	if users == nil {
		users = []storage.User{}
	}
	return core.JSON(users)
}

func (s *Service) get(r *http.Request) core.Response {
	user, err := s.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return s.storeError(r, "finding user", err)
	}
	return core.JSON(user)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

func (s *Service) create(r *http.Request) core.Response {
	var req createUserRequest
	if err := binder.JSON()(r, &req); err != nil {
		return core.JSONError(core.ErrBadRequest)
	}

	user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password, req.Age)
	switch {
	case err == nil:
	case errors.Is(err, authsvc.ErrEmailTaken):
		return core.JSONError(core.ErrConflict)
	case validator.IsValidationError(err):
		return core.JSONError(err)
	default:
		return s.serverError(r, "creating user", err)
	}

	return core.JSONStatus(http.StatusCreated, user)
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func (s *Service) update(r *http.Request) core.Response {
	var req updateUserRequest
	if err := binder.JSON()(r, &req); err != nil {
		return core.JSONError(core.ErrBadRequest)
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = sanitizer.TrimName(req.Name)
	}
	if req.Email != "" {
		emailAddr := sanitizer.NormalizeEmail(req.Email)
		if err := validator.Apply(validator.ValidEmail("email", emailAddr)); err != nil {
			return core.JSONError(err)
		}
		set["email"] = emailAddr
	}
	if req.Age != 0 {
		if err := validator.Apply(validator.RangeNum("age", req.Age, 0, 150)); err != nil {
			return core.JSONError(err)
		}
		set["age"] = req.Age
	}
	if len(set) == 0 {
		return core.JSONError(core.ErrBadRequest)
	}

	id := chi.URLParam(r, "id")
	if err := s.store.Update(r.Context(), id, set); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return core.JSONError(core.ErrConflict)
		}
		return s.storeError(r, "updating user", err)
	}

	user, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		return s.storeError(r, "reloading user", err)
	}
	return core.JSON(user)
}

func (s *Service) del(r *http.Request) core.Response {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return s.storeError(r, "deleting user", err)
	}
	return core.JSONMessage("user deleted")
}

func (s *Service) storeError(r *http.Request, msg string, err error) core.Response {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return core.JSONError(core.ErrNotFound)
	case errors.Is(err, storage.ErrInvalidID), errors.Is(err, storage.ErrEmptyFilter):
		return core.JSONError(core.ErrBadRequest)
	}
	return s.serverError(r, msg, err)
}

func (s *Service) serverError(r *http.Request, msg string, err error) core.Response {
	s.log.ErrorContext(r.Context(), msg, logger.Error(err))
	return core.JSONError(core.ErrInternalServerError)
}
