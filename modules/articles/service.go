// Package articles is the HTTP surface of article management: CRUD,
// bulk operations, and the per-year stats in both JSON and HTML form.
// The whole router is mounted behind the authentication gate with the
// admin role required.
package articles

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/newsdesk/core"
	"github.com/dmitrymomot/newsdesk/modules/theme"
	"github.com/dmitrymomot/newsdesk/pkg/binder"
	"github.com/dmitrymomot/newsdesk/pkg/logger"
	"github.com/dmitrymomot/newsdesk/pkg/validator"
	"github.com/dmitrymomot/newsdesk/storage"
	articlesvc "github.com/dmitrymomot/newsdesk/svc/articles"
)

// ArticleStore is the repository surface the handlers use.
// *storage.Articles satisfies it.
type ArticleStore interface {
	List(ctx context.Context, opts storage.ListArticlesOptions) ([]storage.Article, error)
	FindByID(ctx context.Context, id string) (*storage.Article, error)
	Insert(ctx context.Context, article *storage.Article) error
	InsertMany(ctx context.Context, articles []storage.Article) (int64, error)
	Update(ctx context.Context, id string, set bson.M) error
	UpdateMany(ctx context.Context, filter bson.M, set bson.M) (matched, modified int64, err error)
	Replace(ctx context.Context, filter bson.M, article storage.Article) (matched, modified int64, err error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
}

type Service struct {
	store ArticleStore
	stats *articlesvc.Service
	log   *slog.Logger
}

func NewService(store ArticleStore, stats *articlesvc.Service, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store: store,
		stats: stats,
		log:   log.With(logger.Component("modules.articles")),
	}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	// Fixed segments before the id wildcard.
	r.Get("/stats", core.Handler(s.statsJSON))
	r.Get("/stats/view", core.Handler(s.statsView))

	r.Get("/", core.Handler(s.list))
	r.Post("/", core.Handler(s.create))

	r.Post("/many", core.Handler(s.createMany))
	r.Put("/many", core.Handler(s.updateMany))
	r.Delete("/many", core.Handler(s.deleteMany))

	r.Put("/replace", core.Handler(s.replace))

	r.Get("/{id}", core.Handler(s.get))
	r.Put("/{id}", core.Handler(s.update))
	r.Delete("/{id}", core.Handler(s.del))

	return r
}

func (s *Service) list(r *http.Request) core.Response {
	opts, err := parseListOptions(r)
	if err != nil {
		return core.JSONError(core.ErrBadRequest)
	}

	articles, err := s.store.List(r.Context(), opts)
	if err != nil {
		return s.serverError(r, "listing articles", err)
	}
	if articles == nil {
		articles = []storage.Article{}
	}
	return core.JSON(articles)
}

// parseListOptions reads limit/skip/sort query params. Sort takes a field
// name, with a leading "-" for descending.
func parseListOptions(r *http.Request) (storage.ListArticlesOptions, error) {
	var opts storage.ListArticlesOptions
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return opts, errors.New("invalid limit")
		}
		opts.Limit = n
	}
	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return opts, errors.New("invalid skip")
		}
		opts.Skip = n
	}
	if raw := q.Get("sort"); raw != "" {
		field, dir := raw, 1
		if strings.HasPrefix(raw, "-") {
			field, dir = raw[1:], -1
		}
		if field == "" {
			return opts, errors.New("invalid sort")
		}
		opts.Sort = map[string]int{field: dir}
	}
	return opts, nil
}

func (s *Service) get(r *http.Request) core.Response {
	article, err := s.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return s.storeError(r, "finding article", err)
	}
	return core.JSON(article)
}

type articleRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (a articleRequest) validate() error {
	return validator.Apply(
		validator.RequiredString("title", a.Title),
		validator.RequiredString("text", a.Text),
		validator.MaxLenString("title", a.Title, 200),
	)
}

func (s *Service) create(r *http.Request) core.Response {
	var req articleRequest
	if err := binder.JSON()(r, &req); err != nil {
		return core.JSONError(core.ErrBadRequest)
	}
	if err := req.validate(); err != nil {
		return core.JSONError(err)
	}

	article := &storage.Article{Title: req.Title, Text: req.Text}
	if err := s.store.Insert(r.Context(), article); err != nil {
		return s.serverError(r, "creating article", err)
	}
	return core.JSONStatus(http.StatusCreated, article)
}

func (s *Service) update(r *http.Request) core.Response {
	var req articleRequest
	if err := binder.JSON()(r, &req); err != nil {
		return core.JSONError(core.ErrBadRequest)
	}

	set := bson.M{}
	if req.Title != "" {
		set["title"] = req.Title
	}
	if req.Text != "" {
		set["text"] = req.Text
	}
	if len(set) == 0 {
		return core.JSONError(core.ErrBadRequest)
	}

	id := chi.URLParam(r, "id")
	if err := s.store.Update(r.Context(), id, set); err != nil {
		return s.storeError(r, "updating article", err)
	}

	article, err := s.store.FindByID(r.Context(), id)
	if err != nil {
		return s.storeError(r, "reloading article", err)
	}
	return core.JSON(article)
}

func (s *Service) del(r *http.Request) core.Response {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return s.storeError(r, "deleting article", err)
	}
	return core.JSONMessage("article deleted")
}

func (s *Service) createMany(r *http.Request) core.Response {
	var reqs []articleRequest
	if err := binder.JSON()(r, &reqs); err != nil {
		return core.JSONError(core.ErrBadRequest)
	}
	if len(reqs) == 0 {
		return core.JSONError(core.ErrBadRequest)
	}

	articles := make([]storage.Article, len(reqs))
	for i, req := range reqs {
		if err := req.validate(); err != nil {
			return core.JSONError(err)
		}
		articles[i] = storage.Article{Title: req.Title, Text: req.Text}
	}

	inserted, err := s.store.InsertMany(r.Context(), articles)
	if err != nil {
		return s.serverError(r, "creating articles", err)
	}
	return core.JSONStatus(http.StatusCreated, map[string]any{"inserted": inserted})
}

type updateManyRequest struct {
	Filter map[string]any `json:"filter"`
	Update map[string]any `json:"update"`
}

func (s *Service) updateMany(r *http.Request) core.Response {
	var req updateManyRequest
	if err := binder.JSON()(r, &req); err != nil {
		return core.JSONError(core.ErrBadRequest)
	}
	if len(req.Filter) == 0 || len(req.Update) == 0 {
		return core.JSONError(core.ErrBadRequest)
	}

	matched, modified, err := s.store.UpdateMany(r.Context(), bson.M(req.Filter), bson.M(req.Update))
	if err != nil {
		return s.storeError(r, "updating articles", err)
	}
	return core.JSON(map[string]any{"matched": matched, "modified": modified})
}

type replaceRequest struct {
	Query       map[string]any `json:"query"`
	Replacement articleRequest `json:"replacement"`
}

func (s *Service) replace(r *http.Request) core.Response {
	var req replaceRequest
	if err := binder.JSON()(r, &req); err != nil {
		return core.JSONError(core.ErrBadRequest)
	}
	if len(req.Query) == 0 {
		return core.JSONError(core.ErrBadRequest)
	}
	if err := req.Replacement.validate(); err != nil {
		return core.JSONError(err)
	}

	filter, err := normalizeIDFilter(req.Query)
	if err != nil {
		return core.JSONError(core.ErrBadRequest)
	}

	matched, modified, err := s.store.Replace(r.Context(), filter, storage.Article{
		Title: req.Replacement.Title,
		Text:  req.Replacement.Text,
	})
	if err != nil {
		return s.storeError(r, "replacing article", err)
	}
	return core.JSON(map[string]any{"matched": matched, "modified": modified})
}

func (s *Service) deleteMany(r *http.Request) core.Response {
	var filter map[string]any
	if err := binder.JSON()(r, &filter); err != nil {
		return core.JSONError(core.ErrBadRequest)
	}
	if len(filter) == 0 {
		return core.JSONError(core.ErrBadRequest)
	}

	deleted, err := s.store.DeleteMany(r.Context(), bson.M(filter))
	if err != nil {
		return s.storeError(r, "deleting articles", err)
	}
	return core.JSON(map[string]any{"deleted": deleted})
}

func (s *Service) statsJSON(r *http.Request) core.Response {
	stats, err := s.stats.StatsByYear(r.Context())
	if err != nil {
		return s.serverError(r, "computing stats", err)
	}
	return core.JSON(stats)
}

func (s *Service) statsView(r *http.Request) core.Response {
	stats, err := s.stats.StatsByYear(r.Context())
	if err != nil {
		return s.serverError(r, "computing stats", err)
	}
	return core.Templ(StatsPage(stats, theme.Current(r)))
}

// normalizeIDFilter converts a client-supplied "_id" hex string into an
// ObjectID so the filter matches stored documents.
func normalizeIDFilter(query map[string]any) (bson.M, error) {
	filter := bson.M{}
	for k, v := range query {
		filter[k] = v
	}
	if raw, ok := filter["_id"].(string); ok {
		oid, err := bson.ObjectIDFromHex(raw)
		if err != nil {
			return nil, storage.ErrInvalidID
		}
		filter["_id"] = oid
	}
	return filter, nil
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
