package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/newsdesk/core"
	articlesweb "github.com/dmitrymomot/newsdesk/modules/articles"
	authweb "github.com/dmitrymomot/newsdesk/modules/auth"
	"github.com/dmitrymomot/newsdesk/modules/theme"
	usersweb "github.com/dmitrymomot/newsdesk/modules/users"
	"github.com/dmitrymomot/newsdesk/pkg/config"
	"github.com/dmitrymomot/newsdesk/pkg/cookie"
	"github.com/dmitrymomot/newsdesk/pkg/email"
	"github.com/dmitrymomot/newsdesk/pkg/httpserver"
	"github.com/dmitrymomot/newsdesk/pkg/logger"
	"github.com/dmitrymomot/newsdesk/pkg/mongo"
	"github.com/dmitrymomot/newsdesk/pkg/redis"
	"github.com/dmitrymomot/newsdesk/pkg/session"
	"github.com/dmitrymomot/newsdesk/storage"
	articlesvc "github.com/dmitrymomot/newsdesk/svc/articles"
	authsvc "github.com/dmitrymomot/newsdesk/svc/auth"
)

type appConfig struct {
	Name        string `env:"APP_NAME" envDefault:"newsdesk"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	BaseURL     string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		appCfg     appConfig
		httpCfg    httpserver.Config
		mongoCfg   mongo.Config
		redisCfg   redis.Config
		cookieCfg  cookie.Config
		sessionCfg session.Config
		emailCfg   email.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&cookieCfg)
	config.MustLoad(&sessionCfg)
	config.MustLoad(&emailCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, appCfg.Name))
	logger.SetAsDefault(log)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg, mongoCfg.Database)
	if err != nil {
		log.ErrorContext(ctx, "connecting to mongo", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.ErrorContext(ctx, "connecting to redis", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	usersRepo := storage.NewUsers(db)
	articlesRepo := storage.NewArticles(db)
	if err := usersRepo.EnsureIndexes(ctx); err != nil {
		log.ErrorContext(ctx, "ensuring user indexes", logger.Error(err))
		os.Exit(1)
	}

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		log.ErrorContext(ctx, "building cookie manager", logger.Error(err))
		os.Exit(1)
	}

	sessions := session.New(
		session.WithConfig(sessionCfg),
		session.WithStore(session.NewRedisStore(redisClient)),
		session.WithCookieManager(cookies),
	)

	mailer := newMailer(emailCfg, log)

	auth := authsvc.NewService(usersRepo, mailer, appCfg.BaseURL, authsvc.WithLogger(log))
	gate := authsvc.NewGate(sessions, usersRepo, log)
	stats := articlesvc.NewService(articlesRepo)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		mongo.Healthcheck(db.Client()),
		redis.Healthcheck(redisClient),
	))

	r.Mount("/auth", authweb.NewService(auth, sessions, log).Handle())
	r.Mount("/theme", theme.NewService(cookies).Handle())

	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuthenticated)
		r.Get("/", core.Handler(func(*http.Request) core.Response {
			return core.Redirect("/articles/stats/view")
		}))
		r.Mount("/users", usersweb.NewService(usersRepo, auth, log).Handle())
	})

	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuthenticated)
		r.Use(gate.RequireRole(authsvc.RoleAdmin))
		r.Mount("/articles", articlesweb.NewService(articlesRepo, stats, log).Handle())
	})

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("server started", "addr", httpCfg.Addr, "env", appCfg.Environment)
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("server stopped")
		}),
	)
	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "server exited", logger.Error(err))
		os.Exit(1)
	}
}

// newMailer picks the transactional sender when Postmark is configured and
// falls back to the on-disk development sender otherwise.
func newMailer(cfg email.Config, log *slog.Logger) email.EmailSender {
	if cfg.PostmarkServerToken != "" && cfg.PostmarkAccountToken != "" {
		sender, err := email.NewPostmarkClient(cfg)
		if err != nil {
			log.Error("configuring postmark client", logger.Error(err))
			os.Exit(1)
		}
		return sender
	}
	log.Warn("postmark tokens not set, writing outbound email to disk", "dir", cfg.DevOutputDir)
	return email.NewDevSender(cfg.DevOutputDir)
}
