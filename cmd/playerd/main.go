package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	api "github.com/mind-engage/courseplayer/internal/api/http"
	auth "github.com/mind-engage/courseplayer/internal/auth/middleware"
	"github.com/mind-engage/courseplayer/internal/config"
	"github.com/mind-engage/courseplayer/internal/db"
	"github.com/mind-engage/courseplayer/internal/docstore"
	"github.com/mind-engage/courseplayer/internal/events"
	"github.com/mind-engage/courseplayer/internal/grading"
	"github.com/mind-engage/courseplayer/internal/logger"
	"github.com/mind-engage/courseplayer/internal/media"
	"github.com/mind-engage/courseplayer/internal/metrics"
	"github.com/mind-engage/courseplayer/internal/rbac"
	"github.com/mind-engage/courseplayer/internal/session"
	"github.com/mind-engage/courseplayer/internal/storage"
	syncx "github.com/mind-engage/courseplayer/internal/sync"
)

type readiness func(context.Context) error

func main() {
	cfg := config.FromEnv()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []readiness
	sessionOpts := []session.Option{session.WithLogger(log), session.WithSeekTolerance(cfg.SeekTolerance)}

	// --- Document store ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var store docstore.Store
	switch cfg.DocStore {
	case "mongo":
		client, err := docstore.ConnectMongo(openCtx, cfg.MongoURI)
		if err != nil {
			log.Fatal("mongo connect failed", "err", err)
		}
		defer client.Disconnect(context.Background())
		store = docstore.NewMongoStore(client.Database(cfg.MongoDB))
		checks = append(checks, func(ctx context.Context) error { return client.Ping(ctx, nil) })
	default:
		dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatal("db open failed", "err", err)
		}
		defer dbh.Close()
		store = docstore.NewSQLStore(dbh)
		sessionOpts = append(sessionOpts, session.WithRecorder(syncx.NewEventRepo(dbh, cfg.SiteID)))
		checks = append(checks, pingDB(dbh))
	}

	// --- Blobs + media resolution ---
	var bs storage.BlobStore
	switch cfg.BlobDriver {
	case "gcs":
		gcs, err := storage.NewGCSStore(openCtx, cfg.GCSBucket, cfg.SignedURLTTL, storage.ClientOptionsFromEnv()...)
		if err != nil {
			log.Fatal("gcs store", "err", err)
		}
		defer gcs.Close()
		bs = gcs
	default:
		local, err := storage.NewFSStore(cfg.BlobBasePath, cfg.PublicURL)
		if err != nil {
			log.Fatal("blob store", "err", err)
		}
		bs = local
	}

	var cache media.Cache = media.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		cache = media.NewRedisCache(rdb)
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	resolver := media.NewResolver(bs, media.WithCache(cache, cfg.SignedURLTTL), media.WithResolverLogger(log))
	sessionOpts = append(sessionOpts, session.WithResolver(resolver))

	// --- Grading ---
	evalOpts := []grading.Option{}
	if len(cfg.CapstoneLinkPatterns) > 0 {
		patterns, err := grading.CompileLinkPatterns(cfg.CapstoneLinkPatterns)
		if err != nil {
			log.Fatal("capstone link patterns", "err", err)
		}
		evalOpts = append(evalOpts, grading.WithLinkPatterns(patterns...))
	}
	sessionOpts = append(sessionOpts, session.WithEvaluator(grading.NewEvaluator(evalOpts...)))

	// --- Notifications + metrics ---
	pub, err := events.NewAMQPPublisher(cfg.RabbitMQURI, log)
	if err != nil {
		log.Fatal("rabbitmq", "err", err)
	}
	defer pub.Close()
	if pub.Enabled() {
		sessionOpts = append(sessionOpts, session.WithNotifier(pub))
	}
	m := metrics.New()
	sessionOpts = append(sessionOpts, session.WithMetrics(m))

	mgr := session.NewManager(store, sessionOpts...)
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg))

	r.Route("/assets", func(ar chi.Router) {
		api.MountAssets(ar, bs, auth.JWTMiddleware(authSvc), rbac.Require(rbac.PermCourseWrite))
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Authoring
		pr.With(rbac.Require(rbac.PermCourseWrite)).
			Put("/courses/{courseID}", api.PutCourseHandler(store, mgr, log))

		// Catalog
		pr.With(rbac.Require(rbac.PermCourseView)).
			Get("/courses", api.ListCoursesHandler(store))
		pr.With(rbac.Require(rbac.PermCourseView)).
			Get("/courses/{courseID}", api.GetOutlineHandler(mgr))

		// Learner flow
		pr.Group(func(lr chi.Router) {
			lr.Use(rbac.Require(rbac.PermProgressWrite))
			lr.Get("/courses/{courseID}/player", api.PlayerViewHandler(mgr))
			lr.Post("/courses/{courseID}/lessons/{lessonKey}/open", api.OpenLessonHandler(mgr))
			lr.Post("/courses/{courseID}/lessons/{lessonKey}/playback", api.PlaybackHandler(mgr))
			lr.Post("/courses/{courseID}/lessons/{lessonKey}/submit", api.SubmitHandler(mgr))
			lr.Post("/courses/{courseID}/lessons/{lessonKey}/capstone", api.CapstoneHandler(mgr))
		})

		pr.With(rbac.Require(rbac.PermMediaResolve)).
			Get("/media/resolve", api.ResolveMediaHandler(resolver))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "err", err)
		}
	}()

	log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "docstore", cfg.DocStore, "blobs", cfg.BlobDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server", "err", err)
	}
}

func pingDB(dbh *sql.DB) readiness {
	return func(ctx context.Context) error { return dbh.PingContext(ctx) }
}
