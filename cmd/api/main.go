package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estatedesk-backend/internal/admins"
	"estatedesk-backend/internal/auth"
	"estatedesk-backend/internal/builderapi"
	"estatedesk-backend/internal/cache"
	"estatedesk-backend/internal/catalog"
	"estatedesk-backend/internal/config"
	"estatedesk-backend/internal/db"
	"estatedesk-backend/internal/drafts"
	"estatedesk-backend/internal/leads"
	"estatedesk-backend/internal/listings"
	"estatedesk-backend/internal/middleware"
	"estatedesk-backend/internal/notices"
	"estatedesk-backend/internal/notifications"
	"estatedesk-backend/internal/refdata"
	"estatedesk-backend/internal/submit"
	"estatedesk-backend/internal/uploads"
	"estatedesk-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewManager(
			cfg.JWTSecret,
			time.Duration(cfg.AccessTTLMinutes)*time.Minute,
			time.Duration(cfg.RefreshTTLMinutes)*time.Minute,
			"estatedesk-backend",
		)
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.AdminEmail, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	store, err := uploads.NewStore(cfg.UploadDir, cfg.UploadPublicURL)
	if err != nil {
		logger.Error("upload store init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	val := validation.New()

	builderClient := builderapi.NewClient(cfg.BuilderAPIBase, cfg.BuilderAPIKey)

	refClient := refdata.NewClient(cfg.BuilderAPIBase, cfg.BuilderAPIKey)
	refProvider := refdata.NewProvider(refClient, cacheStore, logger)
	cityLoader := refdata.NewCityLoader(refClient)
	refHandler := refdata.NewHandler(refProvider, cityLoader, logger)

	listingsRepo := listings.NewRepository(cols.Listings)
	listingsService := listings.NewService(listingsRepo, cfg.Timezone)
	listingsHandler := listings.NewHandler(listingsService, logger)

	noticesRepo := notices.NewRepository(cols.Notices)
	noticesService := notices.NewService(noticesRepo, cfg.Timezone)
	noticesHandler := notices.NewHandler(noticesService, logger)

	var leadNotifier leads.Notifier
	if mailer != nil {
		leadNotifier = mailer
	}
	leadsRepo := leads.NewRepository(cols.Leads)
	leadsService := leads.NewService(leadsRepo, listingsService, cfg.Timezone, leadNotifier)
	leadsHandler := leads.NewHandler(leadsService, val, logger)

	controller := submit.NewController(builderClient, store, logger)

	var submitNotifier drafts.Notifier
	if mailer != nil {
		submitNotifier = mailer
	}
	draftsRepo := drafts.NewRepository(cols.Drafts)
	draftsService := drafts.NewService(draftsRepo, store, drafts.Dependencies{
		API:        builderClient,
		Controller: controller,
		RefData:    refProvider,
		Listings:   listingsService,
		Notices:    noticesService,
		Notifier:   submitNotifier,
	}, cfg.Timezone, logger)
	draftsHandler := drafts.NewHandler(draftsService, val, logger)

	adminsRepo := admins.NewRepository(cols.AdminUsers)
	adminsHandler := admins.NewHandler(adminsRepo, jwtManager, val, logger, cfg.Env == "production")

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(120 * time.Second))

	leadsLimiter := middleware.NewRateLimiter(cfg.RateLimitLeads, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	submitLimiter := middleware.NewRateLimiter(cfg.RateLimitSubmit, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/refdata/states", refHandler.States)
		api.Get("/refdata/cities", refHandler.Cities)
		api.Get("/catalog/amenities", catalog.Amenities)

		api.Get("/listings", listingsHandler.PublicList)
		api.Get("/listings/{slug}", listingsHandler.PublicGetBySlug)
		api.With(leadsLimiter.Middleware).Post("/listings/{listingId}/leads", leadsHandler.Create)

		api.Route("/drafts", draftsHandler.Routes)
		api.With(submitLimiter.Middleware).Post("/otp/resend", draftsHandler.ResendOTP)

		api.Get("/notices", noticesHandler.List)
		api.Patch("/notices/{id}/read", noticesHandler.MarkRead)
		api.Post("/notices/read-all", noticesHandler.MarkAllRead)

		api.Post("/admin/login", adminsHandler.Login)
		api.Post("/admin/refresh", adminsHandler.Refresh)
		api.Post("/admin/logout", adminsHandler.Logout)

		api.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))
			admin.Get("/admin/leads", leadsHandler.AdminList)
			admin.Get("/admin/leads/export", leadsHandler.AdminExport)
			admin.Get("/admin/leads/{id}", leadsHandler.AdminGetByID)
			admin.Patch("/admin/leads/{id}", leadsHandler.AdminUpdateStatus)
		})
	})

	// Staged previews are public reads under the same origin as the API.
	uploadsFS := http.StripPrefix(cfg.UploadPublicURL+"/", http.FileServer(http.Dir(store.Dir())))
	r.Get(cfg.UploadPublicURL+"/*", uploadsFS.ServeHTTP)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
