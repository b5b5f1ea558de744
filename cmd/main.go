package main

import (
	"dms-web-server/config"
	_ "dms-web-server/docs"
	"dms-web-server/internal/handler"
	"dms-web-server/internal/middleware"
	"dms-web-server/internal/migrations"
	"dms-web-server/internal/model"
	"dms-web-server/internal/ports"
	"dms-web-server/internal/repository"
	"dms-web-server/internal/security"
	"dms-web-server/internal/service"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title DMS-web-server
// @version 1.0
// @description Внутренний сервис хранения документов: загрузка, поиск, просмотр, скачивание, печать и удаление с журналом доступа

// @host localhost:8080

// @securityDefinitions.apikey SessionCookie
// @in header
// @name Cookie
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	if err := migrations.RunMigrations(ctx, db.DB.DB); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	accessLogRepo := repository.NewAccessLogRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.Cache.PermissionsTTL)*time.Second)

	storage, err := setupStorage(ctx, &cfg.Storage)
	if err != nil {
		log.Fatalf("Ошибка создания хранилища файлов: %v", err)
	}

	permService := service.NewPermissionService(groupRepo, cacheRepo)
	docService := service.NewDocumentService(docRepo, accessLogRepo, permService, storage, &cfg.Upload)

	sessionService := security.NewSessionService(&cfg.Session)
	authService := service.NewAuthenticationService(sessionRepo, sessionService, userRepo)

	authHandler := handler.NewAuthenticationHandler(authService, &cfg.Session)
	docHandler := handler.NewDocumentHandler(docService, &cfg.Upload)

	registry := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("Ошибка регистрации метрик: %v", err)
	}

	router.Use(promMiddleware.Handler)
	router.Use(config.DBMiddleware(db))
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	setupAuthRoutes(router, authHandler, sessionRepo, sessionService, cfg)
	setupDocumentRoutes(router, docHandler, sessionRepo, sessionService, permService, cfg)

	runServer(ctx, srv)
}

func setupStorage(ctx context.Context, cfg *config.StorageConfig) (ports.FileStorage, error) {
	if cfg.Type == "s3" {
		return service.NewS3Storage(ctx, &cfg.S3)
	}
	return service.NewLocalStorage(cfg.ContentRoot)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, sessionRepo *repository.SessionRepository, sessionService *security.SessionService, cfg *config.AppConfig) {
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(security.SessionMiddleware([]byte(cfg.Session.SecretKey), sessionRepo, sessionService, cfg.Session.CookieName))
		r.Post("/logout", h.Logout)
	})
}

func setupDocumentRoutes(r chi.Router, h *handler.DocumentHandler, sessionRepo *repository.SessionRepository, sessionService *security.SessionService, permService ports.PermissionService, cfg *config.AppConfig) {
	r.Route("/documents", func(r chi.Router) {
		r.Use(security.SessionMiddleware([]byte(cfg.Session.SecretKey), sessionRepo, sessionService, cfg.Session.CookieName))

		r.Get("/", h.ListDocuments)

		r.Group(func(r chi.Router) {
			r.Use(security.RequirePermission(permService, model.PermAddDocument))
			r.Get("/upload", h.UploadForm)
			r.Post("/upload", h.UploadDocument)
		})

		r.Route("/{doc_id}", func(r chi.Router) {
			r.Get("/", h.ViewDocument)
			r.Get("/download", h.DownloadDocument)

			r.With(security.RequirePermission(permService, model.PermPrintDocument)).
				Get("/print", h.PrintDocument)

			r.Group(func(r chi.Router) {
				r.Use(security.RequirePermission(permService, model.PermDeleteDocument))
				r.Get("/delete", h.ConfirmDelete)
				r.Post("/delete", h.DeleteDocument)
			})
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
