package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitness-backend/internal/config"
	"fitness-backend/internal/database"
	"fitness-backend/internal/db"
	"fitness-backend/internal/handlers"
	"fitness-backend/internal/health"
	h "fitness-backend/internal/http"
	"fitness-backend/internal/middleware"
	"fitness-backend/internal/notify"
	"fitness-backend/internal/ratelimit"
	"fitness-backend/internal/repositories"
	"fitness-backend/internal/scheduler"
	"fitness-backend/internal/services"
	"fitness-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Run database migrations
	migrator := database.NewMigrator(pool, "migrations")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	healthChecker := health.NewHealthChecker(pool)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	courseRepo := repositories.NewCourseRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	journalRepo := repositories.NewJournalRepository(pool)
	signinRepo := repositories.NewSigninRepository(pool)

	// Outbound push provider: real platform client in production, mock in dev
	var provider notify.Provider
	if cfg.Server.DevMode || cfg.Notify.AppID == "" {
		log.Println("[Notify] using mock provider (pushes log only)")
		provider = notify.NewMockProvider()
	} else {
		provider = notify.NewWeChatProvider(cfg.Notify.AppID, cfg.Notify.AppSecret, cfg.Notify.TemplateID, cfg.Notify.APIBase)
	}
	sender := notify.NewSender(provider)

	// Object storage is optional; uploads answer 409 when unconfigured
	var uploader *storage.Uploader
	if cfg.Storage.Bucket != "" {
		var err error
		uploader, err = storage.NewUploader(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to configure object storage: %v", err)
		}
	} else {
		log.Println("[Storage] bucket not configured, uploads disabled")
	}

	// Services
	courseService := services.NewCourseService(courseRepo)
	orderService := services.NewOrderService(orderRepo, courseRepo, userRepo, expenseRepo)
	expenseService := services.NewExpenseService(expenseRepo)
	qrcodeService := services.NewQRCodeService(orderRepo, signinRepo)
	userService := services.NewUserService(userRepo, orderRepo, expenseRepo)
	customerService := services.NewCustomerService(customerRepo, journalRepo, userRepo)
	notifyService := services.NewNotifyService(orderRepo, userRepo, sender, cfg.Notify.BatchSize)

	// Handlers
	courseHandler := handlers.NewCourseHandler(courseService)
	orderHandler := handlers.NewOrderHandler(orderService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	qrcodeHandler := handlers.NewQRCodeHandler(qrcodeService)
	userHandler := handlers.NewUserHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	uploadHandler := handlers.NewUploadHandler(uploader)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.Server.DevMode)
	corsMiddleware := middleware.NewCORS(cfg)
	limiter := ratelimit.New(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowMS)*time.Millisecond)
	requestLogging := middleware.NewRequestLogging()
	defer requestLogging.Close()

	router := h.NewRouter(
		courseHandler, orderHandler, expenseHandler, qrcodeHandler,
		userHandler, customerHandler, uploadHandler, healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		requestLogging.Handler(
			middleware.RateLimit(limiter)(
				corsMiddleware(router))))

	// Daily jobs: expire overdue passes just after midnight, push the
	// training reminder mid-morning
	sched := scheduler.New()
	sched.AddDaily("order-expiry-sweep", 0, 1, orderService.ExpireSweep)
	sched.AddDaily("notify-morning-sweep", 9, 0, notifyService.MorningSweep)
	sched.Start()
	defer sched.Stop()

	// Periodic limiter cleanup
	pruneStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-pruneStop:
				return
			case <-ticker.C:
				limiter.Prune()
			}
		}
	}()
	defer close(pruneStop)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
