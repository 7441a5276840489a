package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lastcall/sms-backend/api/routes"
	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/handlers"
	"github.com/lastcall/sms-backend/internal/repositories"
	mongorepo "github.com/lastcall/sms-backend/internal/repositories/mongodb"
	"github.com/lastcall/sms-backend/internal/services"
	"github.com/lastcall/sms-backend/pkg/mongodb"
	"github.com/lastcall/sms-backend/pkg/smsgateway"
)

func main() {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
	connectCancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	var accountRepo repositories.AccountRepository = mongorepo.NewAccountRepository(db)
	var recipientRepo repositories.RecipientRepository = mongorepo.NewRecipientRepository(db)
	var blastRepo repositories.BlastRepository = mongorepo.NewBlastRepository(db)
	var couponRepo repositories.CouponRepository = mongorepo.NewCouponRepository(db)
	var metricsRepo repositories.MetricsRepository = mongorepo.NewMetricsRepository(db)
	var operatorRepo repositories.OperatorRepository = mongorepo.NewOperatorRepository(db)

	gateway := smsgateway.NewTelnyxGateway(cfg)

	clock, err := services.NewSlotClock(cfg.Scheduler)
	if err != nil {
		log.Fatalf("Failed to load scheduler timezone: %v", err)
	}

	authService := services.NewAuthService(operatorRepo, cfg)
	accountService := services.NewAccountService(accountRepo, recipientRepo, blastRepo)
	recipientService := services.NewRecipientService(accountRepo, recipientRepo)
	blastService := services.NewBlastService(accountRepo, recipientRepo, blastRepo, gateway, cfg.Dispatch, clock)
	conversationService := services.NewConversationService(accountRepo, recipientRepo, couponRepo, gateway, cfg.Conversation)
	couponService := services.NewCouponService(couponRepo)
	metricsService := services.NewMetricsService(recipientRepo, metricsRepo)
	schedulerService := services.NewSchedulerService(accountRepo, blastRepo, blastService, clock, cfg.Scheduler)

	schedulerService.Start(ctx)

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService),
		AccountHandler:   handlers.NewAccountHandler(accountService),
		RecipientHandler: handlers.NewRecipientHandler(recipientService),
		BlastHandler:     handlers.NewBlastHandler(blastService),
		CouponHandler:    handlers.NewCouponHandler(couponService),
		WebhookHandler:   handlers.NewWebhookHandler(conversationService),
		MetricsHandler:   handlers.NewMetricsHandler(metricsService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop the scheduler loops before draining in-flight requests
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
