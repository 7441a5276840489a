// Command auditmetrics compares every account's stored metrics snapshot
// against a fresh computation from the roster and recomputes the ones
// that drifted. Run with -dry-run to report without writing.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/lastcall/sms-backend/internal/config"
	mongorepo "github.com/lastcall/sms-backend/internal/repositories/mongodb"
	"github.com/lastcall/sms-backend/internal/services"
	"github.com/lastcall/sms-backend/pkg/mongodb"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report drift without recomputing")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDB.Database)
	accountRepo := mongorepo.NewAccountRepository(db)
	recipientRepo := mongorepo.NewRecipientRepository(db)
	metricsRepo := mongorepo.NewMetricsRepository(db)
	metricsService := services.NewMetricsService(recipientRepo, metricsRepo)

	accounts, err := accountRepo.FindAll(ctx)
	if err != nil {
		log.Fatalf("Failed to list accounts: %v", err)
	}

	drifted := 0
	for _, account := range accounts {
		result, err := metricsService.Audit(ctx, account.ID)
		if err != nil {
			log.Printf("%s: audit failed: %v", account.BarName, err)
			continue
		}
		if !result.Drifted {
			continue
		}
		drifted++
		log.Printf("%s: snapshot drifted (stored %d, computed %d, missing=%v)",
			account.BarName, result.StoredTotal, result.ComputedTotal, result.MissingSnapshot)

		if *dryRun {
			continue
		}
		if _, err := metricsService.Recompute(ctx, account.ID); err != nil {
			log.Printf("%s: recompute failed: %v", account.BarName, err)
		}
	}

	log.Printf("audit complete: %d accounts checked, %d drifted", len(accounts), drifted)
}
