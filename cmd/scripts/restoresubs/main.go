// Command restoresubs bulk-resets the subscribe flag for one account's
// roster. It exists for recovering from an accidental mass unsubscribe;
// consent is never touched.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/config"
	mongorepo "github.com/lastcall/sms-backend/internal/repositories/mongodb"
	"github.com/lastcall/sms-backend/pkg/mongodb"
)

func main() {
	accountHex := flag.String("account", "", "account ID (hex, required)")
	unsubscribe := flag.Bool("unsubscribe", false, "set subscribe=false instead of true")
	flag.Parse()

	if *accountHex == "" {
		log.Fatal("-account is required")
	}
	accountID, err := primitive.ObjectIDFromHex(*accountHex)
	if err != nil {
		log.Fatalf("Invalid account ID: %v", err)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDB.Database)
	recipientRepo := mongorepo.NewRecipientRepository(db)

	modified, err := recipientRepo.SetSubscribeAll(ctx, accountID, !*unsubscribe)
	if err != nil {
		log.Fatalf("Failed to update subscriptions: %v", err)
	}
	log.Printf("updated subscribe=%v on %d recipients", !*unsubscribe, modified)
}
