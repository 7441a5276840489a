// Command createoperator provisions a dashboard login. There is no
// self-service operator signup; logins are created from the command line.
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
	name := flag.String("name", "", "operator display name")
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", "", "login password (required)")
	role := flag.String("role", "admin", "role: admin or viewer")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDB.Database)
	authService := services.NewAuthService(mongorepo.NewOperatorRepository(db), cfg)

	operator, err := authService.CreateOperator(ctx, *name, *email, *password, *role)
	if err != nil {
		log.Fatalf("Failed to create operator: %v", err)
	}
	log.Printf("created operator %s (%s) with role %s", operator.Email, operator.ID.Hex(), operator.Role)
}
