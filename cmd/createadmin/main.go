package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"presensi/school/internal/config"
	"presensi/school/internal/db"
	"presensi/school/internal/model"
)

// Seeds an admin user so /login has a known account to hand out tokens
// for. Idempotent: an existing username is left untouched.
func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "admin123", "admin password, stored as-is")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("mongo connection failed: %v", err)
	}
	defer store.Close(context.Background())

	_, err = store.FindOne(ctx, model.CollectionAdminUser, bson.M{"username": *username})
	if err == nil {
		fmt.Printf("admin %q already exists\n", *username)
		os.Exit(0)
	}
	if !errors.Is(err, db.ErrNotFound) {
		log.Fatalf("admin lookup failed: %v", err)
	}

	id, err := store.CreateDocument(ctx, model.CollectionAdminUser, model.AdminUser{
		Username: *username,
		Password: *password,
		IsActive: true,
	})
	if err != nil {
		log.Fatalf("admin insert failed: %v", err)
	}
	fmt.Printf("admin %q created (%s)\n", *username, id)
}
