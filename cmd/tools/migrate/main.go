package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/config"
)

func main() {
	sweep := flag.Bool("sweep", false, "also delete expired sessions")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DB.DSN == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	dsn, err := cfg.DB.SessionDSN()
	if err != nil {
		log.Fatal(err)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sessions := auth.NewSessionStore(db)
	if err := sessions.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate sessions: %v", err)
	}
	fmt.Println("✓ sessions table up to date")

	if *sweep {
		n, err := sessions.DeleteExpired(ctx)
		if err != nil {
			log.Fatalf("Failed to delete expired sessions: %v", err)
		}
		fmt.Printf("✓ removed %d expired sessions\n", n)
	}
}
