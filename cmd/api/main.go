package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spacehub/spacehub-backend/internal/config"
	"github.com/spacehub/spacehub-backend/internal/db"
	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/notifcache"
	"github.com/spacehub/spacehub-backend/internal/server"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cache := notifcache.New(os.Getenv("REDIS_ADDR"))
	srv := server.New(nil, cache, gitSHA, buildTime)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	// Connect the database in the background so the process starts serving
	// /healthz immediately. Data routes error until the DB is ready.
	go func() {
		cfg, err := config.Load()
		if err != nil {
			log.Printf("config load error: %v", err)
			return
		}
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := conn.AutoMigrate(
			&model.SpaceRequest{},
			&model.Quote{},
			&model.QuoteItem{},
			&model.Payment{},
			&model.Refund{},
			&model.Notification{},
			&model.Wallet{},
			&model.CashHistoryEntry{},
			&model.AutoChargeSetting{},
			&model.Conversation{},
			&model.Message{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
		log.Printf("database ready")
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
