package main

import (
	"log"
	"os"
	"path/filepath"

	"reviewhub/internal/config"
	"reviewhub/internal/mail"
	"reviewhub/pkg/database"
)

func main() {
	cfg := config.Load()

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal(err)
		}
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	r := newRouter(db, cfg, mail.LogSender{})

	log.Printf("HTTP API listening on %s", cfg.Addr)
	log.Fatal(r.Run(cfg.Addr))
}
