package main

import (
	"log"

	"obotcall/internal/config"
	"obotcall/internal/infra/db"
	httpinfra "obotcall/internal/infra/http"
)

func main() {
	cfg := config.FromEnv()

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	srv := httpinfra.NewServer(cfg, store)
	log.Printf("obotcall gateway listening on %s", cfg.HTTPAddr)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
