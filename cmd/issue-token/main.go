package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"expense-tracker/pkg/auth"
	"expense-tracker/pkg/config"
)

func main() {
	subject := flag.String("sub", "cli", "token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL_HOURS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	duration := cfg.Auth.TokenTTL
	if *ttl > 0 {
		duration = *ttl
	}

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, duration).GenerateToken(*subject)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token)
	log.Printf("expires at %s", time.Now().Add(duration).Format(time.RFC3339))
}
