// Command tokengen prints a signed access token for local testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"loanflow/internal/config"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/jwt"
)

func main() {
	sub := flag.String("sub", "", "caller id (token subject)")
	role := flag.String("role", string(domain.RoleUser), "caller role: user, officer, manager, admin")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to ACCESS_TOKEN_TTL)")
	flag.Parse()

	if *sub == "" {
		log.Fatal("❌ -sub is required")
	}
	r, err := domain.ParseRole(*role)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	lifetime := cfg.JWT.AccessTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := jwt.GenerateAccessToken(*sub, string(r), cfg.JWT.Secret, cfg.JWT.Issuer, lifetime)
	if err != nil {
		log.Fatalf("❌ Failed to sign token: %v", err)
	}

	log.Printf("🔑 %s token for %s, expires %s", r, *sub, time.Now().Add(lifetime).Format(time.RFC3339))
	fmt.Println(token)
}
