// Command token mints a bearer token for local development and support
// tooling.
//
//	go run ./cmd/token -cardholder ich_123
//	go run ./cmd/token -role admin -ttl 1h
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"cardhub/internal/config"
	"cardhub/internal/models"
	"cardhub/internal/utils"
)

func main() {
	config.LoadEnv()

	cardholderID := flag.String("cardholder", "", "issuing platform cardholder id")
	email := flag.String("email", "", "email recorded in the token")
	role := flag.String("role", models.RoleCardholder, "cardholder or admin")
	ttl := flag.Duration("ttl", 15*time.Minute, "token lifetime")
	flag.Parse()

	if config.IsProduction() {
		log.Fatal("refusing to mint tokens in production")
	}

	token, err := utils.GenerateToken(&models.UserClaims{
		CardholderID: *cardholderID,
		Email:        *email,
		Role:         *role,
	}, config.GetEnv("JWT_SECRET", ""), *ttl)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Println(token)
}
