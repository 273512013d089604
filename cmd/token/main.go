// Command token mints an access token for an employee id using the API's JWT settings.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/config"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	employeeID := flag.String("employee", "", "employee id to put into the token (required)")
	expiration := flag.String("exp", "", "token lifetime, defaults to JWT_ACCESS_EXPIRATION_TIME")
	flag.Parse()

	if *employeeID == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Only the JWT settings are read here; database settings may be absent.
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is required")
		os.Exit(1)
	}

	lifetime := *expiration
	if lifetime == "" {
		lifetime = config.DefaultAccessExpiration
		if env := os.Getenv("JWT_ACCESS_EXPIRATION_TIME"); env != "" {
			lifetime = env
		}
	}

	token, expiresAt, err := jwt.NewJWTService(secret, lifetime).GenerateAccessToken(*employeeID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	fmt.Println(token)
}
