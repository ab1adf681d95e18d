// Command tokengen mints admin tokens for the rental API.
//
//	tokengen -subject ops@example.com -ttl 12h
//
// The secret is read from JWT_SECRET (or a .env file), the same setting the
// server validates against.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"moto-rental/pkg/jwt"

	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "admin", "token subject")
	role := flag.String("role", jwt.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
		os.Exit(1)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := jwt.NewJWTUtil(secret, *ttl).GenerateToken(*subject, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "signing token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
