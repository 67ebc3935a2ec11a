// One-off: AUTH_SECRET=... go run scripts/gentoken.go <user_id> [ttl]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "AUTH_SECRET is not set")
		os.Exit(1)
	}
	sub := "demo-user"
	if len(os.Args) > 1 {
		sub = os.Args[1]
	}
	ttl := 24 * time.Hour
	if len(os.Args) > 2 {
		d, err := time.ParseDuration(os.Args[2])
		if err != nil {
			panic(err)
		}
		ttl = d
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if iss := os.Getenv("AUTH_ISSUER"); iss != "" {
		claims["iss"] = iss
	}
	if aud := os.Getenv("AUTH_AUDIENCE"); aud != "" {
		claims["aud"] = aud
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	fmt.Print(signed)
}
