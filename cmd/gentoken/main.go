// Utility to mint JWT tokens for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/planetcare/server/internal/auth"
)

func main() {
	var (
		email  = flag.String("email", "", "email claim (required)")
		name   = flag.String("name", "", "name claim")
		secret = flag.String("secret", os.Getenv("ACCESS_SECRET_KEY"), "signing secret (default: ACCESS_SECRET_KEY)")
		expiry = flag.Duration("expiry", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *email == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "usage: gentoken -email user@example.com [-name Name] [-secret ...] [-expiry 24h]")
		os.Exit(2)
	}

	manager := auth.NewJWTManager(*secret, *expiry, "planetcare")
	token, err := manager.Generate(*email, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "\nTest with:")
	fmt.Fprintf(os.Stderr, "curl -H 'Authorization: Bearer %s' http://localhost:5000/api/v1/admin/users\n", token)
}
