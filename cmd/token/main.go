// Command token mints a bearer token for calling the ledger API.
// Identity is issued by the LGU's own identity provider in production;
// this tool is for development and scripted tests.
package main

import (
	"flag"
	"fmt"
	"os"

	"kaban/internal/config"
	"kaban/internal/logger"
	"kaban/internal/middleware"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("token error: %v", err)
	}
}

func run() error {
	actor := flag.String("actor", "", "actor recorded on ledger entries (required)")
	tenant := flag.String("tenant", "", "local government unit the actor belongs to (required)")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRES_IN)")
	flag.Parse()

	if *actor == "" || *tenant == "" {
		flag.Usage()
		return fmt.Errorf("-actor and -tenant are required")
	}
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	tok, err := middleware.GenerateAccessToken(*actor, *tenant, *ttl)
	if err != nil {
		return err
	}
	logger.Get().Infow("token issued", "actor", *actor, "tenant", *tenant, "ttl", ttl.String())
	fmt.Println(tok)
	return nil
}
