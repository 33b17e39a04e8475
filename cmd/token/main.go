// Command token mints an HS256 access token accepted by the profile service
// when it runs with JWT_SECRET set. Local development only.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/devconnect/profile-service/internal/config"
	"github.com/devconnect/profile-service/internal/models"
	"github.com/devconnect/profile-service/internal/tokens"
	"github.com/devconnect/profile-service/pkg/logger"
)

func main() {
	sub := flag.String("sub", "", "subject (user id) to put in the token")
	name := flag.String("name", "", "display name claim")
	email := flag.String("email", "", "email claim")
	ttl := flag.Duration("ttl", 0, "token lifetime (default JWT_ACCESS_TOKEN_TTL)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	if *sub == "" {
		logger.Fatalf("-sub is required")
	}
	lifetime := cfg.JWT.AccessTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	tok, err := tokens.GenerateAccessToken(cfg, &models.User{Sub: *sub, Name: *name, Email: *email}, lifetime)
	if err != nil {
		logger.Fatalf("mint token: %v", err)
	}
	logger.Debugf("minted token for %s valid until %s", *sub, time.Now().Add(lifetime).Format(time.RFC3339))
	fmt.Println(tok)
}
