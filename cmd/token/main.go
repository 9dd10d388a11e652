package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brindes/backend/internal/infrastructure/auth"
	"github.com/brindes/backend/internal/infrastructure/cache"
	"github.com/brindes/backend/internal/infrastructure/config"
	"github.com/brindes/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	var (
		tenant      string
		user        string
		username    string
		permissions string
		admin       bool
		logLevel    string
	)

	flag.StringVar(&tenant, "tenant", "", "Tenant ID (UUID)")
	flag.StringVar(&user, "user", "", "User ID (UUID); generated when empty")
	flag.StringVar(&username, "username", "operator", "Username placed in the token")
	flag.StringVar(&permissions, "permissions", "", "Comma-separated permissions")
	flag.BoolVar(&admin, "admin", false, "Grant the configured admin permission")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	switch args[0] {
	case "issue":
		tenantID, err := uuid.Parse(tenant)
		if err != nil {
			log.Fatal("Valid -tenant required", zap.String("value", tenant))
		}
		userID := uuid.New()
		if user != "" {
			if userID, err = uuid.Parse(user); err != nil {
				log.Fatal("Invalid -user", zap.String("value", user))
			}
		}

		perms := splitPermissions(permissions)
		if admin {
			perms = append(perms, cfg.JWT.AdminPermission)
		}

		token, expiresAt, err := auth.NewJWTService(cfg.JWT).IssueToken(auth.TokenInput{
			TenantID:    tenantID,
			UserID:      userID,
			Username:    username,
			Permissions: perms,
		})
		if err != nil {
			log.Fatal("Failed to issue token", zap.Error(err))
		}
		log.Info("Token issued",
			zap.String("user_id", userID.String()),
			zap.Strings("permissions", perms),
			zap.Time("expires_at", expiresAt),
		)
		fmt.Println(token)

	case "revoke-user":
		userID, err := uuid.Parse(user)
		if err != nil {
			log.Fatal("Valid -user required", zap.String("value", user))
		}
		if !cfg.Redis.Enabled {
			log.Fatal("Revocation needs Redis; the server would not see an in-memory revocation")
		}

		factory := cache.NewFactory(cfg.Redis, cache.WithLogger(log), cache.WithInMemoryFallback(false))
		defer func() {
			_ = factory.Close()
		}()
		client, err := factory.RedisClient()
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := auth.NewRevocationList(client).RevokeUser(ctx, userID.String(), cfg.JWT.AccessTokenExpiration); err != nil {
			log.Fatal("Failed to revoke user", zap.Error(err))
		}
		log.Info("Tokens revoked", zap.String("user_id", userID.String()))

	default:
		printUsage()
		os.Exit(1)
	}
}

func splitPermissions(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printUsage() {
	fmt.Println(`Token CLI for local development

Usage:
  token [flags] <command>

Commands:
  issue         Sign an access token with the configured secret
  revoke-user   Reject every token issued to -user before now

Flags:
  -tenant       Tenant ID (issue)
  -user         User ID
  -username     Username claim (default "operator")
  -permissions  Comma-separated permissions
  -admin        Add the admin permission
  -log-level    Log level (default "info")

Examples:
  token -tenant 6f1c... -admin issue
  token -user 2b7e... revoke-user`)
}
