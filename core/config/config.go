// Package config loads the bridge configuration from the environment,
// optionally seeded from a .env file. Everything is ENDEVOR_-prefixed so
// the bridge can coexist with other tooling in the same shell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
)

const defaultPort = 8080

// Config is everything the CLI needs to run a session.
type Config struct {
	Connection endevor.ConnectionDetails

	// WorkspaceDir is where working copies and remote counterparts are
	// materialized. Defaults to a bridge directory under the user cache.
	WorkspaceDir string

	// SignOutOnEdit retrieves with signout when opening an element.
	SignOutOnEdit bool

	// AutomaticSignOut answers the signout consent prompt without asking.
	AutomaticSignOut bool
}

// Load reads configuration from the environment. Explicit env files are
// loaded first; a missing default .env is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	host := strings.TrimSpace(os.Getenv("ENDEVOR_HOST"))
	if host == "" {
		return Config{}, fmt.Errorf("ENDEVOR_HOST is required")
	}
	port := defaultPort
	if raw := strings.TrimSpace(os.Getenv("ENDEVOR_PORT")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("ENDEVOR_PORT must be a positive integer, got %q", raw)
		}
		port = parsed
	}

	workspaceDir := strings.TrimSpace(os.Getenv("ENDEVOR_WORKSPACE_DIR"))
	if workspaceDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve workspace directory: %w", err)
		}
		workspaceDir = filepath.Join(cacheDir, "endevor-bridge")
	}

	return Config{
		Connection: endevor.ConnectionDetails{
			Protocol:           firstNonEmpty(strings.TrimSpace(os.Getenv("ENDEVOR_PROTOCOL")), "https"),
			HostName:           host,
			Port:               port,
			BasePath:           firstNonEmpty(strings.TrimSpace(os.Getenv("ENDEVOR_BASE_PATH")), "/EndevorService/api/v2"),
			RejectUnauthorized: boolEnv("ENDEVOR_REJECT_UNAUTHORIZED", true),
			Credential: endevor.Credential{
				User:     strings.TrimSpace(os.Getenv("ENDEVOR_USER")),
				Password: os.Getenv("ENDEVOR_PASSWORD"),
			},
		},
		WorkspaceDir:     workspaceDir,
		SignOutOnEdit:    boolEnv("ENDEVOR_SIGNOUT_ON_EDIT", false),
		AutomaticSignOut: boolEnv("ENDEVOR_AUTO_SIGNOUT", false),
	}, nil
}

func boolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
