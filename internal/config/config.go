package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig bundles everything the server needs at startup.
type AppConfig struct {
	ListenAddr       string
	Port             string
	GinMode          string
	DatabasePath     string
	SiteBaseURL      string
	ContentAPIURL    string
	ContentProjectID string
	ContentDataset   string
	ContentCDNURL    string
	RedisAddr        string
	RedisPassword    string
	LogPath          string
	LogLevel         string
}

// Load reads configuration from environment variables and fills in safe
// defaults for anything missing.
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "archive.db"
	}

	siteBaseURL := strings.TrimSpace(os.Getenv("SITE_BASE_URL"))
	if siteBaseURL == "" {
		siteBaseURL = "https://www.davidkolb.dev"
	}

	contentAPIURL := strings.TrimSpace(os.Getenv("CONTENT_API_URL"))
	if contentAPIURL == "" {
		contentAPIURL = "https://api.sanity.io"
	}

	contentDataset := strings.TrimSpace(os.Getenv("CONTENT_DATASET"))
	if contentDataset == "" {
		contentDataset = "production"
	}

	contentCDNURL := strings.TrimSpace(os.Getenv("CONTENT_CDN_URL"))
	if contentCDNURL == "" {
		contentCDNURL = "https://cdn.sanity.io"
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	return AppConfig{
		ListenAddr:       listenAddr,
		Port:             port,
		GinMode:          ginMode,
		DatabasePath:     databasePath,
		SiteBaseURL:      siteBaseURL,
		ContentAPIURL:    contentAPIURL,
		ContentProjectID: strings.TrimSpace(os.Getenv("CONTENT_PROJECT_ID")),
		ContentDataset:   contentDataset,
		ContentCDNURL:    contentCDNURL,
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		LogPath:          strings.TrimSpace(os.Getenv("LOG_PATH")),
		LogLevel:         logLevel,
	}
}
