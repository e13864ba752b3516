package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the process configuration, sourced from the environment.
type Config struct {
	Port     string
	AppURL   string
	LogLevel string

	ShopifyAPIKey     string
	ShopifyAPISecret  string
	ShopifyScopes     []string
	ShopifyAPIVersion string
	ShopifyTimeout    time.Duration

	APIBearerToken string

	TokenStore    string
	TokenFile     string
	MongoURI      string
	MongoDatabase string

	OrdersDefaultLimit int
	ResponseLocale     string
}

// Load reads configuration from the environment, applying defaults. Missing
// required values do not fail here: the caller reports them once at startup
// and the affected surfaces fail closed per request.
func Load() *Config {
	return &Config{
		Port:     getenv("PORT", "8080"),
		AppURL:   strings.TrimRight(getenv("APP_URL", "http://localhost:8080"), "/"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		ShopifyAPIKey:     os.Getenv("SHOPIFY_API_KEY"),
		ShopifyAPISecret:  os.Getenv("SHOPIFY_API_SECRET"),
		ShopifyScopes:     splitScopes(getenv("SHOPIFY_SCOPES", "read_orders")),
		ShopifyAPIVersion: getenv("SHOPIFY_API_VERSION", "2025-01"),
		ShopifyTimeout:    getduration("SHOPIFY_TIMEOUT", 15*time.Second),

		APIBearerToken: os.Getenv("API_BEARER_TOKEN"),

		TokenStore:    getenv("TOKEN_STORE", "file"),
		TokenFile:     getenv("TOKEN_FILE", "shops.json"),
		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "orders_gateway"),

		OrdersDefaultLimit: getint("ORDERS_DEFAULT_LIMIT", 10),
		ResponseLocale:     getenv("RESPONSE_LOCALE", "en"),
	}
}

// MissingRequired lists required settings that are absent.
func (c *Config) MissingRequired() []string {
	var missing []string
	if c.ShopifyAPIKey == "" {
		missing = append(missing, "SHOPIFY_API_KEY")
	}
	if c.ShopifyAPISecret == "" {
		missing = append(missing, "SHOPIFY_API_SECRET")
	}
	if c.APIBearerToken == "" {
		missing = append(missing, "API_BEARER_TOKEN")
	}
	return missing
}

func splitScopes(s string) []string {
	parts := strings.Split(s, ",")
	scopes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			scopes = append(scopes, p)
		}
	}
	return scopes
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
