package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIBaseURL = "https://tm-mobile-backend.onrender.com"

type Config struct {
	Port                  string
	AllowedOrigin         string
	DatabaseURL           string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	TicketCacheTTLSeconds int
	AuthSecret            string
	AccessTokenTTLMinutes int
}

type LookupMode string

const (
	LookupAuto   LookupMode = "auto"
	LookupSingle LookupMode = "single"
	LookupScan   LookupMode = "scan"
)

type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Lookup  LookupMode
}

func Load() Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, err := strconv.Atoi(getEnv("TICKET_CACHE_TTL_SECONDS", "60"))
	if err != nil || cacheTTL < 1 {
		cacheTTL = 60
	}
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}

	return Config{
		Port:                  getEnv("PORT", "8080"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:5173"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		TicketCacheTTLSeconds: cacheTTL,
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) AuthEnabled() bool {
	return c.AuthSecret != ""
}

// LoadClient reads the settings used by the ticket client. Without
// API_BASE_URL the client talks to the hosted backend.
func LoadClient() Client {
	_ = godotenv.Load()

	timeoutSeconds, err := strconv.Atoi(getEnv("API_TIMEOUT_SECONDS", "0"))
	if err != nil || timeoutSeconds < 0 {
		timeoutSeconds = 0
	}

	return Client{
		BaseURL: strings.TrimRight(getEnv("API_BASE_URL", DefaultAPIBaseURL), "/"),
		Token:   strings.TrimSpace(os.Getenv("API_TOKEN")),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
		Lookup:  ParseLookupMode(os.Getenv("TICKET_LOOKUP")),
	}
}

func ParseLookupMode(raw string) LookupMode {
	switch LookupMode(strings.ToLower(strings.TrimSpace(raw))) {
	case LookupSingle:
		return LookupSingle
	case LookupScan:
		return LookupScan
	default:
		return LookupAuto
	}
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
