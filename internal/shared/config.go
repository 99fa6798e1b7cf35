package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	StoreDriver   string // file|mysql
	StorePath     string
	MySQLDSN      string
	RedisAddr     string // empty disables session snapshots
	RedisDB       int
	RedisPass     string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	Transport     string // whatsapp|telegram|none
	WhatsApp      WhatsAppConfig
	TelegramToken string
	Workers       int
}

// WhatsAppConfig is handed to the WhatsApp adapter at construction.
type WhatsAppConfig struct {
	BaseURL       string
	Version       string
	PhoneNumberID string
	AccessToken   string
	VerifyToken   string
	RPS           int
}

// Load reads the environment, after an optional .env file in the working
// directory.
func Load() Config {
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Int("default", def).Msg("invalid integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		StoreDriver:   env("STORE_DRIVER", "file"),
		StorePath:     env("STORE_PATH", "./rooms_database.json"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/immobot?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		SessionTTL:    time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,
		SweepInterval: time.Duration(atoi("SESSION_SWEEP_SECONDS", 60)) * time.Second,
		Transport:     env("TRANSPORT", "whatsapp"),
		WhatsApp: WhatsAppConfig{
			BaseURL:       env("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			Version:       env("WHATSAPP_VERSION", "v21.0"),
			PhoneNumberID: env("WHATSAPP_PHONE_NUMBER_ID", ""),
			AccessToken:   env("WHATSAPP_ACCESS_TOKEN", ""),
			VerifyToken:   env("WHATSAPP_VERIFY_TOKEN", ""),
			RPS:           atoi("WHATSAPP_RPS", 20),
		},
		TelegramToken: env("TELEGRAM_BOT_TOKEN", ""),
		Workers:       atoi("INBOUND_WORKERS", 8),
	}
	if c.Transport == "whatsapp" && c.WhatsApp.AccessToken == "" {
		log.Warn().Msg("WHATSAPP_ACCESS_TOKEN is empty")
	}
	if c.Transport == "telegram" && c.TelegramToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
