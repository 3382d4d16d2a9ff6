package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds runtime settings for the server, bot and CLI
type Config struct {
	TelegramToken  string
	AllowedUserIDs []int64
	DBPath         string
	Port           int
	LogLevel       string
}

// Load reads .env (if present) and then the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded, using environment")
	}
	return fromEnv()
}

func fromEnv() *Config {
	port, err := strconv.Atoi(getEnv("PFM_PORT", "8000"))
	if err != nil {
		log.Warn().Err(err).Msg("Invalid PFM_PORT, using 8000")
		port = 8000
	}

	return &Config{
		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		AllowedUserIDs: parseUserIDs(getEnv("ALLOWED_USER_IDS", "")),
		DBPath:         getEnv("PFM_DB_PATH", "data/finance.db"),
		Port:           port,
		LogLevel:       getEnv("PFM_LOG_LEVEL", "info"),
	}
}

// parseUserIDs parses a comma separated id list. Any malformed entry disables the list.
func parseUserIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Warn().Str("value", part).Msg("Invalid ALLOWED_USER_IDS entry, allow-list disabled")
			return nil
		}
		ids = append(ids, id)
	}
	return ids
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
