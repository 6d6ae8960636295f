package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port    string
	Env     string
	AppName string

	// Redis (optional; an in-memory store is used when empty)
	RedisURL string

	// CORS
	AllowedOrigins []string

	// Proxies whose X-Forwarded-For / X-Real-IP are believed (CIDRs or addresses)
	TrustedProxies []string

	// Verification ticket
	JWTSecret string
	TicketTTL time.Duration

	// Image captcha
	CaptchaLength   int
	CaptchaExpire   time.Duration
	CaptchaWidth    int
	CaptchaHeight   int
	CaptchaFontSize int
	CaptchaNoise    int

	// Email code
	EmailCodeLength int
	EmailCodeExpire time.Duration
	EmailResendWait time.Duration

	// Email
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	// Logging
	LogLevel string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Server
		Port:    getEnv("PORT", "8080"),
		Env:     getEnv("ENV", "development"),
		AppName: getEnv("APP_NAME", "VIP Admin"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// CORS
		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		TrustedProxies: parseStringSlice(getEnv("TRUSTED_PROXIES", "")),

		// Verification ticket
		JWTSecret: getEnv("JWT_SECRET", "super-secret-key-change-me"),
		TicketTTL: parseDuration(getEnv("TICKET_TTL", "15m"), 15*time.Minute),

		// Image captcha
		CaptchaLength:   parseInt(getEnv("CAPTCHA_LENGTH", "4"), 4),
		CaptchaExpire:   parseSeconds(getEnv("CAPTCHA_EXPIRE", "300"), 300*time.Second),
		CaptchaWidth:    parseInt(getEnv("CAPTCHA_WIDTH", "120"), 120),
		CaptchaHeight:   parseInt(getEnv("CAPTCHA_HEIGHT", "40"), 40),
		CaptchaFontSize: parseInt(getEnv("CAPTCHA_FONT_SIZE", "40"), 40),
		CaptchaNoise:    parseInt(getEnv("CAPTCHA_NOISE", "2"), 2),

		// Email code
		EmailCodeLength: parseInt(getEnv("EMAIL_CODE_LENGTH", "6"), 6),
		EmailCodeExpire: parseSeconds(getEnv("EMAIL_CODE_EXPIRE", "600"), 600*time.Second),
		EmailResendWait: parseSeconds(getEnv("EMAIL_RESEND_WAIT", "60"), 60*time.Second),

		// Email
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "no-reply@localhost"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "VIP Admin"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

// parseSeconds accepts either a bare number of seconds ("600") or a Go duration ("10m").
func parseSeconds(s string, defaultValue time.Duration) time.Duration {
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return defaultValue
		}
		return time.Duration(n) * time.Second
	}
	return parseDuration(s, defaultValue)
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
