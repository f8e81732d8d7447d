package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string
	MongoURI           string
	MongoDB            string
	ServerAddr         string
	FrontendOrigin     string
	BuilderAPIBase     string
	BuilderAPIKey      string
	UploadDir          string
	UploadPublicURL    string
	RateLimitLeads     int
	RateLimitSubmit    int
	RateLimitWindowSec int
	RedisURL           string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	AdminAPIKey        string
	JWTSecret          string
	AccessTTLMinutes   int
	RefreshTTLMinutes  int
	BrevoAPIKey        string
	BrevoSenderEmail   string
	BrevoSenderName    string
	BrevoSandbox       bool
	AdminEmail         string
	Timezone           *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	loc, err := time.LoadLocation(getEnv("TZ", "Asia/Kolkata"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017/estatedesk"),
		MongoDB:            getEnv("MONGO_DB", "estatedesk"),
		ServerAddr:         getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigin:     getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		BuilderAPIBase:     getEnv("BUILDER_API_BASE", ""),
		BuilderAPIKey:      getEnv("BUILDER_API_KEY", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		UploadPublicURL:    getEnv("UPLOAD_PUBLIC_URL", "/uploads"),
		RateLimitLeads:     getEnvInt("RATE_LIMIT_LEADS", 5),
		RateLimitSubmit:    getEnvInt("RATE_LIMIT_SUBMIT", 10),
		RateLimitWindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		AdminAPIKey:        getEnv("ADMIN_API_KEY", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:   getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes:  getEnvInt("REFRESH_TTL_MINUTES", 43200),
		BrevoAPIKey:        getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail:   getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:    getEnv("BREVO_SENDER_NAME", "EstateDesk"),
		BrevoSandbox:       getEnv("BREVO_SANDBOX", "false") == "true",
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		Timezone:           loc,
	}

	return cfg, nil
}
