package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         []byte
	CORSOrigins       []string
	AppPublicURL      string
	RequestTimeoutSec int
	DBMaxConns        int
	DBMinConns        int
	// Login rate limit (per client IP)
	LoginRatePerSec float64
	LoginRateBurst  int
}

func Load() *Config {
	// .env is optional; deployments set real env vars.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		jwtSecret = "default-secret-min-32-chars-required!!"
	}
	cors := os.Getenv("CORS_ORIGINS")
	if cors == "" {
		cors = "http://localhost:5173"
	}
	var origins []string
	for _, o := range strings.Split(cors, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	return &Config{
		Port:              port,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         []byte(jwtSecret),
		CORSOrigins:       origins,
		AppPublicURL:      getEnv("APP_PUBLIC_URL", "http://localhost:5173"),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 30),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 0),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 0),
		LoginRatePerSec:   getEnvFloat("LOGIN_RATE_PER_SEC", 1),
		LoginRateBurst:    getEnvInt("LOGIN_RATE_BURST", 5),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getEnvFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}
