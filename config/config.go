package config

import (
    "log"
    "os"
    "strconv"

    "github.com/joho/godotenv"
)

type Config struct {
    Server  ServerConfig
    Redis   RedisConfig
    Admin   AdminConfig
    Gateway GatewayConfig
    Storage StorageConfig
}

type ServerConfig struct {
    Port string
}

type RedisConfig struct {
    URL               string
    WorkerConcurrency int
}

type AdminConfig struct {
    Username      string
    Password      string
    SessionSecret string
    JWTSecret     string
}

type GatewayConfig struct {
    Environment string // "production" ou "sandbox"
    BaseURL     string // override opcional, usado em testes
}

type StorageConfig struct {
    DataDir string
}

func Load() *Config {
    if err := godotenv.Load(); err != nil {
        log.Printf("Warning: Error loading .env file: %v", err)
    }

    workerConcurrency := 2
    if v := os.Getenv("WORKER_CONCURRENCY"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            workerConcurrency = n
        }
    }

    cfg := &Config{
        Server: ServerConfig{
            Port: getEnv("SERVER_PORT", "8080"),
        },
        Redis: RedisConfig{
            URL:               os.Getenv("REDIS_URL"),
            WorkerConcurrency: workerConcurrency,
        },
        Admin: AdminConfig{
            Username:      getEnv("ADMIN_USERNAME", "admin"),
            Password:      os.Getenv("ADMIN_PASSWORD"),
            SessionSecret: os.Getenv("SESSION_SECRET"),
            JWTSecret:     os.Getenv("JWT_SECRET"),
        },
        Gateway: GatewayConfig{
            Environment: getEnv("PAGLOOP_ENVIRONMENT", "production"),
            BaseURL:     os.Getenv("PAGLOOP_BASE_URL"),
        },
        Storage: StorageConfig{
            DataDir: getEnv("DATA_DIR", "data"),
        },
    }

    if cfg.Redis.URL == "" {
        cfg.Redis.URL = "redis://localhost:6379/0"
        log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
    }
    if cfg.Admin.Password == "" {
        log.Printf("Warning: ADMIN_PASSWORD not set, admin login disabled until configured")
    }
    if cfg.Admin.SessionSecret == "" {
        cfg.Admin.SessionSecret = "frangoloco-dev-session-secret"
        log.Printf("Warning: SESSION_SECRET not set, using insecure default")
    }
    if cfg.Admin.JWTSecret == "" {
        cfg.Admin.JWTSecret = "frangoloco-dev-jwt-secret"
        log.Printf("Warning: JWT_SECRET not set, using insecure default")
    }

    return cfg
}

func getEnv(key, fallback string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return fallback
}
