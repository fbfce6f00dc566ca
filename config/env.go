package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Timezone string
	Redis    RedisConfig
	DB       DBConfig
	GRPC     GRPCConfig
	Gateway  GatewayConfig
	Blob     BlobConfig
}

type DBConfig struct {
	Driver       string
	InventoryDSN string
	UserDSN      string
}

type GRPCConfig struct {
	InventoryAddr string
	UserAddr      string
}

type GatewayConfig struct {
	Addr        string
	RateLimit   string
	CORSOrigins []string
}

type BlobConfig struct {
	Driver      string
	LocalDir    string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisEnabled, _ := strconv.ParseBool(getEnv("REDIS_ENABLED", "true"))
	pathStyle, _ := strconv.ParseBool(getEnv("BLOB_S3_PATH_STYLE", "false"))

	return Config{
		Env:      getEnv("APP_ENV", "development"),
		Timezone: getEnv("APP_TIMEZONE", "Local"),
		Redis: RedisConfig{
			Enabled:  redisEnabled,
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			InventoryDSN: getEnv("INVENTORY_DSN", ""),
			UserDSN:      getEnv("USER_DSN", ""),
		},
		GRPC: GRPCConfig{
			InventoryAddr: getEnv("INVENTORY_GRPC_ADDR", "localhost:50052"),
			UserAddr:      getEnv("USER_GRPC_ADDR", "localhost:50051"),
		},
		Gateway: GatewayConfig{
			Addr:        getEnv("GATEWAY_ADDR", ":8080"),
			RateLimit:   getEnv("RATE_LIMIT", "100-M"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Blob: BlobConfig{
			Driver:      getEnv("BLOB_DRIVER", "local"),
			LocalDir:    getEnv("BLOB_LOCAL_DIR", "./uploads"),
			S3Bucket:    getEnv("BLOB_S3_BUCKET", ""),
			S3Region:    getEnv("BLOB_S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("BLOB_S3_ENDPOINT", ""),
			S3PathStyle: pathStyle,
		},
	}
}

// Location resolves APP_TIMEZONE; "Local" means the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
