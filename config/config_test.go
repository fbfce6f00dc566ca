package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"APP_TIMEZONE", "DB_DRIVER", "GATEWAY_ADDR", "RATE_LIMIT", "CORS_ORIGINS", "BLOB_DRIVER", "REDIS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.DB.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.DB.Driver)
	}
	if cfg.Gateway.Addr != ":8080" || cfg.Gateway.RateLimit != "100-M" {
		t.Errorf("gateway = %+v", cfg.Gateway)
	}
	if len(cfg.Gateway.CORSOrigins) != 1 || cfg.Gateway.CORSOrigins[0] != "*" {
		t.Errorf("cors origins = %v", cfg.Gateway.CORSOrigins)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis should be enabled by default")
	}
	if cfg.Blob.Driver != "local" {
		t.Errorf("blob driver = %q", cfg.Blob.Driver)
	}

	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("location = %v, %v", loc, err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://klinik.example ,")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("BLOB_S3_PATH_STYLE", "true")

	cfg := LoadConfig()
	if got := cfg.Gateway.CORSOrigins; len(got) != 2 || got[1] != "https://klinik.example" {
		t.Errorf("cors origins = %v", got)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled")
	}
	if !cfg.Blob.S3PathStyle {
		t.Error("expected path-style S3")
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.String() != "Asia/Jakarta" {
		t.Errorf("location = %v", loc)
	}

	cfg.Timezone = "Mars/Olympus"
	if _, err := cfg.Location(); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestNewRedisClient(t *testing.T) {
	rdb, err := NewRedisClient(RedisConfig{Enabled: false})
	if err != nil || rdb != nil {
		t.Errorf("disabled redis: got (%v, %v)", rdb, err)
	}

	mr := miniredis.RunT(t)
	rdb, err = NewRedisClient(RedisConfig{Enabled: true, Host: mr.Host(), Port: mr.Port()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	rdb.Close()
}
