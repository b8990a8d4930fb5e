package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/diet-tracker/internal/config"
)

func main() {
	fmt.Println("Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("warning: .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid")
	fmt.Printf("Details:\n")
	fmt.Printf("  - Listen: %s\n", cfg.Server.Addr())
	fmt.Printf("  - Storage: %s\n", cfg.Storage)
	if cfg.Storage == config.StoragePostgres {
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	}
	if cfg.Redis.Enabled() {
		fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	}
	fmt.Printf("  - Secret Key: %s\n", maskToken(cfg.Auth.SecretKey))
	fmt.Printf("  - Algorithm: %s\n", cfg.Auth.Algorithm)
	fmt.Printf("  - Access Token TTL: %s\n", cfg.Auth.AccessTokenTTL)
	fmt.Printf("  - Refresh Token TTL: %s\n", lifetime(cfg.Auth.RefreshTokenTTL))
	fmt.Printf("  - Max Login Attempts: %d\n", cfg.Auth.MaxLoginAttempts)
	fmt.Printf("  - Measurement Interval: %s\n", cfg.Ledger.MinInterval)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func lifetime(d time.Duration) string {
	if d == 0 {
		return "<no expiry>"
	}
	return d.String()
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
