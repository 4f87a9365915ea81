package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		DevMode            bool     `mapstructure:"dev_mode"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	Storage struct {
		Endpoint      string `mapstructure:"endpoint"`
		Region        string `mapstructure:"region"`
		AccessKey     string `mapstructure:"access_key"`
		SecretKey     string `mapstructure:"secret_key"`
		Bucket        string `mapstructure:"bucket"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"storage"`

	Notify struct {
		AppID      string `mapstructure:"app_id"`
		AppSecret  string `mapstructure:"app_secret"`
		TemplateID string `mapstructure:"template_id"`
		APIBase    string `mapstructure:"api_base"`
		BatchSize  int    `mapstructure:"batch_size"`
	} `mapstructure:"notify"`

	RateLimit struct {
		Requests int `mapstructure:"requests"`
		WindowMS int `mapstructure:"window_ms"`
	} `mapstructure:"rate_limit"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "fitness_db")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("notify.api_base", "https://api.weixin.qq.com")
	v.SetDefault("notify.batch_size", 100)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window_ms", 60000)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Secrets come from the environment, never from the config file
	if key := os.Getenv("STORAGE_ACCESS_KEY"); key != "" {
		cfg.Storage.AccessKey = key
	}
	if key := os.Getenv("STORAGE_SECRET_KEY"); key != "" {
		cfg.Storage.SecretKey = key
	}
	if secret := os.Getenv("WX_APP_SECRET"); secret != "" {
		cfg.Notify.AppSecret = secret
	}
	if appID := os.Getenv("WX_APP_ID"); appID != "" {
		cfg.Notify.AppID = appID
	}

	return &cfg
}

// DatabaseURL builds the pgx connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}
