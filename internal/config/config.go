package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Overpass OverpassConfig
	Places   PlacesConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	FeaturesCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type OverpassConfig struct {
	BaseURL        string
	TimeoutSeconds int
	QueryType      string
	MaxRetries     int
	RetryDelay     time.Duration
	QueriesPath    string
}

type PlacesConfig struct {
	MaxLocationsPerAccount int
	DefaultRadiusKm        float64
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			FeaturesCacheTTL: time.Duration(viper.GetInt("FEATURES_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Overpass: OverpassConfig{
			BaseURL:        viper.GetString("OVERPASS_BASE_URL"),
			TimeoutSeconds: viper.GetInt("OVERPASS_TIMEOUT"),
			QueryType:      viper.GetString("OVERPASS_QUERY_TYPE"),
			MaxRetries:     viper.GetInt("OVERPASS_MAX_RETRIES"),
			RetryDelay:     time.Duration(viper.GetInt("OVERPASS_RETRY_DELAY_MS")) * time.Millisecond,
			QueriesPath:    viper.GetString("OVERPASS_QUERIES_PATH"),
		},
		Places: PlacesConfig{
			MaxLocationsPerAccount: viper.GetInt("MAX_LOCATIONS_PER_ACCOUNT"),
			DefaultRadiusKm:        viper.GetFloat64("DEFAULT_RADIUS_KM"),
		},
	}

	// Set default values if not provided
	if cfg.Overpass.BaseURL == "" {
		cfg.Overpass.BaseURL = "https://overpass-api.de/api/interpreter"
	}
	if cfg.Overpass.TimeoutSeconds == 0 {
		cfg.Overpass.TimeoutSeconds = 30
	}
	if cfg.Overpass.QueryType == "" {
		cfg.Overpass.QueryType = "full"
	}
	if cfg.Overpass.MaxRetries == 0 {
		cfg.Overpass.MaxRetries = 3
	}
	if cfg.Overpass.RetryDelay == 0 {
		cfg.Overpass.RetryDelay = 2000 * time.Millisecond
	}
	if cfg.Cache.FeaturesCacheTTL == 0 {
		cfg.Cache.FeaturesCacheTTL = 300 * time.Second
	}
	if cfg.Places.MaxLocationsPerAccount == 0 {
		cfg.Places.MaxLocationsPerAccount = 100
	}
	if cfg.Places.DefaultRadiusKm == 0 {
		cfg.Places.DefaultRadiusKm = 2.0
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
