package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string
	GinMode     string
	CORSOrigins []string

	DB DBConfig

	LogPath string

	StatsdAddr   string
	StatsdPrefix string

	AWSRegion   string
	SNSTopicARN string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CategoryCacheTTL time.Duration

	SeedSource string
}

type DBConfig struct {
	Dialect  string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Load reads envFile (when it exists) into the process environment and then
// builds the config from the environment, falling back to defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_DIALECT", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "trivia")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("STATSD_PREFIX", "trivia")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATEGORY_CACHE_TTL", "5m")

	dialect := strings.ToLower(v.GetString("DB_DIALECT"))
	switch dialect {
	case "postgres", "mysql", "sqlite3", "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_DIALECT %q", dialect)
	}
	port := v.GetInt("DB_PORT")
	if port == 0 {
		port = defaultPort(dialect)
	}

	ttl, err := time.ParseDuration(v.GetString("CATEGORY_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("CATEGORY_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		ServerPort:  v.GetString("SERVER_PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		DB: DBConfig{
			Dialect:  dialect,
			Host:     v.GetString("DB_HOST"),
			Port:     port,
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		LogPath:          v.GetString("LOG_PATH"),
		StatsdAddr:       v.GetString("STATSD_ADDR"),
		StatsdPrefix:     v.GetString("STATSD_PREFIX"),
		AWSRegion:        v.GetString("AWS_REGION"),
		SNSTopicARN:      v.GetString("SNS_TOPIC_ARN"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		CategoryCacheTTL: ttl,
		SeedSource:       v.GetString("SEED_SOURCE"),
	}
	return cfg, nil
}

// DSN returns the connection string gorm expects for the configured dialect.
func (c DBConfig) DSN() string {
	switch c.Dialect {
	case "mysql":
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		cfg.DBName = c.DBName
		cfg.ParseTime = true
		cfg.AllowNativePasswords = true
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return cfg.FormatDSN()
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
			pqQuote(c.Host),
			c.Port,
			pqQuote(c.User),
			pqQuote(c.DBName),
			pqQuote(c.Password),
			pqQuote(c.SSLMode),
		)
	case "sqlite3":
		return c.DBName
	}
	return ""
}

var pqEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// pqQuote single-quotes a libpq keyword value so empty values and values
// with spaces stay one token.
func pqQuote(v string) string {
	return "'" + pqEscaper.Replace(v) + "'"
}

func defaultPort(dialect string) int {
	if dialect == "mysql" {
		return 3306
	}
	return 5432
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
