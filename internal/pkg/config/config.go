package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable through HBNB_TYPE_STORAGE.
const (
	StorageFile  = "file"
	StorageDB    = "db"
	StorageMongo = "mongo"
)

// Relational drivers selectable through HBNB_DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Host        string   `env:"HBNB_API_HOST, default=0.0.0.0"`
	Port        string   `env:"HBNB_API_PORT, default=5000"`
	Env         string   `env:"ENV,           default=development"`
	LogLevel    string   `env:"LOG_LEVEL,     default=info"`
	JWTSecret   string   `env:"JWT_SECRET"`
	CORSOrigins []string `env:"CORS_ORIGINS,  default=*"`

	Storage  string `env:"HBNB_TYPE_STORAGE, default=file"`
	FilePath string `env:"HBNB_FILE_PATH,    default=file.json"`

	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	Driver   string `env:"HBNB_DB_DRIVER,  default=mysql"`
	User     string `env:"HBNB_MYSQL_USER"`
	Password string `env:"HBNB_MYSQL_PWD"`
	Host     string `env:"HBNB_MYSQL_HOST, default=localhost"`
	Name     string `env:"HBNB_MYSQL_DB"`
	// DSN overrides the individual fields when set.
	DSN string `env:"HBNB_DB_DSN"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hbnb"`
}

type RedisConfig struct {
	// Addr is empty when idempotent replay is disabled.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom decodes configuration from the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Development reports whether human-friendly logging should be used.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageFile, StorageDB, StorageMongo:
	default:
		return fmt.Errorf("config: unknown HBNB_TYPE_STORAGE %q", c.Storage)
	}
	if c.Storage == StorageDB {
		switch c.Database.Driver {
		case DriverMySQL, DriverPostgres, DriverSQLite:
		default:
			return fmt.Errorf("config: unknown HBNB_DB_DRIVER %q", c.Database.Driver)
		}
		if c.Database.DSN == "" && c.Database.Driver != DriverSQLite && c.Database.Name == "" {
			return errors.New("config: HBNB_MYSQL_DB is required for the db storage")
		}
	}
	return nil
}

// ConnString returns the driver specific data source name.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
			d.Host, d.User, d.Password, d.Name)
	case DriverSQLite:
		return "file:hbnb.db"
	default:
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = d.Host
		if !strings.Contains(d.Host, ":") {
			mc.Addr = net.JoinHostPort(d.Host, "3306")
		}
		mc.DBName = d.Name
		mc.ParseTime = true
		return mc.FormatDSN()
	}
}
