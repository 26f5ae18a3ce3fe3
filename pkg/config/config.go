package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config captures migrator level configuration loaded from config.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Migration MigrationConfig `yaml:"migration"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig defines the catalog HTTP server options.
type ServerConfig struct {
	Address string     `yaml:"address"`
	CORS    CORSConfig `yaml:"cors"`
}

// CORSConfig controls the CORS headers of the catalog API.
type CORSConfig struct {
	AllowOrigin  string `yaml:"allow_origin"`
	AllowHeaders string `yaml:"allow_headers"`
}

// DatabaseConfig defines the target catalog store.
type DatabaseConfig struct {
	Driver    string          `yaml:"driver"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Firestore FirestoreConfig `yaml:"firestore"`
	Mongo     MongoConfig     `yaml:"mongo"`
}

// SQLiteConfig contains SQLite specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL specific connection details.
type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig contains PostgreSQL specific connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// FirestoreConfig selects the Firestore project and collection holding products.
type FirestoreConfig struct {
	ProjectID  string `yaml:"project_id"`
	Collection string `yaml:"collection"`
}

// MongoConfig points at the MongoDB database and collection holding products.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// StorageConfig selects where derived scene assets are written.
type StorageConfig struct {
	Type  string             `yaml:"type"`
	Local LocalStorageConfig `yaml:"local"`
	S3    S3StorageConfig    `yaml:"s3"`
	GCS   GCSStorageConfig   `yaml:"gcs"`
}

// LocalStorageConfig holds the output root on the local filesystem.
type LocalStorageConfig struct {
	BasePath string `yaml:"base_path"`
}

// S3StorageConfig holds S3-compatible storage configuration.
type S3StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PathStyle bool   `yaml:"path_style"`
}

// GCSStorageConfig holds Google Cloud Storage configuration.
type GCSStorageConfig struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Endpoint string `yaml:"endpoint"`
}

// RedisConfig defines Redis connection settings for the ingest lock.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	LockKey  string `yaml:"lock_key"`
}

// MigrationConfig tunes archive discovery and per-record policies.
type MigrationConfig struct {
	Extensions  []string `yaml:"extensions"`
	BoxSize     int      `yaml:"box_size"`
	OnDuplicate string   `yaml:"on_duplicate"`
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	OnDuplicateAbortArchive = "abort_archive"
	OnDuplicateSkipRecord   = "skip_record"

	envPrefix = "SATIMAGE_"
)

// Load reads a YAML configuration file from the provided path.
// It searches in the current working directory first, then next to the binary executable.
// Values from a .env file and SATIMAGE_* environment variables override the file.
func Load(name string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: load .env: %v", err)
	}

	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		log.Printf("Warning: config file %q not found, using defaults", name)
		applyEnv(cfg)
		return cfg, nil
	}

	log.Printf("Loading config from: %s", configPath)
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var parsed Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&parsed)
	applyEnv(&parsed)
	return &parsed, nil
}

// Validate reports configuration values the migrator cannot work with.
func (c *Config) Validate() error {
	switch c.Migration.OnDuplicate {
	case OnDuplicateAbortArchive, OnDuplicateSkipRecord:
	default:
		return fmt.Errorf("unsupported migration.on_duplicate: %q", c.Migration.OnDuplicate)
	}
	if c.Migration.BoxSize <= 0 {
		return fmt.Errorf("migration.box_size must be positive, got %d", c.Migration.BoxSize)
	}
	if len(c.Migration.Extensions) == 0 {
		return fmt.Errorf("migration.extensions must not be empty")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/satimage.db",
			},
			Firestore: FirestoreConfig{
				Collection: "metadata",
			},
			Mongo: MongoConfig{
				Database:   "satimage",
				Collection: "metadata",
			},
		},
		Storage: StorageConfig{
			Type: "local",
			Local: LocalStorageConfig{
				BasePath: "data/output",
			},
			S3: S3StorageConfig{
				Region: "us-east-1",
			},
		},
		Redis: RedisConfig{
			LockKey: "satimage_bridge:ingest_lock",
		},
		Migration: MigrationConfig{
			Extensions:  []string{"db"},
			BoxSize:     800,
			OnDuplicate: OnDuplicateAbortArchive,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.Server.Address == "" {
		cfg.Server.Address = def.Server.Address
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = def.Database.Driver
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = def.Database.SQLite.Path
	}
	if cfg.Database.Firestore.Collection == "" {
		cfg.Database.Firestore.Collection = def.Database.Firestore.Collection
	}
	if cfg.Database.Mongo.Database == "" {
		cfg.Database.Mongo.Database = def.Database.Mongo.Database
	}
	if cfg.Database.Mongo.Collection == "" {
		cfg.Database.Mongo.Collection = def.Database.Mongo.Collection
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = def.Storage.Type
	}
	if cfg.Storage.Local.BasePath == "" {
		cfg.Storage.Local.BasePath = def.Storage.Local.BasePath
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = def.Storage.S3.Region
	}
	if cfg.Redis.LockKey == "" {
		cfg.Redis.LockKey = def.Redis.LockKey
	}
	if len(cfg.Migration.Extensions) == 0 {
		cfg.Migration.Extensions = def.Migration.Extensions
	}
	if cfg.Migration.BoxSize == 0 {
		cfg.Migration.BoxSize = def.Migration.BoxSize
	}
	if cfg.Migration.OnDuplicate == "" {
		cfg.Migration.OnDuplicate = def.Migration.OnDuplicate
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

// applyEnv overlays SATIMAGE_* environment variables.
func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("SERVER_ADDRESS", &cfg.Server.Address)
	setString("DB_DRIVER", &cfg.Database.Driver)
	setString("SQLITE_PATH", &cfg.Database.SQLite.Path)
	setString("MYSQL_DSN", &cfg.Database.MySQL.DSN)
	setString("POSTGRES_DSN", &cfg.Database.Postgres.DSN)
	setString("FIRESTORE_PROJECT_ID", &cfg.Database.Firestore.ProjectID)
	setString("MONGO_URI", &cfg.Database.Mongo.URI)
	setString("STORAGE_TYPE", &cfg.Storage.Type)
	setString("OUTPUT_DIR", &cfg.Storage.Local.BasePath)
	setString("S3_BUCKET", &cfg.Storage.S3.Bucket)
	setString("S3_ACCESS_KEY", &cfg.Storage.S3.AccessKey)
	setString("S3_SECRET_KEY", &cfg.Storage.S3.SecretKey)
	setString("GCS_BUCKET", &cfg.Storage.GCS.Bucket)
	setString("REDIS_ADDRESS", &cfg.Redis.Address)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
	setString("ON_DUPLICATE", &cfg.Migration.OnDuplicate)
	setString("LOG_LEVEL", &cfg.Log.Level)

	if v, ok := os.LookupEnv(envPrefix + "REDIS_ENABLED"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.Redis.Enabled = b
		}
	}
}

// findConfigFile searches for a config file in the current directory first,
// then next to the binary executable. Returns the full path or empty string.
func findConfigFile(name string) string {
	// 1. Current working directory
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		return abs
	}

	// 2. Next to the binary executable
	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)
		candidate := filepath.Join(exeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
