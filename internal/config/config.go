package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Database   Database   `yaml:"database"`
	Redis      Redis      `yaml:"redis"`
	Storage    Storage    `yaml:"storage"`
	Media      Media      `yaml:"media"`
	Auth       Auth       `yaml:"auth"`
	RateLimits RateLimits `yaml:"rate_limits"`
	Sweeper    Sweeper    `yaml:"sweeper"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"120s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"90s"`
}

type Database struct {
	Driver   string   `yaml:"driver" env:"DB_DRIVER" env-default:"postgres" validate:"oneof=postgres mysql memory"`
	Postgres Postgres `yaml:"postgres"`
	MySQL    MySQL    `yaml:"mysql"`
	Memory   Memory   `yaml:"memory"`
}

// Memory seeds the in-process store. Parents maps a parent type name
// (sanctuary, district, ...) to the IDs that exist.
type Memory struct {
	Parents map[string][]int64 `yaml:"parents"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"PG_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"PG_DBNAME" env-default:"tourism"`
	SSLMode  string `yaml:"sslmode" env:"PG_SSLMODE" env-default:"disable"`
}

// DSN builds a lib/pq connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

type MySQL struct {
	Host     string `yaml:"host" env:"MYSQL_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"MYSQL_PORT" env-default:"3306"`
	User     string `yaml:"user" env:"MYSQL_USER" env-default:"root"`
	Password string `yaml:"password" env:"MYSQL_PASSWORD" env-default:""`
	DBName   string `yaml:"dbname" env:"MYSQL_DBNAME" env-default:"tourism"`
}

type Redis struct {
	// Empty address disables caching and rate limiting.
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:""`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Storage struct {
	Backend      string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"local" validate:"oneof=local minio"`
	UploadsDir   string `yaml:"uploads_dir" env:"UPLOADS_DIR" env-default:"uploads"`
	PublicPrefix string `yaml:"public_prefix" env:"UPLOADS_PUBLIC_PREFIX" env-default:"/uploads/"`
	MinIO        MinIO  `yaml:"minio"`
}

type MinIO struct {
	Endpoint        string        `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKeyID     string        `yaml:"access_key_id" env:"MINIO_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string        `yaml:"secret_access_key" env:"MINIO_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	BucketName      string        `yaml:"bucket_name" env:"MINIO_BUCKET" env-default:"tourism-media"`
	UseSSL          bool          `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	PresignedURLTTL time.Duration `yaml:"presigned_url_ttl" env-default:"1h"`
}

// Limits bounds a single upload request for one media kind.
type Limits struct {
	Field        string   `yaml:"field" validate:"required"`
	MaxFiles     int      `yaml:"max_files" validate:"min=1"`
	MaxFileSize  int64    `yaml:"max_file_size" validate:"min=1"`
	AllowedTypes []string `yaml:"allowed_types" validate:"min=1"`
}

type Media struct {
	Image Limits `yaml:"image"`
	Video Limits `yaml:"video"`
}

type Auth struct {
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"super_secret_key"`
	TokenTTL    time.Duration `yaml:"token_ttl" env-default:"24h"`
	AllowSignup bool          `yaml:"allow_signup" env:"AUTH_ALLOW_SIGNUP" env-default:"false"`
}

// RateLimit is a token bucket refilled every minute.
type RateLimit struct {
	Capacity int64 `yaml:"capacity" validate:"min=1"`
	Refill   int64 `yaml:"refill" validate:"min=1"`
}

type RateLimits struct {
	Uploads RateLimit `yaml:"uploads"`
	Deletes RateLimit `yaml:"deletes"`
}

type Sweeper struct {
	Interval    time.Duration `yaml:"interval" env:"SWEEPER_INTERVAL" env-default:"1h" validate:"gt=0"`
	GracePeriod time.Duration `yaml:"grace_period" env:"SWEEPER_GRACE_PERIOD" env-default:"24h"`
	DryRun      bool          `yaml:"dry_run" env:"SWEEPER_DRY_RUN" env-default:"false"`
}

const (
	mb = 1 << 20
)

// DefaultMedia mirrors the limits the upload endpoints have always enforced.
func DefaultMedia() Media {
	return Media{
		Image: Limits{
			Field:        "galleryImages",
			MaxFiles:     50,
			MaxFileSize:  10 * mb,
			AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/webp"},
		},
		Video: Limits{
			Field:       "video",
			MaxFiles:    1,
			MaxFileSize: 100 * mb,
			AllowedTypes: []string{
				"video/mp4", "video/avi", "video/x-msvideo", "video/quicktime",
				"video/x-ms-wmv", "video/x-flv", "video/webm",
			},
		},
	}
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Uploads: RateLimit{Capacity: 30, Refill: 30},
		Deletes: RateLimit{Capacity: 60, Refill: 60},
	}
}

// applyDefaults fills list and nested sections that cleanenv cannot default.
func (c *Config) applyDefaults() {
	def := DefaultMedia()
	fill := func(l *Limits, d Limits) {
		if l.Field == "" {
			l.Field = d.Field
		}
		if l.MaxFiles == 0 {
			l.MaxFiles = d.MaxFiles
		}
		if l.MaxFileSize == 0 {
			l.MaxFileSize = d.MaxFileSize
		}
		if len(l.AllowedTypes) == 0 {
			l.AllowedTypes = d.AllowedTypes
		}
	}
	fill(&c.Media.Image, def.Image)
	fill(&c.Media.Video, def.Video)

	rl := DefaultRateLimits()
	if c.RateLimits.Uploads.Capacity == 0 {
		c.RateLimits.Uploads = rl.Uploads
	}
	if c.RateLimits.Deletes.Capacity == 0 {
		c.RateLimits.Deletes = rl.Deletes
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Load reads the config file at path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	return cfg
}
