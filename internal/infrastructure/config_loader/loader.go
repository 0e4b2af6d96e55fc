// Package loader loads bootstrap configuration (YAML + environment
// overrides) and exposes strongly typed fragments for Wire injection.
package loader

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/joho/godotenv"
)

const (
	envConfPath    = "CONF_PATH"
	envAppEnv      = "APP_ENV"
	envDatabaseURL = "DATABASE_URL"
	envPort        = "PORT"
	envGCSBucket   = "GCS_BUCKET"
)

var envFileNames = []string{".env.local", ".env"}

// Params carries runtime inputs for building the configuration bundle.
type Params struct {
	ConfPath string
}

// ServiceMetadata identifies this process in logs and telemetry.
type ServiceMetadata struct {
	Name        string
	Version     string
	Environment string
	InstanceID  string
}

// Bootstrap mirrors configs/config.yaml.
type Bootstrap struct {
	Server  ServerConfig  `json:"server"`
	Data    DataConfig    `json:"data"`
	Storage StorageConfig `json:"storage"`
	Media   MediaConfig   `json:"media"`
}

// ServerConfig groups transport settings.
type ServerConfig struct {
	HTTP    HTTPConfig    `json:"http"`
	Handler HandlerConfig `json:"handler"`
}

// HandlerConfig sets the per-class handler timeouts.
type HandlerConfig struct {
	Default string `json:"default"`
	Command string `json:"command"`
	Query   string `json:"query"`
	Upload  string `json:"upload"`
}

// HTTPConfig configures the kratos HTTP server.
type HTTPConfig struct {
	Network       string `json:"network"`
	Addr          string `json:"addr"`
	Timeout       string `json:"timeout"`
	UploadTempDir string `json:"upload_temp_dir"`
}

// DataConfig groups persistence settings.
type DataConfig struct {
	Postgres PostgresConfig `json:"postgres"`
}

// PostgresConfig configures the pgx pool.
type PostgresConfig struct {
	DSN             string `json:"dsn"`
	Schema          string `json:"schema"`
	MaxConns        int32  `json:"max_conns"`
	MinConns        int32  `json:"min_conns"`
	MaxConnLifetime string `json:"max_conn_lifetime"`
	MaxConnIdleTime string `json:"max_conn_idle_time"`
}

// StorageConfig configures the blob store collaborator.
type StorageConfig struct {
	Bucket        string `json:"bucket"`
	PublicBaseURL string `json:"public_base_url"`
}

// MediaConfig locates the codec tooling used by the prober.
type MediaConfig struct {
	FFprobePath  string `json:"ffprobe_path"`
	FFmpegPath   string `json:"ffmpeg_path"`
	ProbeTimeout string `json:"probe_timeout"`
	TempDir      string `json:"temp_dir"`
}

// Bundle aggregates validated configuration plus service identity.
type Bundle struct {
	Bootstrap *Bootstrap
	Service   ServiceMetadata
}

// ParseConfPath registers and parses the -conf flag.
func ParseConfPath(fs *flag.FlagSet, args []string) (string, error) {
	confPath := fs.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *confPath, nil
}

// ResolveConfPath applies the fallback rules for the config location.
// Priority: explicit flag > CONF_PATH > ./configs.
func ResolveConfPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(envConfPath); env != "" {
		return env
	}
	return defaultConfPath
}

// Load builds the Bundle: env files, YAML, env overrides, defaults.
func Load(params Params, name, version string) (*Bundle, func(), error) {
	confPath := ResolveConfPath(params.ConfPath)
	loadEnvFiles(confPath)

	c := config.New(config.WithSource(file.NewSource(confPath)))
	if err := c.Load(); err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("load config at %q: %w", confPath, err)
	}

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("scan config: %w", err)
	}

	applyEnvOverrides(&bc)
	applyDefaults(&bc)

	if err := validate(&bc); err != nil {
		c.Close()
		return nil, nil, err
	}

	cleanup := func() { _ = c.Close() }
	return &Bundle{
		Bootstrap: &bc,
		Service:   buildServiceMetadata(name, version),
	}, cleanup, nil
}

// loadEnvFiles loads .env.local/.env next to the config path and in the
// working directory. Missing files are fine.
func loadEnvFiles(confPath string) {
	dirs := []string{".", filepath.Dir(confPath)}
	for _, dir := range dirs {
		for _, name := range envFileNames {
			_ = godotenv.Load(filepath.Join(dir, name))
		}
	}
}

func applyEnvOverrides(bc *Bootstrap) {
	if dsn := os.Getenv(envDatabaseURL); dsn != "" {
		bc.Data.Postgres.DSN = dsn
	}
	if port := os.Getenv(envPort); port != "" {
		bc.Server.HTTP.Addr = ":" + port
	}
	if bucket := os.Getenv(envGCSBucket); bucket != "" {
		bc.Storage.Bucket = bucket
	}
}

func validate(bc *Bootstrap) error {
	if bc.Data.Postgres.DSN == "" {
		return fmt.Errorf("config: data.postgres.dsn is required (or set DATABASE_URL)")
	}
	if bc.Storage.Bucket == "" {
		return fmt.Errorf("config: storage.bucket is required (or set GCS_BUCKET)")
	}
	return nil
}

func buildServiceMetadata(name, version string) ServiceMetadata {
	if name == "" {
		name = defaultServiceName
	}
	if version == "" {
		version = "dev"
	}
	env := os.Getenv(envAppEnv)
	if env == "" {
		env = "development"
	}
	host, _ := os.Hostname()
	return ServiceMetadata{
		Name:        name,
		Version:     version,
		Environment: env,
		InstanceID:  host,
	}
}

// Duration parses a configured duration string, returning fallback for
// empty or malformed values.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
