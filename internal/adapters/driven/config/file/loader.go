package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/subosito/gotenv"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driving"
)

// Ensure Loader implements the interface.
var _ driving.SettingsLoader = (*Loader)(nil)

// EnvAPIKey overrides the API key from the configuration file.
const EnvAPIKey = "ALMA_API_KEY"

// DefaultConfigName is used when no configuration path is given.
const DefaultConfigName = "config.yml"

// fileConfig is the document shape shared by both formats.
// R is the report type, which differs only in how files are decoded.
type fileConfig[R any] struct {
	APIKey       string   `yaml:"alma_api_key" toml:"alma_api_key"`
	Endpoint     string   `yaml:"endpoint" toml:"endpoint"`
	DestPath     string   `yaml:"dest_path" toml:"dest_path"`
	PageLimit    int      `yaml:"page_limit" toml:"page_limit"`
	RetryCeiling int      `yaml:"retry_ceiling" toml:"retry_ceiling"`
	StatsFile    string   `yaml:"stats_file" toml:"stats_file"`
	HistoryDB    string   `yaml:"history_db" toml:"history_db"`
	HTTP         httpConf `yaml:"http" toml:"http"`
	Reports      []R      `yaml:"reports" toml:"reports"`
}

// httpConf uses pointers so that an explicit zero is kept.
// Durations are given in seconds.
type httpConf struct {
	Retries           *int     `yaml:"retries" toml:"retries"`
	BackoffFactor     *float64 `yaml:"backoff_factor" toml:"backoff_factor"`
	StatusForcelist   []int    `yaml:"status_forcelist" toml:"status_forcelist"`
	Timeout           float64  `yaml:"timeout" toml:"timeout"`
	RequestsPerSecond float64  `yaml:"requests_per_second" toml:"requests_per_second"`
}

type reportConf[F any] struct {
	Path     string   `yaml:"path" toml:"path"`
	Variable string   `yaml:"variable" toml:"variable"`
	SortBy   string   `yaml:"sort_by" toml:"sort_by"`
	Format   string   `yaml:"format" toml:"format"`
	Fields   []string `yaml:"fields" toml:"fields"`
	Files    F        `yaml:"files" toml:"files"`
}

// Loader reads settings from configuration files.
type Loader struct {
	getenv func(string) string
}

// NewLoader creates a loader reading overrides from the process environment.
func NewLoader() *Loader {
	return &Loader{getenv: os.Getenv}
}

// Load reads, defaults and validates the settings in path.
// Relative dest_path and history_db are resolved against the directory of path.
func (l *Loader) Load(path string) (*domain.Settings, error) {
	if path == "" {
		path = DefaultConfigName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file %s not found", domain.ErrInvalidConfig, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var settings *domain.Settings
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		settings, err = decodeYAML(data)
	case ".toml":
		settings, err = decodeTOML(data)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", domain.ErrInvalidConfig, ext)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidConfig) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidConfig, path, err)
	}

	dir := filepath.Dir(path)
	if key, err := l.lookupEnv(dir, EnvAPIKey); err != nil {
		return nil, err
	} else if key != "" {
		settings.APIKey = key
	}

	settings.DestPath = resolve(dir, settings.DestPath)
	settings.HistoryDB = resolve(dir, settings.HistoryDB)

	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// lookupEnv returns the process value of name, falling back to dir/.env.
func (l *Loader) lookupEnv(dir, name string) (string, error) {
	if v := l.getenv(name); v != "" {
		return v, nil
	}
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err != nil {
		return "", nil
	}
	env, err := gotenv.Read(envPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", envPath, err)
	}
	return env[name], nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// toSettings converts a decoded document, using files to decode each report's file variants.
func toSettings[F any](cfg *fileConfig[reportConf[F]], files func(F) ([]domain.FileVariant, error)) (*domain.Settings, error) {
	s := &domain.Settings{
		APIKey:       cfg.APIKey,
		Endpoint:     cfg.Endpoint,
		DestPath:     cfg.DestPath,
		PageLimit:    cfg.PageLimit,
		RetryCeiling: cfg.RetryCeiling,
		StatsFile:    cfg.StatsFile,
		HistoryDB:    cfg.HistoryDB,
		HTTP: domain.HTTPSettings{
			Retries:           domain.DefaultHTTPRetries,
			BackoffFactor:     domain.DefaultBackoffFactor,
			StatusForcelist:   cfg.HTTP.StatusForcelist,
			Timeout:           seconds(cfg.HTTP.Timeout),
			RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		},
	}
	if cfg.HTTP.Retries != nil {
		s.HTTP.Retries = *cfg.HTTP.Retries
	}
	if cfg.HTTP.BackoffFactor != nil {
		s.HTTP.BackoffFactor = seconds(*cfg.HTTP.BackoffFactor)
	}

	for i, rc := range cfg.Reports {
		variants, err := files(rc.Files)
		if err != nil {
			return nil, fmt.Errorf("reports[%d] (%s): files: %w", i, rc.Path, err)
		}
		report := domain.ReportDefinition{
			Path:     rc.Path,
			Variable: rc.Variable,
			SortBy:   rc.SortBy,
			Columns:  domain.BindColumns(rc.Fields),
			Files:    variants,
		}
		if rc.Format != "" {
			tmpl, err := domain.ParseTemplate(rc.Format)
			if err != nil {
				return nil, fmt.Errorf("reports[%d] (%s): format: %w", i, rc.Path, err)
			}
			report.Format = tmpl
		}
		s.Reports = append(s.Reports, report)
	}
	return s, nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
