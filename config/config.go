package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"estate_dumps/models"
)

type Config struct {
	Scheduler   SchedulerConfig
	Scraper     ScraperConfig
	Storage     StorageConfig
	DBPath      string
	LogLevel    string
	LogFile     string
	Env         string
	MetricsAddr string
	SitesDir    string
	Sites       map[string]*SiteConfig
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type ScraperConfig struct {
	Workers           int
	FetchTimeout      time.Duration
	RequestsPerSecond float64
	ProxyURL          string
}

type StorageConfig struct {
	PostgresURL string
	S3          S3Config
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type SiteConfig struct {
	ID           string                 `yaml:"id"`
	Name         string                 `yaml:"name"`
	Handler      string                 `yaml:"handler"`
	URL          string                 `yaml:"url"`
	Fetcher      string                 `yaml:"fetcher"`
	ItemsPerPage int                    `yaml:"items_per_page"`
	MaxPages     int                    `yaml:"max_pages"`
	Workers      int                    `yaml:"workers"`
	RateLimitMS  int                    `yaml:"rate_limit_ms"`
	FetchTimeout time.Duration          `yaml:"fetch_timeout"`
	Features     models.WebPageFeatures `yaml:"features"`
}

// WebPage is the descriptor stamped on every dump of this site
func (s *SiteConfig) WebPage() models.WebPage {
	return models.WebPage{
		URL:      s.URL,
		Name:     s.Name,
		Features: s.Features,
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SCRAPE_CRON"),
		},
		Scraper: ScraperConfig{
			Workers:           getEnvInt("SCRAPE_WORKERS", 1),
			FetchTimeout:      getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			RequestsPerSecond: getEnvFloat("FETCH_RPS", 2),
			ProxyURL:          os.Getenv("PROXY_URL"),
		},
		Storage: StorageConfig{
			PostgresURL: os.Getenv("POSTGRES_URL"),
			S3: S3Config{
				Bucket:          os.Getenv("S3_BUCKET"),
				Region:          getEnv("S3_REGION", "eu-central-1"),
				Endpoint:        os.Getenv("S3_ENDPOINT"),
				AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			},
		},
		DBPath:      getEnv("DB_PATH", "dumps.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", "dumps.log"),
		Env:         os.Getenv("APP_ENV"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
		SitesDir:    getEnv("SITES_DIR", "config/sites"),
		Sites:       make(map[string]*SiteConfig),
	}

	if interval := os.Getenv("SCRAPE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.LoadSites(cfg.SitesDir); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadSites reads every *.yaml file in dir into c.Sites. A missing dir is not an error.
func (c *Config) LoadSites(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var site SiteConfig
		if err := yaml.Unmarshal(data, &site); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if site.ID == "" {
			return fmt.Errorf("parse %s: missing id", path)
		}
		site.applyDefaults(c.Scraper)

		c.Sites[site.ID] = &site
	}

	return nil
}

func (s *SiteConfig) applyDefaults(scraper ScraperConfig) {
	if s.Handler == "" {
		s.Handler = s.ID
	}
	if s.Fetcher == "" {
		s.Fetcher = "http"
	}
	if s.ItemsPerPage <= 0 {
		s.ItemsPerPage = 60
	}
	if s.MaxPages <= 0 {
		s.MaxPages = 251
	}
	if s.Workers <= 0 {
		s.Workers = scraper.Workers
	}
	if s.Workers <= 0 {
		s.Workers = 1
	}
	if s.FetchTimeout <= 0 {
		s.FetchTimeout = scraper.FetchTimeout
	}
}

// RequestsPerSecond converts rate_limit_ms into a limiter rate, falling back
// to the global one.
func (s *SiteConfig) RequestsPerSecond(fallback float64) float64 {
	if s.RateLimitMS > 0 {
		return 1000 / float64(s.RateLimitMS)
	}
	return fallback
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
