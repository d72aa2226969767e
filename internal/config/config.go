package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	checks "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	AI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"ai"`

	// Auth maps tenant id to its API key. Empty map disables auth.
	Auth struct {
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	// Checks holds the task defaults applied to webhook-triggered runs.
	Checks struct {
		Severity       string   `yaml:"severity"`
		Binary         string   `yaml:"binary"`
		UseDocker      bool     `yaml:"useDocker"`
		DockerImage    string   `yaml:"dockerImage"`
		DockerTag      string   `yaml:"dockerTag"`
		ExtraArgs      []string `yaml:"extraArgs"`
		IgnoreFailures bool     `yaml:"ignoreFailures"`
		ShowViolations bool     `yaml:"showViolations"`

		Reports checks.ReportsConfig `yaml:"reports"`
	} `yaml:"checks"`
}

// Load reads config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	return &cfg, nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	sslmode := c.Database.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		sslmode,
	)
}

// TaskDefaults converts the checks section into a resolved task
// configuration; per-request fields (sources, working dir, flags) are filled
// in by the caller before WithDefaults.
func (c *Config) TaskDefaults() checks.TaskConfig {
	return checks.TaskConfig{
		Binary:         c.Checks.Binary,
		UseDocker:      c.Checks.UseDocker,
		DockerImage:    c.Checks.DockerImage,
		DockerTag:      c.Checks.DockerTag,
		Severity:       checks.Severity(c.Checks.Severity),
		ExtraArgs:      c.Checks.ExtraArgs,
		IgnoreFailures: c.Checks.IgnoreFailures,
		ShowViolations: c.Checks.ShowViolations,
		Reports:        c.Checks.Reports,
	}
}
