package config

import (
	"os"
	"time"

	"cppquiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL            string `yaml:"ttl"`
		TotalQuestions int    `yaml:"total_questions"`
		EasyCount      int    `yaml:"easy_count"`
		MediumCount    int    `yaml:"medium_count"`
		HardCount      int    `yaml:"hard_count"`
		EasyTime       int    `yaml:"easy_time"`
		MediumTime     int    `yaml:"medium_time"`
		HardTime       int    `yaml:"hard_time"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Settings maps the quiz section onto draw settings, falling back to the
// classroom default when no question count is configured.
func (c Config) Settings() domain.Settings {
	if c.Quiz.TotalQuestions <= 0 {
		return domain.DefaultSettings()
	}
	return domain.Settings{
		TotalQuestions: c.Quiz.TotalQuestions,
		EasyCount:      c.Quiz.EasyCount,
		MediumCount:    c.Quiz.MediumCount,
		HardCount:      c.Quiz.HardCount,
		EasyTime:       c.Quiz.EasyTime,
		MediumTime:     c.Quiz.MediumTime,
		HardTime:       c.Quiz.HardTime,
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
