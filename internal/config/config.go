package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Workers struct {
		PoolSize  int `yaml:"pool_size" default:"4"`
		QueueSize int `yaml:"queue_size" default:"100"`
		RateLimit int `yaml:"rate_limit" default:"60"` // analyze requests per minute per client
	} `yaml:"workers"`

	BackgroundTasks struct {
		TaskTimeout     time.Duration `yaml:"task_timeout" default:"120s"`
		CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxJobAge       time.Duration `yaml:"max_job_age" default:"24h"`
	} `yaml:"background_tasks"`

	Extractor struct {
		// Extractions shorter than this many characters are reported with
		// zero confidence instead of failing.
		MinTextChars int   `yaml:"min_text_chars" default:"50"`
		MaxFileSize  int64 `yaml:"max_file_size" default:"10485760"`
	} `yaml:"extractor"`

	Scoring struct {
		// Sub-score weights for the combined ATS score. Tunable, but the
		// defaults are the compatibility contract for existing consumers.
		KeywordWeight    float64 `yaml:"keyword_weight" default:"0.5"`
		FormattingWeight float64 `yaml:"formatting_weight" default:"0.25"`
		ContentWeight    float64 `yaml:"content_weight" default:"0.25"`

		MaxKeywordSuggestions int `yaml:"max_keyword_suggestions" default:"10"`
		MaxContentSuggestions int `yaml:"max_content_suggestions" default:"10"`

		TitleTermBonus float64 `yaml:"title_term_bonus" default:"2.0"`
	} `yaml:"scoring"`

	Redis struct {
		Enabled         bool          `yaml:"enabled" default:"false"`
		URL             string        `yaml:"url" default:"redis://localhost:6379"`
		Password        string        `yaml:"password"`
		DB              int           `yaml:"db" default:"0"`
		Timeout         time.Duration `yaml:"timeout" default:"5s"`
		KeywordModelTTL time.Duration `yaml:"keyword_model_ttl" default:"24h"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	// Expand $VAR syntax (but avoid replacing ${VAR} that was already processed)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Workers.PoolSize = 4
	config.Workers.QueueSize = 100
	config.Workers.RateLimit = 60

	config.BackgroundTasks.TaskTimeout = 120 * time.Second
	config.BackgroundTasks.CleanupInterval = 1 * time.Hour
	config.BackgroundTasks.MaxJobAge = 24 * time.Hour

	config.Extractor.MinTextChars = 50
	config.Extractor.MaxFileSize = 10 * 1024 * 1024

	config.Scoring.KeywordWeight = 0.5
	config.Scoring.FormattingWeight = 0.25
	config.Scoring.ContentWeight = 0.25
	config.Scoring.MaxKeywordSuggestions = 10
	config.Scoring.MaxContentSuggestions = 10
	config.Scoring.TitleTermBonus = 2.0

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second
	config.Redis.KeywordModelTTL = 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate rejects configurations that would break the scoring contract
func (c *Config) validate() error {
	sum := c.Scoring.KeywordWeight + c.Scoring.FormattingWeight + c.Scoring.ContentWeight
	if sum <= 0 {
		return fmt.Errorf("scoring weights must sum to a positive value, got %f", sum)
	}
	if c.Scoring.KeywordWeight < 0 || c.Scoring.FormattingWeight < 0 || c.Scoring.ContentWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if c.Extractor.MinTextChars < 0 {
		return fmt.Errorf("extractor min_text_chars must be non-negative")
	}
	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if poolSize := os.Getenv("WORKER_POOL_SIZE"); poolSize != "" {
		if size, err := strconv.Atoi(poolSize); err == nil {
			c.Workers.PoolSize = size
		}
	}

	if queueSize := os.Getenv("WORKER_QUEUE_SIZE"); queueSize != "" {
		if size, err := strconv.Atoi(queueSize); err == nil {
			c.Workers.QueueSize = size
		}
	}

	if rateLimit := os.Getenv("ANALYZE_RATE_LIMIT"); rateLimit != "" {
		if limit, err := strconv.Atoi(rateLimit); err == nil {
			c.Workers.RateLimit = limit
		}
	}

	if taskTimeout := os.Getenv("TASK_TIMEOUT"); taskTimeout != "" {
		if timeout, err := time.ParseDuration(taskTimeout); err == nil {
			c.BackgroundTasks.TaskTimeout = timeout
		}
	}

	if minChars := os.Getenv("EXTRACTOR_MIN_TEXT_CHARS"); minChars != "" {
		if chars, err := strconv.Atoi(minChars); err == nil {
			c.Extractor.MinTextChars = chars
		}
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		c.Redis.Enabled = redisEnabled == "true" || redisEnabled == "1"
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}
}
