package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SourceConfig controls the post source collaborator.
type SourceConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	Token         string `mapstructure:"token"`
	Keyword       string `mapstructure:"keyword"`    // search keyword for fetches
	BatchSize     int    `mapstructure:"batch_size"` // posts per fetch
	FetchInterval string `mapstructure:"fetch_interval"`
}

// AnalysisConfig holds the trend analyzer knobs.
type AnalysisConfig struct {
	TopKeywords      int    `mapstructure:"top_keywords"`       // retained keyword count
	MinClusterSize   int    `mapstructure:"min_cluster_size"`   // topics below this are dropped
	KeywordsPerTopic int    `mapstructure:"keywords_per_topic"` // per-topic keyword ranking depth
	LexiconFile      string `mapstructure:"lexicon_file"`       // optional YAML lexicon override
}

// GenerationConfig holds the content generator knobs.
type GenerationConfig struct {
	Requests    int    `mapstructure:"requests"` // generation requests per run
	MinChars    int    `mapstructure:"min_chars"`
	MaxChars    int    `mapstructure:"max_chars"`
	Timeout     string `mapstructure:"timeout"` // per-call, duration string
	Retries     int    `mapstructure:"retries"` // transient retries per request
	Concurrency int    `mapstructure:"concurrency"`
	RunDeadline string `mapstructure:"run_deadline"` // whole-run budget
	Interval    string `mapstructure:"interval"`     // serve-mode pipeline cadence
}

// OpenAIConfig configures the completion backend.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// OutputConfig controls artifact persistence.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Source     SourceConfig     `mapstructure:"source"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Generation GenerationConfig `mapstructure:"generation"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Output     OutputConfig     `mapstructure:"output"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Source.Keyword == "" {
		c.Source.Keyword = "电影"
	}
	if c.Source.BatchSize == 0 {
		c.Source.BatchSize = 100
	}
	if c.Source.FetchInterval == "" {
		c.Source.FetchInterval = "1h"
	}
	if c.Analysis.TopKeywords == 0 {
		c.Analysis.TopKeywords = 20
	}
	if c.Analysis.MinClusterSize == 0 {
		c.Analysis.MinClusterSize = 2
	}
	if c.Analysis.KeywordsPerTopic == 0 {
		c.Analysis.KeywordsPerTopic = 5
	}
	if c.Generation.Requests == 0 {
		c.Generation.Requests = 5
	}
	if c.Generation.MinChars == 0 {
		c.Generation.MinChars = 150
	}
	if c.Generation.MaxChars == 0 {
		c.Generation.MaxChars = 400
	}
	if c.Generation.Timeout == "" {
		c.Generation.Timeout = "60s"
	}
	if c.Generation.Retries == 0 {
		c.Generation.Retries = 1
	}
	if c.Generation.Concurrency == 0 {
		c.Generation.Concurrency = 3
	}
	if c.Generation.RunDeadline == "" {
		c.Generation.RunDeadline = "5m"
	}
	if c.Generation.Interval == "" {
		c.Generation.Interval = "30m"
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 800
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./out"
	}
}
