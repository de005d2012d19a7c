package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// BackendConfig holds the REST backend connection settings. An empty
// token means unauthenticated: personalization parameters are omitted
// from requests rather than failing them.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	Timeout string `mapstructure:"timeout"` // duration string, e.g., "10s"
}

// RedisConfig holds redis connection settings for the reference-data
// cache. Leaving Addr empty selects the in-process cache instead.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FeedConfig controls pagination and polling defaults.
type FeedConfig struct {
	PageSize      int    `mapstructure:"page_size"`
	WatchInterval string `mapstructure:"watch_interval"` // duration string, e.g., "5m"
}

// Config is the top-level configuration structure.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Backend BackendConfig `mapstructure:"backend"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Feed    FeedConfig    `mapstructure:"feed"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "https://backend.scholarfeed.org/api"
	}
	if c.Backend.Timeout == "" {
		c.Backend.Timeout = "10s"
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = 20
	}
	if c.Feed.WatchInterval == "" {
		c.Feed.WatchInterval = "5m"
	}
}
