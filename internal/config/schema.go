package config

// Config is the root configuration structure.
type Config struct {
	Kodi     KodiConfig     `toml:"kodi"`
	Echonest EchonestConfig `toml:"echonest"`
	Library  LibraryConfig  `toml:"library"`
	Display  DisplayConfig  `toml:"display"`
	Tail     TailConfig     `toml:"tail"`
	Log      LogConfig      `toml:"log"`
}

// KodiConfig holds Kodi JSON-RPC connection settings.
type KodiConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Transport string `toml:"transport"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	Timeout   int    `toml:"timeout"`
}

// EchonestConfig holds taste profile settings.
type EchonestConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	ProfileName     string `toml:"profile_name"`
	BatchSize       int    `toml:"batch_size"`
	BatchIntervalMS int    `toml:"batch_interval_ms"`
	RatingScale     int    `toml:"rating_scale"`
}

// LibraryConfig holds local library cache settings.
type LibraryConfig struct {
	Dir            string `toml:"dir"`
	Backend        string `toml:"backend"`
	SongsPageSize  int    `toml:"songs_page_size"`
	AlbumsPageSize int    `toml:"albums_page_size"`
	MaxRetries     int    `toml:"max_retries"`
	RetryInitialMS int    `toml:"retry_initial_ms"`
	RetryMaxMS     int    `toml:"retry_max_ms"`
}

// DisplayConfig holds shell display settings.
type DisplayConfig struct {
	PageLines int    `toml:"page_lines"`
	Theme     string `toml:"theme"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval int  `toml:"interval"`
	AutoSkip bool `toml:"auto_skip"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}
