package config

// Config holds the application configuration.
type Config struct {
	Catalog Catalog `yaml:"catalog" json:"catalog"`
	Server  Server  `yaml:"server" json:"server"`
	Logger  Logger  `yaml:"logger" json:"logger"`
	API     API     `yaml:"api" json:"api"`
	Metrics Metrics `yaml:"metrics" json:"metrics"`
	Import  Import  `yaml:"import" json:"import"`
}

// Catalog holds the configuration of the song source file.
type Catalog struct {
	Path               string `yaml:"path" json:"path" validate:"required"`
	Preload            bool   `yaml:"preload" json:"preload"` // Load at startup instead of on the first request
	RejectDuplicateIDs bool   `yaml:"reject_duplicate_ids" json:"reject_duplicate_ids"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool   `yaml:"show_routes" json:"show_routes"`
	Port        uint32 `yaml:"port" json:"port" validate:"required"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Level   string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" json:"format" validate:"omitempty,oneof=json text logfmt"`
}

// API bounds the page sizes accepted by the songs endpoints.
type API struct {
	DefaultLimit int `yaml:"default_limit" json:"default_limit" validate:"gte=1,ltefield=MaxLimit"`
	MaxLimit     int `yaml:"max_limit" json:"max_limit" validate:"gte=1"`
}

// Metrics holds the configuration for the Prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path" validate:"required_if=Enabled true"`
}

// Import holds the defaults of the filter-songs tool.
type Import struct {
	Input           string `yaml:"input" json:"input"`
	Output          string `yaml:"output" json:"output"`
	Watch           bool   `yaml:"watch" json:"watch"`
	DebounceSecs    int    `yaml:"debounce_secs" json:"debounce_secs" validate:"gte=0"`
	LogInvalidLimit int    `yaml:"log_invalid_limit" json:"log_invalid_limit" validate:"gte=0"` // Invalid records logged individually
	ProgressEvery   int    `yaml:"progress_every" json:"progress_every" validate:"gte=1"`
}
