package config

func defaultConfig() *Config {
	return &Config{
		Catalog: Catalog{
			Path:               "./data/maimai_song.json",
			Preload:            true,
			RejectDuplicateIDs: false,
		},
		Server: Server{
			PrintRoutes: false,
			Port:        8000,
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		API: API{
			DefaultLimit: 100,
			MaxLimit:     1000,
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    "/metrics",
		},
		Import: Import{
			Input:           "./data/maimai_song.json",
			Output:          "./data/maimai_song_filtered.json",
			Watch:           false,
			DebounceSecs:    2,
			LogInvalidLimit: 5,
			ProgressEvery:   250,
		},
	}
}
