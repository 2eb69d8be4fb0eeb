package config

const (
	defaultMainCSV          = "dataset/movies_main.csv"
	defaultExtendedCSV      = "dataset/movies_extended.csv"
	defaultRatingsJSON      = "dataset/ratings.json"
	defaultOutputCSV        = "output/final_cleaned_movies.csv"
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultTMDBLanguage     = "en-US"
	defaultRequestTimeout   = 10
	defaultMaxRetries       = 3
	defaultEnrichBatchSize  = 50
	defaultRefreshLanguages = true
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Sources: Sources{
			MainCSV:     defaultMainCSV,
			ExtendedCSV: defaultExtendedCSV,
			RatingsJSON: defaultRatingsJSON,
			OutputCSV:   defaultOutputCSV,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			RequestTimeout: defaultRequestTimeout,
			MaxRetries:     defaultMaxRetries,
		},
		Enrich: Enrich{
			Enabled:          true,
			BatchSize:        defaultEnrichBatchSize,
			RefreshLanguages: defaultRefreshLanguages,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
