package lessonplan

// Config holds lesson-plan generation settings.
type Config struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// DefaultConfig returns sensible defaults for lesson-plan generation. A full
// Modul Ajar with its assessment tables runs to a few thousand tokens.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.4,
	}
}
