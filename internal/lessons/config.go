package lessons

import (
	"os"
	"strconv"
)

// Config holds generation parameters for the lesson services.
type Config struct {
	// LessonCount is how many lessons a generated plan contains.
	LessonCount int

	// MaxTokens bounds a regular generation call.
	MaxTokens int

	// SimplifiedMaxTokens bounds the reduced-prompt retry.
	SimplifiedMaxTokens int

	// Temperature for content generation. Plan and criteria calls run
	// at a lower temperature for stability.
	Temperature float64
}

// DefaultConfig returns the default generation parameters.
func DefaultConfig() Config {
	return Config{
		LessonCount:         5,
		MaxTokens:           2048,
		SimplifiedMaxTokens: 512,
		Temperature:         0.7,
	}
}

// DiscoverConfig builds a Config from defaults plus USTAZ_* env overrides.
func DiscoverConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("USTAZ_LESSON_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LessonCount = n
		}
	}
	if v := os.Getenv("USTAZ_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	return cfg
}
