package risk

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

const (
	defaultKeywordThreshold    = 2
	defaultBaseRiskyConfidence = 0.80
	defaultSafeConfidence      = 0.90
)

// Config holds the classification thresholds and the lexicon source.
// The confidences are pointers because zero is a valid score: nil means unset.
type Config struct {
	KeywordThreshold    int      `toml:"keyword_threshold" json:"keyword_threshold"`
	BaseRiskyConfidence *float64 `toml:"base_risky_confidence" json:"base_risky_confidence"`
	SafeConfidence      *float64 `toml:"safe_confidence" json:"safe_confidence"`
	Workers             int      `toml:"workers" json:"workers"`
	LexiconPath         string   `toml:"lexicon_path" json:"lexicon_path,omitempty"`
}

// Confidence returns a pointer to v for populating Config literals.
func Confidence(v float64) *float64 {
	return &v
}

// BaseRisky returns the base score for Risky clauses, or the default when unset.
func (c Config) BaseRisky() float64 {
	if c.BaseRiskyConfidence == nil {
		return defaultBaseRiskyConfidence
	}
	return *c.BaseRiskyConfidence
}

// Safe returns the score assigned to Safe clauses, or the default when unset.
func (c Config) Safe() float64 {
	if c.SafeConfidence == nil {
		return defaultSafeConfidence
	}
	return *c.SafeConfidence
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	KeywordThreshold    string
	BaseRiskyConfidence string
	SafeConfidence      string
	Workers             string
	LexiconPath         string
}

// DefaultConfig returns a finalized Config carrying the shipped thresholds.
func DefaultConfig() Config {
	var c Config
	c.loadDefaults()
	return c
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Confidences are copied
// whenever the overlay sets them, including to zero.
func (c *Config) Merge(overlay *Config) {
	if overlay.KeywordThreshold != 0 {
		c.KeywordThreshold = overlay.KeywordThreshold
	}
	if overlay.BaseRiskyConfidence != nil {
		c.BaseRiskyConfidence = Confidence(*overlay.BaseRiskyConfidence)
	}
	if overlay.SafeConfidence != nil {
		c.SafeConfidence = Confidence(*overlay.SafeConfidence)
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.LexiconPath != "" {
		c.LexiconPath = overlay.LexiconPath
	}
}

// Lexicon loads the lexicon named by LexiconPath, or the embedded default
// when no path is configured.
func (c *Config) Lexicon() (*Lexicon, error) {
	if c.LexiconPath == "" {
		return DefaultLexicon()
	}
	return ReadLexicon(c.LexiconPath)
}

func (c *Config) loadDefaults() {
	if c.KeywordThreshold == 0 {
		c.KeywordThreshold = defaultKeywordThreshold
	}
	if c.BaseRiskyConfidence == nil {
		c.BaseRiskyConfidence = Confidence(defaultBaseRiskyConfidence)
	}
	if c.SafeConfidence == nil {
		c.SafeConfidence = Confidence(defaultSafeConfidence)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.KeywordThreshold != "" {
		if v := os.Getenv(env.KeywordThreshold); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.KeywordThreshold = n
			}
		}
	}
	if env.BaseRiskyConfidence != "" {
		if v := os.Getenv(env.BaseRiskyConfidence); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.BaseRiskyConfidence = Confidence(f)
			}
		}
	}
	if env.SafeConfidence != "" {
		if v := os.Getenv(env.SafeConfidence); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.SafeConfidence = Confidence(f)
			}
		}
	}
	if env.Workers != "" {
		if v := os.Getenv(env.Workers); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Workers = n
			}
		}
	}
	if env.LexiconPath != "" {
		if v := os.Getenv(env.LexiconPath); v != "" {
			c.LexiconPath = v
		}
	}
}

func (c *Config) validate() error {
	if c.KeywordThreshold < 1 {
		return fmt.Errorf("keyword_threshold must be at least 1")
	}
	if base := c.BaseRisky(); base < 0 || base > 1 {
		return fmt.Errorf("base_risky_confidence must be within [0, 1]")
	}
	if safe := c.Safe(); safe < 0 || safe > 1 {
		return fmt.Errorf("safe_confidence must be within [0, 1]")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}
