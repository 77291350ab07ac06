package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Rules holds the tunable game parameters of a quiz round.
type Rules struct {
	TimeBudgetSeconds int    `yaml:"time_budget_seconds"`
	RevealDelayMs     int    `yaml:"reveal_delay_ms"`
	NavigationDelayMs int    `yaml:"navigation_delay_ms"`
	BaseQuota         int    `yaml:"base_quota"`
	QuotaPerLevel     int    `yaml:"quota_per_level"`
	Reward            int    `yaml:"reward"`
	ImagesPerQuestion int    `yaml:"images_per_question"`
	DisplayFormat     string `yaml:"display_format"`
}

// DefaultRules returns the rules used when no rules file is configured.
func DefaultRules() Rules {
	return Rules{
		TimeBudgetSeconds: 5 * 60,
		RevealDelayMs:     1000,
		NavigationDelayMs: 2000,
		BaseQuota:         10,
		QuotaPerLevel:     5,
		Reward:            100,
		ImagesPerQuestion: 5,
		DisplayFormat:     "CRS",
	}
}

// LoadRules reads a YAML rules file over the defaults. An empty path yields the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return rules, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}

// Validate rejects rules that would make a round unplayable.
func (r Rules) Validate() error {
	if r.TimeBudgetSeconds <= 0 {
		return fmt.Errorf("time_budget_seconds must be positive, got %d", r.TimeBudgetSeconds)
	}
	if r.RevealDelayMs < 0 || r.NavigationDelayMs < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	if r.BaseQuota < 1 {
		return fmt.Errorf("base_quota must be at least 1, got %d", r.BaseQuota)
	}
	if r.QuotaPerLevel < 0 {
		return fmt.Errorf("quota_per_level cannot be negative, got %d", r.QuotaPerLevel)
	}
	if r.Reward < 0 {
		return fmt.Errorf("reward cannot be negative, got %d", r.Reward)
	}
	if r.ImagesPerQuestion < 1 {
		return fmt.Errorf("images_per_question must be at least 1, got %d", r.ImagesPerQuestion)
	}
	return nil
}

func (r Rules) TimeBudget() time.Duration {
	return time.Duration(r.TimeBudgetSeconds) * time.Second
}

func (r Rules) RevealDelay() time.Duration {
	return time.Duration(r.RevealDelayMs) * time.Millisecond
}

func (r Rules) NavigationDelay() time.Duration {
	return time.Duration(r.NavigationDelayMs) * time.Millisecond
}
