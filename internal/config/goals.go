package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
)

// Goals holds per-month return targets keyed by YYYY-MM.
type Goals struct {
	Monthly map[string]float64 `yaml:"monthly"`
}

// LoadGoals reads a goals file. A missing file yields empty goals, so every
// month falls back to the default target.
func LoadGoals(path string) (*Goals, error) {
	g := &Goals{}
	if path == "" {
		return g, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading goals file: %w", err)
	}

	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", apperrors.ErrConfigInvalid, path, err)
	}
	for month := range g.Monthly {
		if _, err := time.Parse("2006-01", month); err != nil {
			return nil, fmt.Errorf("%w: goal month %q must be YYYY-MM", apperrors.ErrConfigInvalid, month)
		}
	}
	return g, nil
}

// MonthlyTargets returns a copy of the per-month targets.
func (g *Goals) MonthlyTargets() map[string]float64 {
	out := make(map[string]float64, len(g.Monthly))
	for k, v := range g.Monthly {
		out[k] = v
	}
	return out
}
