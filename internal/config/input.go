package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
)

// InputParser loads and validates plan files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML or JSON file. The plan is validated
// before it is returned; an invalid plan never reaches the engine.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan domain.Plan
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// LoadFromBytes parses a plan from raw JSON, validating it. The bridge uses
// this for plan updates.
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// SaveToFile writes a plan back out as YAML.
func (ip *InputParser) SaveToFile(plan *domain.Plan, filename string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// LoadOrDefault loads the plan at path, or returns the built-in default
// plan when path is empty or the file does not exist.
func (ip *InputParser) LoadOrDefault(path string) (*domain.Plan, error) {
	if path == "" {
		return DefaultPlan(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultPlan(), nil
	}
	return ip.LoadFromFile(path)
}
