package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(filePath string) (*JobConfig, error) {

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filePath)
	}

	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file: %w", err)
	}

	var config JobConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}

	if err := p.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (p *Parser) validate(config *JobConfig) error {
	if config.Job.Name == "" {
		return fmt.Errorf("job name is required")
	}
	if config.Job.Namespace == "" {
		return fmt.Errorf("job namespace is required")
	}
	if config.Dataset.RootDir == "" {
		return fmt.Errorf("dataset root_dir is required")
	}
	if config.Dataset.Name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if config.Dictionary.Dir == "" {
		return fmt.Errorf("dictionary dir is required")
	}
	return nil
}
