package redbot

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/enterstudio/redbot/fetch"
)

// FileConfig is the YAML configuration file format.
type FileConfig struct {
	// Checks to run; all of them if empty.
	Checks []string `yaml:"checks"`
	// Timeout per probe, e.g. "10s".
	Timeout string `yaml:"timeout"`
	// Headers to add to the base request.
	Headers map[string]string `yaml:"headers"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(filename string) (FileConfig, error) {
	var config FileConfig
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}

// Apply copies the file configuration onto a checker config.
func (fc FileConfig) Apply(config *Config) error {
	if len(fc.Checks) > 0 {
		config.Checks = fc.Checks
	}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		config.ProbeTimeout = timeout
	}
	for name, value := range fc.Headers {
		config.RequestHeaders = append(config.RequestHeaders, fetch.Header{Name: name, Value: value})
	}
	return nil
}
