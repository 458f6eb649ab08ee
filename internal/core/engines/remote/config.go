package remote

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultTimeout = 2 * time.Minute

// FileConfig is the optional engine config file. Unknown keys are ignored so
// the vendor engine's own config file can be shared.
type FileConfig struct {
	BaseURL string            `yaml:"base_url" json:"base_url"`
	Timeout string            `yaml:"timeout" json:"timeout"`
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// LoadFileConfig reads YAML or JSON, chosen by extension.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// timeout parses Timeout as a Go duration or a bare number of seconds.
func (fc FileConfig) timeout() (time.Duration, error) {
	s := strings.TrimSpace(fc.Timeout)
	if s == "" {
		return defaultTimeout, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(s + "s"); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("invalid timeout %q", fc.Timeout)
}
