package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/routeregistry/internal/util"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

const escapedDollar = "\x00ESCAPED_DOLLAR\x00"

// LoadConfig reads, substitutes and decodes the configuration file at path.
// Unset settings are filled with defaults.
func LoadConfig(path string) (*GatewayConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("", fmt.Sprintf("failed to resolve path %s", path), err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, util.NewConfigErrorWithCause("", fmt.Sprintf("failed to read config file %s", path), err)
	}

	return parseConfig(data)
}

// LoadConfigFromReader decodes a configuration document from r.
func LoadConfigFromReader(r io.Reader) (*GatewayConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("", "failed to read config", err)
	}

	return parseConfig(data)
}

func parseConfig(data []byte) (*GatewayConfig, error) {
	content := substituteEnvVars(string(data))

	var cfg GatewayConfig
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, util.NewConfigErrorWithCause("", "failed to parse YAML", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} with environment
// values. "$$" is an escaped literal dollar sign.
func substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", escapedDollar)

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		if value, ok := os.LookupEnv(sub[1]); ok {
			return value
		}
		if len(sub) >= 3 {
			return sub[2]
		}
		return ""
	})

	return strings.ReplaceAll(result, escapedDollar, "$")
}
