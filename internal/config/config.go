// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package config

import (
	"fmt"
	"strings"

	"github.com/ostafen/extractinator/internal/carve"
	"github.com/ostafen/extractinator/pkg/util/format"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "EXTRACTINATOR"

// Config is the merged view of defaults, config file, EXTRACTINATOR_* environment
// variables and command line flags, in increasing order of precedence.
type Config struct {
	OutputDir  string   `mapstructure:"output_dir"`
	Report     string   `mapstructure:"report"`
	LogLevel   string   `mapstructure:"log_level"`
	LogFile    string   `mapstructure:"log_file"`
	NoLog      bool     `mapstructure:"no_log"`
	Signatures []string `mapstructure:"signatures"`
	Matcher    string   `mapstructure:"matcher"`
	MaxSize    string   `mapstructure:"max_size"`
	Jobs       int      `mapstructure:"jobs"`
	NoProgress bool     `mapstructure:"no_progress"`
}

var defaults = map[string]any{
	"output_dir":  ".",
	"report":      "",
	"log_level":   "INFO",
	"log_file":    "",
	"no_log":      false,
	"signatures":  []string{},
	"matcher":     "prefix",
	"max_size":    "",
	"jobs":        1,
	"no_progress": false,
}

// Load builds the configuration. flags may be nil; configFile may be empty.
// Flag names are the keys with dashes instead of underscores.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configFile, err)
		}
	}

	if flags != nil {
		for key := range defaults {
			flag := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be greater than 0, got %d", c.Jobs)
	}
	if _, err := carve.ParseMatcher(c.Matcher); err != nil {
		return err
	}
	if _, err := c.MaxSizeBytes(); err != nil {
		return fmt.Errorf("invalid max_size: %w", err)
	}
	return nil
}

// MaxSizeBytes returns the artifact size limit, 0 meaning unlimited.
func (c *Config) MaxSizeBytes() (uint64, error) {
	if c.MaxSize == "" {
		return 0, nil
	}
	return format.ParseBytes(c.MaxSize)
}

func (c *Config) CarveMatcher() carve.Matcher {
	m, _ := carve.ParseMatcher(c.Matcher)
	return m
}
