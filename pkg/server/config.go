// Copyright 2024 The LykiaDB Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server implements §5/§6: a TCP listener accepting one connection
// per cooperative task, each running the sequential read-interpret-write
// loop over pkg/protocol and pkg/session.
package server

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is the server's YAML-loadable configuration: a flat table of
// named fields, each with an explicit default.
type Config struct {
	Addr           string `yaml:"addr"`
	MaxConnections int    `yaml:"max_connections"`
	LSMBlockSize   int    `yaml:"lsm_block_size"`
	LogLevel       string `yaml:"log_level"`
}

// DefaultAddr is the listener address when none is configured (§6).
const DefaultAddr = "0.0.0.0:19191"

const (
	defaultMaxConnections = 1000
	defaultLSMBlockSize   = 4096
	defaultLogLevel       = "info"
)

// NewConfig returns a Config with every field defaulted.
func NewConfig() Config {
	return Config{
		Addr:           DefaultAddr,
		MaxConnections: defaultMaxConnections,
		LSMBlockSize:   defaultLSMBlockSize,
		LogLevel:       defaultLogLevel,
	}
}

// LoadConfig reads path as YAML, applying defaults first so a partial file
// only overrides the fields it sets.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config file %q", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing config YAML")
	}
	return cfg.withDefaults(), nil
}

// withDefaults fills in any field a YAML file left at its zero value.
func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = defaultMaxConnections
	}
	if c.LSMBlockSize <= 0 {
		c.LSMBlockSize = defaultLSMBlockSize
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	return c
}
