// Copyright 2025 The OldMan Authors. All rights reserved.
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

// Package config holds the mapper's runtime settings and their JSON file
// representation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything the serve command needs: where to listen,
// which SPARQL endpoint backs the store and how resource IRIs are formed.
type Config struct {
	ListenHost string
	ListenPort string
	Endpoint   string
	BaseIRI    string
	ReadOnly   bool
	Timeout    time.Duration
	CacheSize  int
}

type config struct {
	ListenHost string   `json:"listen_host"`
	ListenPort string   `json:"listen_port"`
	Endpoint   string   `json:"endpoint"`
	BaseIRI    string   `json:"base_iri"`
	ReadOnly   bool     `json:"read_only"`
	Timeout    duration `json:"timeout"`
	CacheSize  int      `json:"cache_size"`
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var t config
	err := json.Unmarshal(data, &t)
	if err != nil {
		return err
	}
	*c = Config{
		ListenHost: t.ListenHost,
		ListenPort: t.ListenPort,
		Endpoint:   t.Endpoint,
		BaseIRI:    t.BaseIRI,
		ReadOnly:   t.ReadOnly,
		Timeout:    time.Duration(t.Timeout),
		CacheSize:  t.CacheSize,
	}
	return nil
}

func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(config{
		ListenHost: c.ListenHost,
		ListenPort: c.ListenPort,
		Endpoint:   c.Endpoint,
		BaseIRI:    c.BaseIRI,
		ReadOnly:   c.ReadOnly,
		Timeout:    duration(c.Timeout),
		CacheSize:  c.CacheSize,
	})
}

// duration is a time.Duration that satisfies the
// json.UnMarshaler and json.Marshaler interfaces.
type duration time.Duration

// UnmarshalJSON unmarshals a duration according to the following scheme:
//   - If the element is absent the duration is zero.
//   - If the element is parsable as a time.Duration, the parsed value is kept.
//   - If the element is parsable as a number, that number of seconds is kept.
func (d *duration) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		*d = 0
		return nil
	}
	text := string(data)
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = unquoted
	}
	t, err := time.ParseDuration(text)
	if err == nil {
		*d = duration(t)
		return nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		*d = duration(time.Duration(i) * time.Second)
		return nil
	}
	// This hack is to get around strconv.ParseFloat
	// not handling e-notation for integers.
	f, err := strconv.ParseFloat(text, 64)
	*d = duration(time.Duration(f) * time.Second)
	return err
}

func (d duration) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Duration(d))), nil
}

// Defaults returns a config with the built-in fallbacks applied.
func Defaults() *Config {
	return &Config{
		ListenHost: "127.0.0.1",
		ListenPort: "64220",
		BaseIRI:    "http://localhost:64220",
		Timeout:    30 * time.Second,
		CacheSize:  1024,
	}
}

// Load reads a JSON config file and fills unset values with the defaults.
// An empty filename returns the defaults unchanged.
func Load(filename string) (*Config, error) {
	cfg := &Config{}
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot open config file %q: %w", filename, err)
		}
		defer f.Close()
		dec := json.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("cannot read config file %q: %w", filename, err)
		}
	}
	def := Defaults()
	if cfg.ListenHost == "" {
		cfg.ListenHost = def.ListenHost
	}
	if cfg.ListenPort == "" {
		cfg.ListenPort = def.ListenPort
	}
	if cfg.BaseIRI == "" {
		cfg.BaseIRI = def.BaseIRI
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = def.CacheSize
	}
	return cfg, nil
}
