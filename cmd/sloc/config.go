// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/sloc/internal/errors"
)

// DefaultConfigPath is where LoadConfig looks when --config is not given.
const DefaultConfigPath = ".sloc.yaml"

// Config is the optional .sloc.yaml project configuration. Every field
// is a default; command-line flags always win.
//
// Example:
//
//	workers: 8
//	extensions: [go, proto]
//	exclude:
//	  - "vendor/**"
//	  - "**/*_generated.go"
//	skip_empty: true
//	diff:
//	  base: main
//	  max_code_added: 500
type Config struct {
	// Workers sizes the scan worker pool. Zero means one per CPU.
	Workers int `yaml:"workers"`

	// Extensions restricts scans to these extensions (no dots needed).
	Extensions []string `yaml:"extensions"`

	// Exclude holds glob patterns pruned from every scan.
	Exclude []string `yaml:"exclude"`

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// SkipEmpty drops zero-byte files.
	SkipEmpty bool `yaml:"skip_empty"`

	// NoMmap forces buffered reads for files of any size.
	NoMmap bool `yaml:"no_mmap"`

	// MmapThreshold overrides the size at which files are memory-mapped.
	MmapThreshold int64 `yaml:"mmap_threshold"`

	// Diff holds defaults for the diff command.
	Diff DiffConfig `yaml:"diff"`
}

// DiffConfig is the diff section of .sloc.yaml.
type DiffConfig struct {
	// Base is the default base revision (flag --base still wins).
	Base string `yaml:"base"`

	// MaxCodeAdded caps total added code lines.
	MaxCodeAdded int64 `yaml:"max_code_added"`

	// MaxTotalChanged caps the absolute net line movement.
	MaxTotalChanged int64 `yaml:"max_total_changed"`

	// MaxFiles caps the number of changed files.
	MaxFiles int64 `yaml:"max_files"`
}

// LoadConfig reads the configuration at path, or DefaultConfigPath when
// path is empty. A missing default file is not an error; a missing
// explicit --config path is.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, errors.NewConfigError(
			"Cannot read configuration file",
			"Failed to read "+path,
			"Check that the file exists and is readable, or drop --config to use defaults",
			err,
		)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid configuration file",
			path+" is not valid YAML",
			"Fix the YAML syntax or regenerate the file",
			err,
		)
	}
	return &cfg, nil
}
