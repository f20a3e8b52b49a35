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
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressThrottle keeps redraws off the hot path of the scan workers.
const progressThrottle = 65 * time.Millisecond

// ProgressConfig determines if and how progress is displayed.
type ProgressConfig struct {
	// Enabled is false under --quiet, under --json (which forces quiet),
	// and whenever stderr is not a TTY. --progress overrides the TTY check.
	Enabled bool

	// Writer is where progress output goes, always os.Stderr so stdout
	// stays parseable.
	Writer io.Writer

	// NoColor disables color codes in the bar.
	NoColor bool
}

// NewProgressConfig derives the progress gating from the global flags
// plus TTY detection on stderr.
func NewProgressConfig(globals GlobalFlags) ProgressConfig {
	return ProgressConfig{
		Enabled: !globals.Quiet && isatty.IsTerminal(os.Stderr.Fd()),
		Writer:  os.Stderr,
		NoColor: globals.NoColor,
	}
}

// baseOptions is the styling every bar and spinner shares.
func (cfg ProgressConfig) baseOptions(description string) []progressbar.Option {
	return []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(cfg.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(!cfg.NoColor),
		progressbar.OptionThrottle(progressThrottle),
	}
}

// NewProgressBar builds a determinate bar for work with a known total.
// Returns nil when progress is disabled; callers nil-check before Add.
func NewProgressBar(cfg ProgressConfig, total int64, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}
	opts := append(cfg.baseOptions(description),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return progressbar.NewOptions64(total, opts...)
}

// NewSpinner builds an indeterminate spinner for work without a known
// total, like the filesystem walk. Returns nil when progress is disabled.
func NewSpinner(cfg ProgressConfig, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}
	opts := append(cfg.baseOptions(description),
		progressbar.OptionSpinnerType(14),
	)
	return progressbar.NewOptions(-1, opts...)
}
