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

package classifier

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// DefaultMmapThreshold is the file size, in bytes, at which CountFile
// switches from buffered reads to a read-only memory map.
const DefaultMmapThreshold = 4 << 20 // 4 MiB

// SourceOptions controls how CountFile delivers file bytes to the
// classifier. The zero value means "buffered reads with the default
// memory-map threshold".
type SourceOptions struct {
	// DisableMmap forces buffered reads regardless of file size.
	DisableMmap bool

	// MmapThreshold overrides DefaultMmapThreshold when positive.
	MmapThreshold int64
}

func (o SourceOptions) threshold() int64 {
	if o.MmapThreshold > 0 {
		return o.MmapThreshold
	}
	return DefaultMmapThreshold
}

// CountFile opens path and classifies its content. Files at or above the
// memory-map threshold are mapped read-only; smaller files go through a
// buffered reader. Both paths produce identical counts for identical
// content.
//
// An open, stat, or read failure is returned to the caller; the pipeline
// decides whether to record it or drop the file.
func CountFile(path string, m Markers, opts SourceOptions) (FileCounts, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileCounts{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FileCounts{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.Size() == 0 {
		return OneFile(), nil
	}

	if !opts.DisableMmap && info.Size() >= opts.threshold() {
		if counts, ok := countMapped(f, m); ok {
			return counts, nil
		}
		// Mapping can fail on exotic filesystems; fall through to the
		// buffered path rather than reporting the file as unreadable.
	}

	counts, err := Count(f, m)
	if err != nil {
		return FileCounts{}, fmt.Errorf("read %s: %w", path, err)
	}
	return counts, nil
}

func countMapped(f *os.File, m Markers) (FileCounts, bool) {
	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return FileCounts{}, false
	}
	defer mapped.Unmap()
	return CountBytes(mapped, m), true
}
