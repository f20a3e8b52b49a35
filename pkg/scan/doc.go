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

// Package scan walks directory trees and aggregates per-language line
// counts over a worker pool.
//
// Enumeration runs in the calling goroutine and feeds a fixed pool of
// workers, one task per file. Each worker accumulates counts in a local
// map and merges it into the shared aggregate exactly once, when its
// share of the work is done; the hot path touches only lock-free atomic
// counters. Because the merge is commutative and associative, the final
// aggregate does not depend on worker count or scheduling order.
//
// Individual unreadable files never abort a scan. Only a missing or
// inaccessible root path is fatal.
package scan
