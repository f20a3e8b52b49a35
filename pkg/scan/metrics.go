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

package scan

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsScan holds Prometheus metrics for the scan subsystem.
type metricsScan struct {
	once sync.Once

	filesScanned prometheus.Counter
	filesIgnored prometheus.Counter
	filesEmpty   prometheus.Counter
	fileErrors   prometheus.Counter
	linesCounted prometheus.Counter

	scanDuration prometheus.Histogram
}

var scanMetrics metricsScan

func (m *metricsScan) init() {
	m.once.Do(func() {
		m.filesScanned = prometheus.NewCounter(prometheus.CounterOpts{Name: "sloc_scan_files_total", Help: "Archivos procesados por el pipeline"})
		m.filesIgnored = prometheus.NewCounter(prometheus.CounterOpts{Name: "sloc_scan_files_ignored_total", Help: "Archivos sin lenguaje resoluble o filtrados por tamaño"})
		m.filesEmpty = prometheus.NewCounter(prometheus.CounterOpts{Name: "sloc_scan_files_empty_total", Help: "Archivos vacíos descartados"})
		m.fileErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "sloc_scan_file_errors_total", Help: "Errores de lectura por archivo"})
		m.linesCounted = prometheus.NewCounter(prometheus.CounterOpts{Name: "sloc_scan_lines_total", Help: "Líneas clasificadas en total"})

		m.scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sloc_scan_seconds",
			Help:    "Duración de cada escaneo completo",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		})

		prometheus.MustRegister(
			m.filesScanned, m.filesIgnored, m.filesEmpty, m.fileErrors, m.linesCounted,
			m.scanDuration,
		)
	})
}

// recordScan folds one finished scan into the process metrics.
func recordScan(result *Result) {
	scanMetrics.init()
	scanMetrics.filesScanned.Add(float64(result.Stats.FilesSeen))
	scanMetrics.filesIgnored.Add(float64(result.Stats.Ignored))
	scanMetrics.filesEmpty.Add(float64(result.Stats.Empty))
	scanMetrics.fileErrors.Add(float64(result.Stats.Errors))
	scanMetrics.linesCounted.Add(float64(result.Total.Total))
	scanMetrics.scanDuration.Observe(result.Stats.Elapsed.Seconds())
}
