// Package render builds the share table shown on the dashboard.
//
// A Table is rebuilt from scratch for every successful poll cycle:
//   - One row per share, in the order the backend returned them
//   - Seven cells per row: name, quotaGB, iops, bandwidthMiB, latencyMs, transactions, status
//   - Metrics use one decimal place, transactions none
//   - The status cell is "OK" or a warning glyph plus the anomaly text
package render
