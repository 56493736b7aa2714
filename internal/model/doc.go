// Package model defines shared data types used across the share dashboard.
//
// Conventions:
//   - Shares are keyed by name; the name is also the display key
//   - Metrics are float64 as delivered by the backend (quota in GB, bandwidth in MiB/s)
//   - Cycle IDs: uuid.UUID, one per poll cycle
package model
