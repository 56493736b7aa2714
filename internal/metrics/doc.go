// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Poll cycle outcomes and durations
//   - Fetch failures by resource and error kind
//   - Rendered row and alert counts
//   - Live dashboard viewers
package metrics
