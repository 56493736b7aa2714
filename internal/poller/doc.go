// Package poller implements the dashboard Poll Loop.
//
// The Poll Loop:
//   - Runs one cycle immediately on start, then every interval (default 60s)
//   - Reads shares and anomalies concurrently and joins on both
//   - Renders and replaces the displayed table only when both reads succeed
//   - Logs and counts failed cycles, leaving the displayed table untouched
//   - Serializes cycles; each is bounded by a timeout no longer than the interval
package poller
