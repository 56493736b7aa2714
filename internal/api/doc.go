// Package api provides the REST client for the share metrics backend.
//
// Endpoints (relative to the configured base URL):
//   - GET {base}/shares    JSON array of shares with their metrics
//   - GET {base}/anomalies JSON object mapping share name to anomaly text
//
// Failures are typed: NetworkError (transport), FetchError (non-2xx status)
// and ParseError (body does not match the expected shape).
package api
