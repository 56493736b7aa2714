// Package server exposes the dashboard's display surface over HTTP.
//
// Routes:
//
//	GET /           HTML page with the share table and a live-update script
//	GET /ws         WebSocket feed; one message per rendered table
//	GET /api/table  current table as JSON
//	GET /health     poll loop status
//	GET /metrics    Prometheus exposition (optional)
//
// The server only reads the Surface. It never triggers a poll.
package server
