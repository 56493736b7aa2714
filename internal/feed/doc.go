// Package feed defines the live table feed served on /ws and a client for it.
//
// Each Message carries one complete rendered table. The client:
//   - Dials the dashboard's WebSocket endpoint
//   - Decodes every frame into a Message
//   - Reports a stale connection when the server stops pinging
package feed
