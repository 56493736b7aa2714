// Package display holds the dashboard's single rendered table.
//
// The Surface is written only by the poll loop, after a cycle in which both
// backend reads succeeded. Readers (the HTML page, the WebSocket feed, the
// health endpoint) get copies; subscribers are notified of each replacement.
package display
