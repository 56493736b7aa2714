package feed

import (
	"time"

	"github.com/rickgao/share-dashboard/internal/display"
	"github.com/rickgao/share-dashboard/internal/render"
)

// Message is one live-feed frame.
type Message struct {
	CycleID   string          `json:"cycle_id"`
	UpdatedAt time.Time       `json:"updated_at"`
	HTML      string          `json:"html"` // Replacement <tbody>
	Rows      [][]string      `json:"rows"`
	States    []render.Status `json:"states"`
	Alerts    int             `json:"alerts"`
}

// NewMessage builds the wire form of a frame.
func NewMessage(f display.Frame) Message {
	m := Message{
		CycleID:   f.CycleID.String(),
		UpdatedAt: f.UpdatedAt.UTC(),
		HTML:      f.HTML,
		Rows:      make([][]string, 0, len(f.Table.Rows)),
		States:    make([]render.Status, 0, len(f.Table.Rows)),
		Alerts:    f.Table.Alerts(),
	}
	for _, r := range f.Table.Rows {
		m.Rows = append(m.Rows, r.Cells)
		m.States = append(m.States, r.Status)
	}
	return m
}

// Table rebuilds the rendered table carried by the message.
func (m Message) Table() render.Table {
	rows := make([]render.Row, 0, len(m.Rows))
	for i, cells := range m.Rows {
		status := render.StatusOK
		if i < len(m.States) {
			status = m.States[i]
		}
		rows = append(rows, render.Row{Cells: cells, Status: status})
	}
	return render.Table{Rows: rows}
}
