package render

import (
	"html"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/rickgao/share-dashboard/internal/model"
)

// Status is the visual state of a row's status cell.
type Status string

const (
	StatusOK    Status = "ok"
	StatusAlert Status = "alert"
)

// AlertGlyph prefixes anomaly text in the status cell.
const AlertGlyph = "⚠"

// Columns lists the header of every rendered table, in cell order.
var Columns = []string{"name", "quotaGB", "iops", "bandwidthMiB", "latencyMs", "transactions", "status"}

// Row is one rendered share.
type Row struct {
	Cells  []string `json:"cells"`
	Status Status   `json:"status"`
}

// StatusText returns the text of the status cell.
func (r Row) StatusText() string {
	return r.Cells[len(r.Cells)-1]
}

// Table is the fully rendered share table.
type Table struct {
	Rows []Row `json:"rows"`
}

// Build renders shares in input order, deriving each status cell from anomalies.
func Build(shares []model.Share, anomalies model.AnomalyMap) Table {
	rows := make([]Row, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, buildRow(s, anomalies))
	}
	return Table{Rows: rows}
}

func buildRow(s model.Share, anomalies model.AnomalyMap) Row {
	cells := []string{
		s.Name,
		FormatFixed(s.QuotaGB, 1),
		FormatFixed(s.IOPS, 1),
		FormatFixed(s.BandwidthMiB, 1),
		FormatFixed(s.LatencyMs, 1),
		FormatFixed(s.Transactions, 0),
	}

	if desc, ok := anomalies.Lookup(s.Name); ok {
		return Row{Cells: append(cells, AlertGlyph+" "+desc), Status: StatusAlert}
	}
	return Row{Cells: append(cells, "OK"), Status: StatusOK}
}

// Alerts counts rows in the alert state.
func (t Table) Alerts() int {
	n := 0
	for _, r := range t.Rows {
		if r.Status == StatusAlert {
			n++
		}
	}
	return n
}

// HTML returns the table body markup. Identical tables yield identical bytes.
func (t Table) HTML() string {
	var b strings.Builder
	b.WriteString("<tbody>\n")
	for _, r := range t.Rows {
		b.WriteString("<tr>")
		last := len(r.Cells) - 1
		for i, cell := range r.Cells {
			if i == last {
				b.WriteString(`<td class="`)
				b.WriteString(string(r.Status))
				b.WriteString(`">`)
			} else {
				b.WriteString("<td>")
			}
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>")
	return b.String()
}

// WriteHTML writes the table body markup to w.
func (t Table) WriteHTML(w io.Writer) error {
	_, err := io.WriteString(w, t.HTML())
	return err
}

// WriteText writes the table as a boxed plain-text grid for terminals.
func (t Table) WriteText(w io.Writer) error {
	tw := table.NewWriter()
	header := make(table.Row, 0, len(Columns))
	for _, c := range Columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)
	tw.SetStyle(table.StyleLight)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, r := range t.Rows {
		row := make(table.Row, 0, len(r.Cells))
		for _, c := range r.Cells {
			row = append(row, c)
		}
		tw.AppendRow(row)
	}

	_, err := io.WriteString(w, tw.Render()+"\n")
	return err
}
