package server

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rickgao/share-dashboard/internal/render"
	"github.com/rickgao/share-dashboard/internal/version"
)

var pageFuncs = template.FuncMap{
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return humanize.Time(t)
	},
}

type pageData struct {
	TableID   string
	Columns   []string
	Body      template.HTML
	UpdatedAt time.Time
	Version   string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		TableID: s.cfg.TableID,
		Columns: render.Columns,
		Body:    template.HTML(render.Table{}.HTML()),
		Version: version.String(),
	}
	if f, ok := s.surface.Current(); ok {
		// Frame HTML is built with every cell escaped.
		data.Body = template.HTML(f.HTML)
		data.UpdatedAt = f.UpdatedAt
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("render page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Storage Shares</title>
  <style>
    body { font-family: sans-serif; margin: 2em; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #ddd; padding: 4px 8px; text-align: right; }
    th:first-child, td:first-child, td.ok, td.alert { text-align: left; }
    td.ok { color: #3c763d; }
    td.alert { color: #a94442; background: #f2dede; }
    footer { color: #777; font-size: 12px; margin-top: 1em; }
  </style>
</head>
<body>
  <h1>Storage Shares</h1>
  <table id="{{.TableID}}">
    <thead>
      <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
    </thead>
    {{.Body}}
  </table>
  <footer>
    <span id="updated">updated {{ago .UpdatedAt}}</span> &middot; {{.Version}}
  </footer>
  <script>
    (function () {
      const tableID = {{.TableID}};
      const scheme = location.protocol === "https:" ? "wss://" : "ws://";

      function connect() {
        const ws = new WebSocket(scheme + location.host + "/ws");
        ws.onmessage = function (ev) {
          const frame = JSON.parse(ev.data);
          const table = document.getElementById(tableID);
          if (!table || table.tBodies.length === 0) return;
          table.tBodies[0].outerHTML = frame.html;
          document.getElementById("updated").textContent =
            "updated " + new Date(frame.updated_at).toLocaleTimeString();
        };
        ws.onclose = function () { setTimeout(connect, 5000); };
      }

      connect();
    })();
  </script>
</body>
</html>
`
