package render

import (
	"html/template"
	"io"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
)

var cardsTemplate = template.Must(template.New("cards").Funcs(template.FuncMap{
	"score": analysis.FormatScore,
}).Parse(`{{range .Notices}}
<div class="notice">{{.}}</div>{{end}}{{range .Tasks}}
<div class="task-card {{.Priority.Tag}}">
    <span class="priority-badge {{.Priority.Tag}}">{{.Priority.Tier}}</span>
    <h3>{{.Title}}</h3>
    <p>Due date: {{.DueDate}}</p>
    <p>Estimated hours: {{with .EstimatedHours}}{{score .}}{{else}}-{{end}}</p>
    <p>Importance: {{with .Importance}}{{score .}}{{else}}-{{end}}</p>
    <p class="description">{{.Summary}}</p>
</div>{{else}}
<p style="text-align: center; color: #888;">No tasks provided for analysis.</p>{{end}}
`))

// HTML writes the notices followed by one card per task in the order given. Titles,
// notices and other user text are escaped.
func HTML(w io.Writer, tasks []analysis.ScoredTask, notices []string) error {
	return cardsTemplate.Execute(w, struct {
		Tasks   []analysis.ScoredTask
		Notices []string
	}{tasks, notices})
}
