package present

import (
	"html/template"
	"io"

	"github.com/glorpus-work/permfix/pkg/fsutil"
	"github.com/glorpus-work/permfix/pkg/report"
)

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"perm": fsutil.PermString,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>permfix: {{.Root}}</title></head>
<body>
<h1>Permission report for <code>{{.Root}}</code>{{if .Report.DryRun}} (dry-run){{end}}</h1>
<table>
<tr><th>Path</th><th>Previous</th><th>New</th></tr>
{{- range .Report.Changes}}
<tr><td><code>{{.Path}}</code></td><td>{{perm .Previous}}</td><td>{{perm .New}}</td></tr>
{{- end}}
</table>
{{- if .Report.Errors}}
<h2>Errors</h2>
<ul>
{{- range .Report.Errors}}
<li><strong>{{.Op}}</strong> <code>{{.Path}}</code>: {{.Err}}</li>
{{- end}}
</ul>
{{- end}}
<p>Directories fixed: {{.Report.Stats.DirectoriesFixed}} | Files fixed: {{.Report.Stats.FilesFixed}} | Skipped: {{.Report.Stats.Skipped}} | Errors: {{.Report.Stats.Errors}} | Ownership: {{.Report.Stats.OwnershipApplied}}</p>
<hr>
<p>For advanced usage run from a shell: <code>permfix fix --dry-run {{.Root}}</code></p>
</body>
</html>
`))

// HTML renders the report as a standalone HTML page.
type HTML struct{}

// Render implements Presenter.
func (HTML) Render(w io.Writer, root string, r *report.Report) error {
	return htmlTemplate.Execute(w, struct {
		Root   string
		Report *report.Report
	}{Root: root, Report: r})
}
