package web

import "html/template"

type example struct {
	Question string
	Chart    string
}

// Examples are suggested on the empty form.
var Examples = []example{
	{"Show me total sales by region", "bar"},
	{"What is the monthly revenue trend for 2023?", "line"},
	{"What are the top 5 sales reps by total revenue?", "bar"},
	{"What is the total revenue for all time?", "bar"},
	{"Compare sales performance across different regions", "bar"},
	{"Show me the distribution of order sizes by industry", "scatter"},
	{"What's the average deal size by account tier?", "bar"},
	{"How many unique customers do we have?", "bar"},
	{"Show me daily order counts for the last month", "line"},
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Data Analysis Assistant</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 1000px; margin: 2rem auto; padding: 0 1rem; color: #222; }
form { display: flex; gap: .5rem; margin-bottom: 1rem; }
input[type=text] { flex: 1; padding: .5rem; }
select, button { padding: .5rem; }
.message { padding: .75rem; background: #f3f3f7; border-radius: 4px; }
.error { padding: .75rem; background: #fde8e8; color: #9b1c1c; border-radius: 4px; }
pre { background: #f7f7f7; padding: .75rem; overflow-x: auto; }
iframe { width: 100%; height: 520px; border: 0; }
table { border-collapse: collapse; font-size: .9rem; }
td, th { border: 1px solid #ddd; padding: .25rem .5rem; }
.muted { color: #777; font-size: .85rem; }
</style>
</head>
<body>
<h1>Data Analysis Assistant</h1>
<p class="muted">Ask questions about your data in natural language{{if .Database}} &middot; {{.Database}}{{end}}</p>
<form method="post" action="/ask">
  <input type="text" name="question" value="{{.Question}}" placeholder="e.g., Show me total sales by region" autofocus>
  <select name="chart">
  {{- range .Kinds}}
    <option value="{{.}}"{{if eq . $.Chart}} selected{{end}}>{{.}}</option>
  {{- end}}
  </select>
  <button type="submit">Ask</button>
</form>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{if .Message}}<div class="message">{{.Message}}</div>{{end}}
{{if .ChartHTML}}<iframe title="Visualization" srcdoc="{{.ChartHTML}}"></iframe>{{end}}
{{if .SQL}}<h3>SQL</h3><pre>{{.SQL}}</pre>{{end}}
{{if .Columns}}
<h3>Rows <span class="muted">({{.RowCount}}{{if .Truncated}}, first {{len .Rows}} shown{{end}})</span></h3>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</table>
{{end}}
{{if .ShowExamples}}
<h3>Examples</h3>
<ul>
{{range .Examples}}<li>{{.Question}} <span class="muted">({{.Chart}})</span></li>{{end}}
</ul>
{{end}}
</body>
</html>
`))
