package web

import (
	"bytes"
	"net/http"

	"github.com/joacominatel/askdb/internal/app"
	"github.com/joacominatel/askdb/internal/chart"
)

const (
	sessionName = "askdb"
	maxRows     = 200
)

type pageData struct {
	Database     string
	Question     string
	Chart        string
	Kinds        []chart.Kind
	Message      string
	Error        string
	SQL          string
	ChartHTML    string
	Columns      []string
	Rows         [][]string
	RowCount     int
	Truncated    bool
	ShowExamples bool
	Examples     []example
}

func (s *Server) newPage(question, kind string) *pageData {
	if kind == "" {
		kind = string(chart.KindBar)
	}
	return &pageData{
		Database: s.service.DatabaseName(),
		Question: question,
		Chart:    kind,
		Kinds:    chart.Kinds,
		Examples: Examples,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessionStore.Get(r, sessionName)
	question, _ := session.Values["question"].(string)
	kind, _ := session.Values["chart"].(string)

	page := s.newPage(question, kind)
	page.ShowExamples = true
	s.render(w, http.StatusOK, page)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	question := r.PostFormValue("question")
	kind := r.PostFormValue("chart")

	session, _ := s.sessionStore.Get(r, sessionName)
	session.Values["question"] = question
	session.Values["chart"] = kind
	if err := session.Save(r, w); err != nil {
		s.logger.WithError(err).Warn("failed to save session")
	}

	page := s.newPage(question, kind)
	answer, err := s.service.Ask(r.Context(), question, kind)
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		page.Error = app.Message(err)
	}

	if answer != nil {
		page.Message = answer.Message
		page.SQL = answer.SQL
		if answer.Result != nil && len(answer.Result.Columns) > 0 {
			rows := answer.Result.Strings()
			page.RowCount = len(rows)
			if len(rows) > maxRows {
				rows = rows[:maxRows]
				page.Truncated = true
			}
			page.Columns = answer.Result.Columns
			page.Rows = rows
		}
		if answer.Chart != nil {
			var buf bytes.Buffer
			if err := answer.Chart.WriteHTML(&buf); err != nil {
				s.logger.WithError(err).Error("failed to render chart")
				page.Error = "Error generating chart: " + err.Error()
			} else {
				page.ChartHTML = buf.String()
			}
		}
	}

	s.render(w, status, page)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := s.service.Schema(r.Context())
	if err != nil {
		http.Error(w, app.Message(err), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(schema.Render()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) render(w http.ResponseWriter, status int, page *pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		s.logger.WithError(err).Error("failed to render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	switch app.KindOf(err) {
	case app.KindConnectivity:
		return http.StatusServiceUnavailable
	case app.KindQuery:
		return http.StatusUnprocessableEntity
	case app.KindGeneration:
		return http.StatusBadGateway
	case app.KindChart:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}
