package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/askdb/internal/app"
	"github.com/joacominatel/askdb/internal/chart"
	"github.com/joacominatel/askdb/internal/database"
)

type fakeAsker struct {
	answer  *app.Answer
	err     error
	pingErr error
	schema  *database.Schema

	question string
	kind     string
}

func (f *fakeAsker) Ask(_ context.Context, question, kind string) (*app.Answer, error) {
	f.question, f.kind = question, kind
	return f.answer, f.err
}

func (f *fakeAsker) Schema(context.Context) (*database.Schema, error) {
	if f.schema == nil {
		return nil, &app.ErrConnection{Cause: errors.New("refused")}
	}
	return f.schema, nil
}

func (f *fakeAsker) Ping(context.Context) error { return f.pingErr }

func (f *fakeAsker) DatabaseName() string { return "sales" }

func newTestServer(t *testing.T, asker *fakeAsker) http.Handler {
	t.Helper()
	logger, _ := test.NewNullLogger()
	srv, err := NewServer(Config{Service: asker, Port: 0, Logger: logger})
	require.NoError(t, err)
	return srv.Handler()
}

func postAsk(h http.Handler, question, kind string) *httptest.ResponseRecorder {
	form := url.Values{"question": {question}, "chart": {kind}}
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func barAnswer(t *testing.T) *app.Answer {
	t.Helper()
	result := &database.QueryResult{
		Columns:  []string{"region", "total_sales"},
		Rows:     [][]any{{"north", 10.0}, {"south", 20.0}},
		RowCount: 2,
	}
	c, err := chart.Render(result, "bar")
	require.NoError(t, err)
	return &app.Answer{
		Question:  "Show me total sales by region",
		ChartKind: "bar",
		SQL:       "SELECT region, SUM(amount) AS total_sales FROM orders GROUP BY region;",
		Result:    result,
		Chart:     c,
	}
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, &fakeAsker{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Data Analysis Assistant")
	assert.Contains(t, body, "How many unique customers do we have?")
	assert.Contains(t, body, `<option value="scatter">`)
	assert.Contains(t, body, "sales")
}

func TestAsk_Chart(t *testing.T) {
	asker := &fakeAsker{answer: barAnswer(t)}
	h := newTestServer(t, asker)

	rec := postAsk(h, "Show me total sales by region", "bar")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Show me total sales by region", asker.question)
	assert.Equal(t, "bar", asker.kind)

	body := rec.Body.String()
	assert.Contains(t, body, "<iframe")
	assert.Contains(t, body, "GROUP BY region")
	assert.Contains(t, body, "<th>total_sales</th>")
	assert.Contains(t, body, "<td>north</td>")
	assert.NotContains(t, body, "Examples")
}

func TestAsk_Message(t *testing.T) {
	asker := &fakeAsker{answer: &app.Answer{Message: app.MsgNoData, SQL: "SELECT 1;"}}
	h := newTestServer(t, asker)

	rec := postAsk(h, "anything", "line")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), app.MsgNoData)
	assert.NotContains(t, rec.Body.String(), "<iframe")
}

func TestAsk_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"connectivity", &app.ErrConnection{Cause: errors.New("refused")}, http.StatusServiceUnavailable},
		{"query", &app.ErrQuery{Query: "SELECT", Cause: errors.New("syntax")}, http.StatusUnprocessableEntity},
		{"generation", &app.ErrGeneration{Cause: errors.New("timeout")}, http.StatusBadGateway},
		{"chart", &app.ErrChart{Cause: chart.ErrTooFewColumns}, http.StatusOK},
		{"config", &app.ErrConfig{Cause: errors.New("bad driver")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, &fakeAsker{answer: &app.Answer{}, err: tt.err})

			rec := postAsk(h, "q", "bar")

			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `class="error"`)
		})
	}
}

func TestAsk_RemembersQuestion(t *testing.T) {
	h := newTestServer(t, &fakeAsker{answer: &app.Answer{Message: "ok"}})

	rec := postAsk(h, "How many unique customers?", "scatter")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, `value="How many unique customers?"`)
	assert.Contains(t, body, `<option value="scatter" selected>`)
}

func TestSchema(t *testing.T) {
	schema := &database.Schema{Tables: []database.Table{{
		Name:    "orders",
		Columns: []database.Column{{Name: "id", DataType: "integer"}},
	}}}
	h := newTestServer(t, &fakeAsker{schema: schema})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, schema.Render(), rec.Body.String())

	h = newTestServer(t, &fakeAsker{})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &fakeAsker{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	h = newTestServer(t, &fakeAsker{pingErr: errors.New("down")})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
