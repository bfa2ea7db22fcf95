package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/askdb/internal/chart"
	"github.com/joacominatel/askdb/internal/database"
	"github.com/joacominatel/askdb/internal/sqlgen"
)

const catalogSQL = "SELECT catalog"

type mockDriver struct {
	mock    sqlmock.Sqlmock
	session *database.Session
	openErr error
}

func newMockDriver(t *testing.T) *mockDriver {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &mockDriver{
		mock:    mock,
		session: database.NewSession(db, database.SessionOptions{Catalog: catalogSQL}),
	}
}

func (d *mockDriver) Name() string { return "postgres" }

func (d *mockDriver) Open(context.Context, string) (*database.Session, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.session, nil
}

func (d *mockDriver) expectCatalog() {
	rows := sqlmock.NewRows([]string{"table_name", "column_name", "data_type", "is_nullable", "fk_table", "fk_column"}).
		AddRow("orders", "region", "text", "YES", nil, nil).
		AddRow("orders", "total", "numeric", "NO", nil, nil)
	d.mock.ExpectQuery(catalogSQL).WillReturnRows(rows)
}

type fakeGenerator struct {
	result      sqlgen.Result
	err         error
	gotSchema   string
	gotQuestion string
}

func (g *fakeGenerator) Generate(_ context.Context, question, schemaText string) (sqlgen.Result, error) {
	g.gotQuestion = question
	g.gotSchema = schemaText
	return g.result, g.err
}

func newTestService(drv *mockDriver, gen *fakeGenerator) *Service {
	log, _ := test.NewNullLogger()
	s := NewService(Options{
		Drivers:   map[string]database.Driver{"postgres": drv},
		Generator: gen,
		Logger:    log,
	})
	s.SetTarget(Target{Driver: "postgres", DSN: "postgresql://localhost/sales", Name: "sales"})
	return s
}

func TestService_Ask(t *testing.T) {
	const query = "SELECT region, SUM(total) AS total FROM orders GROUP BY region"

	tests := []struct {
		name      string
		kind      string
		rows      *sqlmock.Rows
		wantText  string
		wantChart bool
		wantKind  ErrorKind
	}{
		{
			name:      "several rows become a chart",
			kind:      "bar",
			rows:      sqlmock.NewRows([]string{"region", "total"}).AddRow("east", int64(10)).AddRow("west", int64(20)),
			wantChart: true,
		},
		{
			name:     "single value is text",
			kind:     "bar",
			rows:     sqlmock.NewRows([]string{"count"}).AddRow(int64(42)),
			wantText: "count: 42",
		},
		{
			name:     "single row is a key value list",
			kind:     "line",
			rows:     sqlmock.NewRows([]string{"region", "total"}).AddRow("east", int64(10)),
			wantText: "region: east, total: 10",
		},
		{
			name:     "no rows for any chart kind",
			kind:     "pie",
			rows:     sqlmock.NewRows([]string{"region", "total"}),
			wantText: MsgNoData,
		},
		{
			name:     "unsupported chart kind",
			kind:     "pie",
			rows:     sqlmock.NewRows([]string{"region", "total"}).AddRow("east", int64(10)).AddRow("west", int64(20)),
			wantKind: KindChart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv := newMockDriver(t)
			drv.expectCatalog()
			drv.mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(tt.rows)
			drv.mock.ExpectClose()
			gen := &fakeGenerator{result: sqlgen.SQL(query)}

			answer, err := newTestService(drv, gen).Ask(context.Background(), "  total by region ", tt.kind)

			require.NotNil(t, answer)
			assert.NotEmpty(t, answer.RequestID)
			assert.Equal(t, "total by region", gen.gotQuestion)
			assert.Contains(t, gen.gotSchema, "  - total numeric NOT NULL")
			assert.Equal(t, query, answer.SQL)
			require.NotNil(t, answer.Result)

			if tt.wantKind != KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				assert.ErrorIs(t, err, chart.ErrUnsupportedKind)
				assert.Contains(t, err.Error(), "pie")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantText, answer.Message)
			assert.Equal(t, tt.wantChart, answer.Chart != nil)
			assert.NoError(t, drv.mock.ExpectationsWereMet())
		})
	}
}

func TestService_AskUnsupported(t *testing.T) {
	drv := newMockDriver(t)
	drv.expectCatalog()
	drv.mock.ExpectClose()
	gen := &fakeGenerator{result: sqlgen.Unsupported("no weather table")}

	answer, err := newTestService(drv, gen).Ask(context.Background(), "weather?", "bar")
	require.NoError(t, err)
	assert.Equal(t, "no weather table", answer.Message)
	assert.Empty(t, answer.SQL)
	assert.Nil(t, answer.Result)
	assert.NoError(t, drv.mock.ExpectationsWereMet())
}

func TestService_AskErrors(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		drv := newMockDriver(t)
		drv.expectCatalog()
		drv.mock.ExpectClose()
		gen := &fakeGenerator{err: errors.New("ollama down")}

		_, err := newTestService(drv, gen).Ask(context.Background(), "q", "bar")
		assert.Equal(t, KindGeneration, KindOf(err))
		assert.Contains(t, err.Error(), "ollama down")
	})

	t.Run("query failure", func(t *testing.T) {
		drv := newMockDriver(t)
		drv.expectCatalog()
		drv.mock.ExpectQuery("SELECT nope").WillReturnError(errors.New(`column "nope" does not exist`))
		drv.mock.ExpectClose()
		gen := &fakeGenerator{result: sqlgen.SQL("SELECT nope")}

		answer, err := newTestService(drv, gen).Ask(context.Background(), "q", "bar")
		require.Error(t, err)
		assert.Equal(t, KindQuery, KindOf(err))
		var qerr *ErrQuery
		require.ErrorAs(t, err, &qerr)
		assert.Equal(t, "SELECT nope", qerr.Query)
		assert.Equal(t, "SELECT nope", answer.SQL)
	})

	t.Run("catalog failure", func(t *testing.T) {
		drv := newMockDriver(t)
		drv.mock.ExpectQuery(catalogSQL).WillReturnError(errors.New("permission denied"))
		drv.mock.ExpectClose()

		_, err := newTestService(drv, &fakeGenerator{}).Ask(context.Background(), "q", "bar")
		assert.Equal(t, KindQuery, KindOf(err))
	})

	t.Run("store unreachable", func(t *testing.T) {
		drv := newMockDriver(t)
		drv.openErr = errors.New("dial tcp: connection refused")

		_, err := newTestService(drv, &fakeGenerator{}).Ask(context.Background(), "q", "bar")
		assert.Equal(t, KindConnectivity, KindOf(err))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("not connected", func(t *testing.T) {
		log, _ := test.NewNullLogger()
		s := NewService(Options{Logger: log})
		_, err := s.Ask(context.Background(), "q", "bar")
		assert.Equal(t, KindConnectivity, KindOf(err))
	})

	t.Run("unknown driver", func(t *testing.T) {
		drv := newMockDriver(t)
		s := newTestService(drv, &fakeGenerator{})
		s.SetTarget(Target{Driver: "oracle", DSN: "x"})
		_, err := s.Ask(context.Background(), "q", "bar")
		assert.Equal(t, KindConfig, KindOf(err))
	})
}

func TestService_AskEmptyQuestion(t *testing.T) {
	drv := newMockDriver(t)
	answer, err := newTestService(drv, &fakeGenerator{}).Ask(context.Background(), "   ", "bar")
	require.NoError(t, err)
	assert.Equal(t, MsgEmptyQuestion, answer.Message)
	assert.NoError(t, drv.mock.ExpectationsWereMet())
}

func TestService_Schema(t *testing.T) {
	drv := newMockDriver(t)
	drv.expectCatalog()
	drv.mock.ExpectClose()

	schema, err := newTestService(drv, &fakeGenerator{}).Schema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, schema.TableNames())
	assert.NoError(t, drv.mock.ExpectationsWereMet())
}

func TestService_Connect(t *testing.T) {
	drv := newMockDriver(t)
	drv.mock.ExpectClose()
	log, _ := test.NewNullLogger()
	s := NewService(Options{Drivers: map[string]database.Driver{"postgres": drv}, Logger: log})

	target := Target{Driver: "postgres", DSN: "postgresql://localhost/sales", Name: "sales"}
	require.NoError(t, s.Connect(context.Background(), target))
	assert.Equal(t, target, s.Target())
	assert.Equal(t, "sales", s.DatabaseName())
}

func TestSummarize(t *testing.T) {
	text, ok := Summarize(&database.QueryResult{})
	assert.True(t, ok)
	assert.Equal(t, MsgNoData, text)

	text, ok = Summarize(&database.QueryResult{Columns: []string{"count"}, Rows: [][]any{{int64(42)}}})
	assert.True(t, ok)
	assert.Equal(t, "count: 42", text)

	text, ok = Summarize(&database.QueryResult{Columns: []string{"a", "b"}, Rows: [][]any{{1, nil}}})
	assert.True(t, ok)
	assert.Equal(t, "a: 1, b: NULL", text)

	_, ok = Summarize(&database.QueryResult{Columns: []string{"a"}, Rows: [][]any{{1}, {2}}})
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("x")))
	assert.Equal(t, KindConfig, KindOf(&ErrConfig{Cause: errors.New("x")}))
	assert.Equal(t, "chart", KindChart.String())
}

func TestMessage(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&ErrConnection{Cause: cause}, "Database connection error: boom"},
		{fmt.Errorf("ask: %w", &ErrQuery{Query: "SELECT 1", Cause: cause}), "Database error: boom"},
		{&ErrGeneration{Cause: cause}, "Error generating SQL query: boom"},
		{&ErrChart{Cause: cause}, "Error generating chart: boom"},
		{&ErrConfig{Cause: cause}, "Configuration error: boom"},
		{cause, "Error processing query: boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.err))
	}
}
