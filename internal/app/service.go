package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/joacominatel/askdb/internal/chart"
	"github.com/joacominatel/askdb/internal/database"
	"github.com/joacominatel/askdb/internal/sqlgen"
)

// Messages shown instead of a chart.
const (
	MsgEmptyQuestion = "Please enter a question"
	MsgNoData        = "No data found for the query"
)

// Generator writes SQL for a question.
type Generator interface {
	Generate(ctx context.Context, question, schemaText string) (sqlgen.Result, error)
}

// Target is the store the service talks to.
type Target struct {
	Driver string
	DSN    string
	Name   string
}

// Options configures a Service.
type Options struct {
	Drivers      map[string]database.Driver
	Generator    Generator
	Logger       logrus.FieldLogger
	DBTimeout    time.Duration
	ModelTimeout time.Duration
}

// Service runs the question → SQL → rows → chart pipeline.
// Every call opens and closes its own database session.
type Service struct {
	drivers      map[string]database.Driver
	gen          Generator
	log          logrus.FieldLogger
	dbTimeout    time.Duration
	modelTimeout time.Duration

	mu     sync.RWMutex
	target Target
}

// NewService creates a new application service.
func NewService(opts Options) *Service {
	return &Service{
		drivers:      opts.Drivers,
		gen:          opts.Generator,
		log:          opts.Logger,
		dbTimeout:    opts.DBTimeout,
		modelTimeout: opts.ModelTimeout,
	}
}

// Connect checks that target is reachable and makes it the current store.
func (s *Service) Connect(ctx context.Context, target Target) error {
	drv, err := s.driver(target.Driver)
	if err != nil {
		return err
	}
	err = database.WithSession(ctx, drv, target.DSN, func(sess *database.Session) error {
		return sess.Ping(ctx)
	})
	if err != nil {
		return &ErrConnection{Cause: err}
	}

	s.mu.Lock()
	s.target = target
	s.mu.Unlock()
	return nil
}

// SetTarget sets the current store without checking it.
func (s *Service) SetTarget(target Target) {
	s.mu.Lock()
	s.target = target
	s.mu.Unlock()
}

// Target returns the current store.
func (s *Service) Target() Target {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

// DatabaseName returns the display name of the current store.
func (s *Service) DatabaseName() string {
	return s.Target().Name
}

// Ping opens a session to the current store and closes it.
func (s *Service) Ping(ctx context.Context) error {
	return s.withSession(ctx, func(sess *database.Session) error {
		return sess.Ping(ctx)
	})
}

// Schema reads the current catalog.
func (s *Service) Schema(ctx context.Context) (*database.Schema, error) {
	var schema *database.Schema
	err := s.withSession(ctx, func(sess *database.Session) error {
		var err error
		schema, err = s.describe(ctx, sess)
		return err
	})
	return schema, err
}

// Answer is the outcome of one question.
type Answer struct {
	RequestID string
	Question  string
	ChartKind string
	SQL       string
	Result    *database.QueryResult
	Chart     *chart.Chart
	// Message is set when the answer is text rather than a chart.
	Message string
}

// Ask runs the whole pipeline for one question. On a chart failure the
// answer still carries the SQL and rows alongside the error.
func (s *Service) Ask(ctx context.Context, question, kind string) (*Answer, error) {
	answer := &Answer{
		RequestID: uuid.NewString(),
		Question:  strings.TrimSpace(question),
		ChartKind: kind,
	}
	log := s.log.WithFields(logrus.Fields{
		"request_id": answer.RequestID,
		"chart":      kind,
	})

	if answer.Question == "" {
		answer.Message = MsgEmptyQuestion
		return answer, nil
	}
	log.WithField("question", answer.Question).Info("processing question")

	err := s.withSession(ctx, func(sess *database.Session) error {
		schema, err := s.describe(ctx, sess)
		if err != nil {
			return err
		}

		genCtx, cancel := withTimeout(ctx, s.modelTimeout)
		defer cancel()
		res, err := s.gen.Generate(genCtx, answer.Question, schema.Render())
		if err != nil {
			return &ErrGeneration{Cause: err}
		}
		if !res.IsSQL() {
			answer.Message = res.Reason
			return nil
		}
		answer.SQL = res.SQL

		execCtx, cancel := withTimeout(ctx, s.dbTimeout)
		defer cancel()
		result, err := sess.ExecuteQuery(execCtx, res.SQL)
		if err != nil {
			return &ErrQuery{Query: res.SQL, Cause: err}
		}
		answer.Result = result
		log.WithFields(logrus.Fields{
			"rows":     result.RowCount,
			"duration": result.Duration,
		}).Info("query executed")
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("kind", KindOf(err).String()).Error("question failed")
		return answer, err
	}
	if answer.Result == nil {
		return answer, nil
	}

	if text, ok := Summarize(answer.Result); ok {
		answer.Message = text
		return answer, nil
	}

	c, err := chart.Render(answer.Result, kind)
	if err != nil {
		log.WithError(err).Warn("chart failed")
		return answer, &ErrChart{Cause: err}
	}
	answer.Chart = c
	return answer, nil
}

// Summarize renders results that are not worth a chart as text: no rows,
// or a single row. It returns false when the result should be charted.
func Summarize(result *database.QueryResult) (string, bool) {
	switch {
	case result == nil || len(result.Rows) == 0:
		return MsgNoData, true
	case len(result.Rows) == 1:
		row := result.Rows[0]
		parts := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			parts[i] = fmt.Sprintf("%s: %s", col, database.FormatValue(v))
		}
		return strings.Join(parts, ", "), true
	default:
		return "", false
	}
}

func (s *Service) describe(ctx context.Context, sess *database.Session) (*database.Schema, error) {
	ctx, cancel := withTimeout(ctx, s.dbTimeout)
	defer cancel()
	schema, err := sess.DescribeSchema(ctx)
	if err != nil {
		return nil, &ErrQuery{Query: "catalog", Cause: err}
	}
	return schema, nil
}

// withSession runs fn on a fresh session to the current store. Failures
// to open or close the session are connectivity errors.
func (s *Service) withSession(ctx context.Context, fn func(*database.Session) error) error {
	target := s.Target()
	if target.DSN == "" {
		return &ErrConnection{Cause: errors.New("not connected")}
	}
	drv, err := s.driver(target.Driver)
	if err != nil {
		return err
	}

	err = database.WithSession(ctx, drv, target.DSN, fn)
	if err != nil && KindOf(err) == KindUnknown {
		return &ErrConnection{Cause: err}
	}
	return err
}

func (s *Service) driver(name string) (database.Driver, error) {
	if name == "" {
		name = "postgres"
	}
	drv, ok := s.drivers[name]
	if !ok {
		return nil, &ErrConfig{Cause: fmt.Errorf("unsupported database driver %q", name)}
	}
	return drv, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
