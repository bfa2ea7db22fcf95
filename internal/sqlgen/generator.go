package sqlgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/joacominatel/askdb/internal/llm"
)

// Generator writes SQL for a question against a schema.
type Generator struct {
	model llm.Model
	log   logrus.FieldLogger
}

// NewGenerator creates a generator backed by model.
func NewGenerator(model llm.Model, log logrus.FieldLogger) *Generator {
	return &Generator{model: model, log: log}
}

// Generate prompts the model once and extracts a query from its answer.
// The error is non-nil only when the prompt cannot be built or the model
// call itself fails; an unusable answer is reported as KindUnsupported.
func (g *Generator) Generate(ctx context.Context, question, schemaText string) (Result, error) {
	prompt, err := BuildPrompt(schemaText, question)
	if err != nil {
		return Result{}, err
	}

	response, err := g.model.Complete(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("model call: %w", err)
	}
	g.log.WithField("response", response).Debug("model response")

	res := Extract(response)
	if res.IsSQL() {
		res.SQL = strings.TrimSpace(res.SQL)
		g.log.WithField("sql", res.SQL).Info("generated query")
	} else {
		g.log.WithField("reason", res.Reason).Info("no query generated")
	}
	return res, nil
}
