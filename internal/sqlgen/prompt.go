package sqlgen

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

// promptSource is rendered with "schema" and "question". Both are inserted
// with |safe so schema arrows and quotes reach the model unescaped.
const promptSource = `
Given the following database schema:
{{ schema|safe }}

Task: Convert the following natural language query to a valid SQL query.

Requirements:
1. Use only the tables and columns that exist in the schema above
2. Use proper table aliases and column references
3. For aggregations, make sure to include proper GROUP BY clauses
4. Always qualify column names with table aliases
5. For temporal queries (involving dates/months/years):
   - Use DATE_TRUNC('month', timestamp_column) for monthly aggregation
   - Use EXTRACT(YEAR FROM timestamp_column) for yearly aggregation
   - Use TO_CHAR(timestamp_column, 'YYYY-MM') for month-year formatting
6. For sales/revenue queries:
   - Use total_amt_usd or total columns depending on context
   - Always specify the aggregation function (SUM, AVG, etc.)
7. If the query cannot be answered with the available schema, explain why.

User Query: {{ question|safe }}

Analysis Steps:
1. Identify required tables and their relationships
2. Identify relevant columns for:
   - Measures (amounts, quantities)
   - Dimensions (dates, categories, regions)
   - Join conditions
3. Determine appropriate aggregations and groupings
4. Consider date/time handling if temporal analysis is needed

If you can generate a valid query, format it as:
SQL_QUERY_START
[your SQL query here]
SQL_QUERY_END

If you cannot generate a query, format as:
ERROR_START
Unable to generate query with available schema because: [detailed explanation]
ERROR_END
`

var promptTemplate = pongo2.Must(pongo2.FromString(promptSource))

// BuildPrompt fills the fixed prompt template.
func BuildPrompt(schemaText, question string) (string, error) {
	out, err := promptTemplate.Execute(pongo2.Context{
		"schema":   schemaText,
		"question": question,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out, nil
}
