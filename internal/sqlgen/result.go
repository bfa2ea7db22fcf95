// Package sqlgen asks a language model for a SQL query and pulls the query
// out of the model's free-text answer.
package sqlgen

// Kind tags a Result.
type Kind int

const (
	// KindSQL means Result.SQL holds a query.
	KindSQL Kind = iota
	// KindUnsupported means the question cannot be answered; see Result.Reason.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindSQL:
		return "sql"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Result is either a SQL query or the reason no query could be produced.
type Result struct {
	Kind   Kind
	SQL    string
	Reason string
}

// SQL returns a query result.
func SQL(text string) Result {
	return Result{Kind: KindSQL, SQL: text}
}

// Unsupported returns a result explaining why there is no query.
func Unsupported(reason string) Result {
	return Result{Kind: KindUnsupported, Reason: reason}
}

// IsSQL reports whether the result carries a query.
func (r Result) IsSQL() bool {
	return r.Kind == KindSQL
}
