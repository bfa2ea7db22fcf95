package sqlgen

import "strings"

// Sentinel lines the prompt asks the model to wrap its answer in.
const (
	SQLStart   = "SQL_QUERY_START"
	SQLEnd     = "SQL_QUERY_END"
	ErrorStart = "ERROR_START"
	ErrorEnd   = "ERROR_END"
)

// NoQueryReason is reported when nothing resembling a query was found.
const NoQueryReason = "could not extract a valid query"

var clauseKeywords = []string{"SELECT", "FROM", "WHERE", "GROUP BY", "ORDER BY", "HAVING"}

// Extract maps a raw model response to a query or an unsupported reason.
//
// Sentinel-delimited SQL wins, then a sentinel-delimited error, then any
// SELECT block found in the raw text.
func Extract(response string) Result {
	if block, ok := between(response, SQLStart, SQLEnd); ok {
		if lines := fromFirstSelect(block); len(lines) > 0 {
			return SQL(strings.Join(lines, "\n"))
		}
	} else if reason, ok := between(response, ErrorStart, ErrorEnd); ok {
		return Unsupported(strings.TrimSpace(reason))
	}

	if sql := scanSelect(response); sql != "" {
		return SQL(sql)
	}

	return Unsupported(NoQueryReason)
}

// between returns the text after the first start marker up to the first end
// marker that follows it. Both markers must be present in s.
func between(s, start, end string) (string, bool) {
	if !strings.Contains(s, start) || !strings.Contains(s, end) {
		return "", false
	}
	_, after, _ := strings.Cut(s, start)
	inner, _, _ := strings.Cut(after, end)
	return strings.TrimSpace(inner), true
}

// fromFirstSelect drops analysis text before the first SELECT line and
// returns the remaining non-empty lines, trimmed.
func fromFirstSelect(block string) []string {
	var lines []string
	capture := false
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToUpper(line), "SELECT") {
			capture = true
		}
		if capture && line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// scanSelect is the last-resort search for a query in unstructured text.
func scanSelect(response string) string {
	var lines []string
	capture := false
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "SELECT") {
			capture = true
		}
		if capture && line != "" && hasClauseKeyword(upper) {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func hasClauseKeyword(upper string) bool {
	for _, kw := range clauseKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
