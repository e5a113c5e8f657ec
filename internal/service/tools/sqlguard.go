package tools

import (
	"fmt"
	"regexp"
	"strings"
)

// The lookup chain executes model-generated SQL, so every statement passes
// this guard first: one SELECT, events table only, nothing that writes or
// touches database internals.

const maxLookupRows = 25

var (
	fenceRe      = regexp.MustCompile("(?s)```(?:sql)?(.*?)```")
	fromClauseRe = regexp.MustCompile(`(?is)\bfrom\s+(.*?)(?:\bwhere\b|\bgroup\b|\border\b|\bhaving\b|\blimit\b|\bunion\b|$)`)
	tableSplitRe = regexp.MustCompile(`(?i)\bjoin\b|,`)
	forbiddenRe  = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|attach|detach|pragma|replace|vacuum|reindex|trigger)\b`)
	limitRe      = regexp.MustCompile(`(?i)\blimit\s+\d+`)
)

// SanitizeSelect cleans a model-generated statement and rejects anything
// that is not a single read-only SELECT scoped to the events table. The
// returned statement always carries a row limit.
func SanitizeSelect(raw string) (string, error) {
	stmt := strings.TrimSpace(raw)

	// Models love markdown fences despite instructions.
	if m := fenceRe.FindStringSubmatch(stmt); m != nil {
		stmt = strings.TrimSpace(m[1])
	}
	stmt = strings.TrimSuffix(stmt, ";")
	stmt = strings.TrimSpace(stmt)

	if stmt == "" {
		return "", fmt.Errorf("empty statement")
	}
	if strings.Contains(stmt, ";") {
		return "", fmt.Errorf("multiple statements are not allowed")
	}
	if !strings.HasPrefix(strings.ToUpper(stmt), "SELECT") {
		return "", fmt.Errorf("only SELECT statements are allowed")
	}
	if m := forbiddenRe.FindString(stmt); m != "" {
		return "", fmt.Errorf("forbidden keyword: %s", strings.ToLower(m))
	}

	// Every table reference in every FROM clause must be the events table.
	// Comma lists and JOINs are split apart so no reference hides behind the
	// first one; subqueries in FROM surface as a non-events token.
	found := false
	for _, m := range fromClauseRe.FindAllStringSubmatch(stmt, -1) {
		for _, ref := range tableSplitRe.Split(m[1], -1) {
			fields := strings.Fields(ref)
			if len(fields) == 0 {
				continue
			}
			table := strings.Trim(strings.ToLower(fields[0]), `"()`)
			if table != "events" {
				return "", fmt.Errorf("table %q is outside the events schema", table)
			}
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("no table referenced")
	}

	if !limitRe.MatchString(stmt) {
		stmt = fmt.Sprintf("%s LIMIT %d", stmt, maxLookupRows)
	}
	return stmt, nil
}
