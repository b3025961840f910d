package airtable

import (
	"fmt"
	"strings"
)

// Formula helpers build filterByFormula expressions for Select. Only the
// shapes the entity modules need exist here: field=value equality terms
// AND-ed together, plus linked-record membership.

// Eq renders a field equality term. Values are single-quoted with
// embedded quotes escaped, so arbitrary user input cannot break out of
// the expression.
func Eq(field, value string) string {
	return fmt.Sprintf("{%s} = '%s'", field, escapeFormulaValue(value))
}

// RecordID renders a primary-key equality term.
func RecordID(id string) string {
	return fmt.Sprintf("RECORD_ID() = '%s'", escapeFormulaValue(id))
}

// Checked renders a checkbox-is-set term.
func Checked(field string) string {
	return fmt.Sprintf("{%s} = TRUE()", field)
}

// Contains renders a membership term for linked-record columns, which
// stringify as comma-joined lists.
func Contains(field, value string) string {
	return fmt.Sprintf("FIND('%s', ARRAYJOIN({%s})) > 0", escapeFormulaValue(value), field)
}

// And joins terms with logical AND. Empty terms are dropped; zero terms
// means "match all" and renders as the empty formula.
func And(terms ...string) string {
	kept := make([]string, 0, len(terms))
	for _, term := range terms {
		if term != "" {
			kept = append(kept, term)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	default:
		return fmt.Sprintf("AND(%s)", strings.Join(kept, ", "))
	}
}

// Or joins terms with logical OR, with the same empty-term handling as And.
func Or(terms ...string) string {
	kept := make([]string, 0, len(terms))
	for _, term := range terms {
		if term != "" {
			kept = append(kept, term)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	default:
		return fmt.Sprintf("OR(%s)", strings.Join(kept, ", "))
	}
}

func escapeFormulaValue(value string) string {
	return strings.ReplaceAll(strings.ReplaceAll(value, `\`, `\\`), "'", `\'`)
}
