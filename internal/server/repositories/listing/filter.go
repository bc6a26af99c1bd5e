// Package listing builds the WHERE fragment shared by the listing queries.
package listing

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

// Filter accumulates SQL conditions with positional arguments.
type Filter struct {
	conds []string
	args  []any
}

// Static appends a condition that takes no argument.
func (f *Filter) Static(expr string) {
	f.conds = append(f.conds, expr)
}

// Cond appends a condition. expr must contain one %d verb which receives
// the positional placeholder number for v.
func (f *Filter) Cond(expr string, v any) {
	f.args = append(f.args, v)
	f.conds = append(f.conds, fmt.Sprintf(expr, len(f.args)))
}

// Placeholder registers v as an argument and returns its "$n" placeholder.
// Used for LIMIT/OFFSET which live outside the WHERE clause.
func (f *Filter) Placeholder(v any) string {
	f.args = append(f.args, v)
	return fmt.Sprintf("$%d", len(f.args))
}

// Where renders the accumulated conditions, including the leading keyword.
func (f *Filter) Where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// Args returns the arguments in placeholder order.
func (f *Filter) Args() []any {
	return f.args
}

// ForQuery builds the filter every listing endpoint shares: user scoping,
// the archived flag, and the incremental-sync updatedAfter bound. prefix
// qualifies column names when the query joins tables ("r." or "").
func ForQuery(prefix, userID string, q models.ListQuery) *Filter {
	f := &Filter{}
	f.Cond(prefix+"user_id = $%d", userID)
	if !q.IncludeArchived {
		f.Static(prefix + "archived = FALSE")
	}
	if q.UpdatedAfter != "" {
		f.Cond(prefix+"updated_at > $%d", q.UpdatedAfter)
	}
	if q.DateFrom != "" {
		f.Cond(prefix+"date >= $%d", q.DateFrom)
	}
	if q.DateTo != "" {
		f.Cond(prefix+"date <= $%d", q.DateTo)
	}
	return f
}
