package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jenfranx30/savemate-backend/pkg/database"
	"github.com/jenfranx30/savemate-backend/pkg/pagination"
)

// where accumulates numbered WHERE conditions and their arguments.
type where struct {
	conditions []string
	args       []any
	// filterN is the number of args bound before page appended LIMIT and OFFSET.
	filterN int
}

// add appends a condition whose single placeholder is written as $%d.
func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) addSearch(columns []string, term string) {
	w.args = append(w.args, "%"+term+"%")
	n := len(w.args)
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", c, n)
	}
	w.conditions = append(w.conditions, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conditions, " AND ")
}

// page appends LIMIT and OFFSET arguments and returns their placeholders.
func (w *where) page(p pagination.Params) (string, string) {
	w.filterN = len(w.args)
	w.args = append(w.args, p.PerPage, p.Offset)
	n := len(w.args)
	return fmt.Sprintf("$%d", n-1), fmt.Sprintf("$%d", n)
}

// filterArgs returns the arguments bound by the conditions alone.
func (w *where) filterArgs() []any {
	return w.args[:w.filterN]
}

// pageTotal returns total, the count(*) OVER() read off the page rows. A page
// past the end has no rows to carry it, so countQuery is run instead.
func pageTotal(ctx context.Context, db database.DBTX, n int, p pagination.Params, total int, countQuery string, args ...any) (int, error) {
	if n > 0 || p.Offset == 0 {
		return total, nil
	}
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return total, nil
}
