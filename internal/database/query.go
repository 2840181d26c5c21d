package database

import (
	"context"
	"fmt"
)

// listQuery is a SELECT whose WHERE clause comes from a Filter
type listQuery struct {
	base    string // SELECT ... FROM ...
	filter  *Filter
	orderBy string
	limit   int
}

// run executes the query into dest, binding filter values then the limit
func (q listQuery) run(ctx context.Context, db DB, dest interface{}) error {
	where, args, err := q.filter.Build(1)
	if err != nil {
		return err
	}

	query := q.base
	if where != "" {
		query += " WHERE " + where
	}
	if q.orderBy != "" {
		query += " ORDER BY " + q.orderBy
	}
	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, q.limit)
	}

	return db.SelectContext(ctx, dest, query, args...)
}
