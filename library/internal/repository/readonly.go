package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ReadOnlyQuery runs a generated statement inside a READ ONLY transaction
// that is always rolled back. At most maxRows rows are returned.
func (r *repository) ReadOnlyQuery(ctx context.Context, query string, maxRows int, timeout time.Duration, args ...interface{}) ([]map[string]interface{}, error) {
	tx, err := r.pool.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "begin read only tx")
	}
	defer func() { _ = tx.Rollback() }()

	if timeout > 0 {
		stmt := fmt.Sprintf("set local statement_timeout = %d", timeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, errors.Wrap(err, "statement timeout")
		}
	}

	rows, err := tx.QueryxContext(ctx, query, args...)
	if err != nil {
		r.log.Warn("ReadOnlyQuery", zap.String("q", query), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make([]map[string]interface{}, 0)
	for rows.Next() && len(out) < maxRows {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
