package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

var (
	ErrDuplicate  = errors.New("duplicate record")
	ErrForeignKey = errors.New("referenced record does not exist")
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPostgresRepository(db *sql.DB, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// withTx commits when fn succeeds and rolls back otherwise.
func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresRepository) queryRows(ctx context.Context, query string, args ...any) ([]models.Row, error) {
	return selectRows(ctx, r.db, query, args...)
}

// queryRow returns nil when the query yields no rows.
func (r *PostgresRepository) queryRow(ctx context.Context, query string, args ...any) (models.Row, error) {
	rows, err := selectRows(ctx, r.db, query, args...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *PostgresRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&found)
	return found, err
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func selectRows(ctx context.Context, q querier, query string, args ...any) ([]models.Row, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows reads every row into a raw mapping keyed by column name.
func scanRows(rows *sql.Rows) ([]models.Row, error) {
	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	result := make([]models.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(models.Row, len(columns))
		for i, col := range columns {
			v, err := normalizeValue(col.DatabaseTypeName(), values[i])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name(), err)
			}
			row[col.Name()] = v
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// normalizeValue turns driver values into the shape a table API returns:
// temporal columns as ISO-8601 text, numerics as float64, JSON decoded.
func normalizeValue(dbType string, v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		switch dbType {
		case "DATE":
			return models.DateOf(x).String(), nil
		case "TIME":
			return models.TimeOfDayOf(x).String(), nil
		case "TIMESTAMP":
			return models.NaiveDateTime(x).String(), nil
		default:
			return models.ZonedDateTime(x).String(), nil
		}
	case []byte:
		switch dbType {
		case "NUMERIC":
			return strconv.ParseFloat(string(x), 64)
		case "JSON", "JSONB":
			var out any
			if err := json.Unmarshal(x, &out); err != nil {
				return nil, err
			}
			return out, nil
		default:
			return string(x), nil
		}
	case int32:
		return int64(x), nil
	case float32:
		return float64(x), nil
	default:
		return x, nil
	}
}

func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	case "23503":
		return fmt.Errorf("%w: %s", ErrForeignKey, pqErr.Constraint)
	}
	return err
}

func exec(ctx context.Context, q querier, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateError(err)
	}
	return res.RowsAffected()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// nameFilter requires every token to appear in at least one name column.
// Placeholders start at $first.
func nameFilter(tokens []string, first int, columns ...string) (string, []any) {
	clauses := make([]string, 0, len(tokens))
	args := make([]any, 0, len(tokens))
	for i, token := range tokens {
		n := first + i
		parts := make([]string, 0, len(columns))
		for _, col := range columns {
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, n))
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
		args = append(args, containsPattern(token))
	}
	return strings.Join(clauses, " AND "), args
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func optionalText[T fmt.Stringer](p *T) any {
	if p == nil {
		return nil
	}
	return (*p).String()
}
