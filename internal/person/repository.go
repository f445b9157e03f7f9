package person

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/leapstack-labs/dossier/internal/store"
)

const table = "persons"

var columns = []string{"id", "name", "rank", "mobile"}

// Gateway is the subset of store.Gateway the repository needs.
type Gateway interface {
	WithConn(ctx context.Context, fn func(db *sql.DB) error) error
	Dialect() store.Dialect
}

// Repository runs the persons CRUD and search statements.
// Every call opens and closes its own connection through the gateway.
type Repository struct {
	gw       Gateway
	builder  sq.StatementBuilderType
	returnID bool
	logger   *slog.Logger
}

// NewRepository creates a repository over gw.
// The logger parameter may be nil.
func NewRepository(gw Gateway, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := gw.Dialect()
	return &Repository{
		gw:       gw,
		builder:  sq.StatementBuilder.PlaceholderFormat(d.Placeholder),
		returnID: d.InsertReturning,
		logger:   logger.With("component", "person"),
	}
}

// ListAll returns every row in store order. An empty table yields an
// empty, non-nil slice.
func (r *Repository) ListAll(ctx context.Context) ([]Person, error) {
	return r.query(ctx, "list", r.builder.Select(columns...).From(table))
}

// SearchByExactName returns rows whose name equals name byte for byte.
func (r *Repository) SearchByExactName(ctx context.Context, name string) ([]Person, error) {
	return r.query(ctx, "search", r.builder.Select(columns...).From(table).Where(sq.Eq{"name": name}))
}

// Insert adds a row and returns the id the store assigned.
func (r *Repository) Insert(ctx context.Context, name, rank, mobile string) (int64, error) {
	q := r.builder.Insert(table).Columns("name", "rank", "mobile").Values(name, rank, mobile)
	if r.returnID {
		q = q.Suffix("RETURNING id")
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}

	var id int64
	err = r.gw.WithConn(ctx, func(db *sql.DB) error {
		if r.returnID {
			if err := db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
				return fmt.Errorf("%w: failed to insert person: %w", store.ErrWriteFailed, err)
			}
			return nil
		}

		res, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: failed to insert person: %w", store.ErrWriteFailed, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w: failed to read assigned id: %w", store.ErrWriteFailed, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.logger.Debug("person inserted", "id", id)
	return id, nil
}

// Update overwrites name, rank and mobile of the row with id.
// A missing id is not an error.
func (r *Repository) Update(ctx context.Context, id int64, name, rank, mobile string) error {
	q := r.builder.Update(table).
		Set("name", name).
		Set("rank", rank).
		Set("mobile", mobile).
		Where(sq.Eq{"id": id})
	n, err := r.exec(ctx, "update", q)
	if err != nil {
		return err
	}
	r.logger.Debug("person updated", "id", id, "rows", n)
	return nil
}

// Delete removes the row with id. A missing id is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	n, err := r.exec(ctx, "delete", r.builder.Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return err
	}
	r.logger.Debug("person deleted", "id", id, "rows", n)
	return nil
}

func (r *Repository) exec(ctx context.Context, op string, q sq.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s: %w", op, err)
	}

	var affected int64
	err = r.gw.WithConn(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: failed to %s person: %w", store.ErrWriteFailed, op, err)
		}
		// Not every driver reports this; zero rows is fine either way.
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}

func (r *Repository) query(ctx context.Context, op string, q sq.SelectBuilder) ([]Person, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", op, err)
	}

	people := []Person{}
	err = r.gw.WithConn(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: failed to %s persons: %w", store.ErrReadFailed, op, err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var p Person
			var name, rank, mobile sql.NullString
			if err := rows.Scan(&p.ID, &name, &rank, &mobile); err != nil {
				return fmt.Errorf("%w: failed to scan person: %w", store.ErrReadFailed, err)
			}
			p.Name, p.Rank, p.Mobile = name.String, rank.String, mobile.String
			people = append(people, p)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: error iterating persons: %w", store.ErrReadFailed, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("persons read", "op", op, "count", len(people))
	return people, nil
}
