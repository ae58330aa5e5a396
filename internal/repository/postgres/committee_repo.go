package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"committeehub/internal/domain"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type committeeRepository struct {
	DB *sql.DB
}

// NewCommitteeRepository returns a domain.CommitteeRepository implemented with Postgres.
func NewCommitteeRepository(db *sql.DB) domain.CommitteeRepository {
	return &committeeRepository{DB: db}
}

func (r *committeeRepository) List(ctx context.Context) ([]*domain.Committee, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, title, description, location, meeting_time, head
		 FROM committees
		 ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var committees []*domain.Committee
	for rows.Next() {
		var c domain.Committee
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Location, &c.MeetingTime, &c.Head); err != nil {
			return nil, err
		}
		committees = append(committees, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return committees, nil
}

func (r *committeeRepository) GetByID(ctx context.Context, id string) (*domain.Committee, error) {
	var c domain.Committee
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, description, location, meeting_time, head FROM committees WHERE id = $1`, id).
		Scan(&c.ID, &c.Title, &c.Description, &c.Location, &c.MeetingTime, &c.Head)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommitteeNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *committeeRepository) Create(ctx context.Context, c *domain.Committee) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO committees (id, title, description, location, meeting_time, head)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.Title, c.Description, c.Location, c.MeetingTime, c.Head)
		if err != nil {
			var perr *pq.Error
			if errors.As(err, &perr) && perr.Code == uniqueViolation {
				return domain.ErrCommitteeExists
			}
			return err
		}
		return nil
	})
}

// Update writes only the columns set in changes. With no changes it does not touch the database.
func (r *committeeRepository) Update(ctx context.Context, id string, changes domain.CommitteeChanges) error {
	if changes.IsEmpty() {
		return nil
	}
	sets := []string{}
	args := []any{id}
	add := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("description", changes.Description)
	add("head", changes.Head)
	add("location", changes.Location)
	add("meeting_time", changes.MeetingTime)

	query := `UPDATE committees SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrCommitteeNotFound
		}
		return nil
	})
}

// withTx runs fn inside a transaction, committing on success and rolling back on any error.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
