package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"notes-api/apperr"
	"notes-api/models"
)

type Dialect int

const (
	MySQL Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "mysql"
}

func (d Dialect) placeholders() squirrel.PlaceholderFormat {
	if d == Postgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

var (
	accountColumns       = []string{"id", "name", "email", "created_at"}
	accountSecretColumns = []string{"id", "name", "email", "created_at", "password_hash"}
	noteColumns          = []string{"id", "user_id", "title", "content", "created_at", "updated_at"}
)

// SQL is the database/sql implementation of Store. Tables are created by
// db.Bootstrap.
type SQL struct {
	db      *sql.DB
	dialect Dialect
	sb      squirrel.StatementBuilderType
	opts    options
}

var _ Store = (*SQL)(nil)

func NewSQL(db *sql.DB, dialect Dialect, opts ...Option) *SQL {
	return &SQL{
		db:      db,
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(dialect.placeholders()),
		opts:    buildOptions(opts),
	}
}

func (s *SQL) CreateAccount(ctx context.Context, acc *models.Account) error {
	id := models.NewID()
	createdAt := stamp(s.opts.now())

	query, args, err := s.sb.Insert("users").
		Columns("id", "name", "email", "password_hash", "created_at").
		Values(id, acc.Name, acc.Email, acc.PasswordHash, createdAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrDuplicateAccount
		}
		return unavailable("failed to create account", err)
	}

	acc.ID = id
	acc.CreatedAt = createdAt
	return nil
}

func (s *SQL) AccountByEmail(ctx context.Context, email string, withSecret bool) (*models.Account, error) {
	columns := accountColumns
	if withSecret {
		columns = accountSecretColumns
	}
	return s.account(ctx, columns, squirrel.Eq{"email": email})
}

func (s *SQL) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	return s.account(ctx, accountColumns, squirrel.Eq{"id": id})
}

func (s *SQL) account(ctx context.Context, columns []string, where squirrel.Eq) (*models.Account, error) {
	query, args, err := s.sb.Select(columns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	acc := &models.Account{}
	dest := []any{&acc.ID, &acc.Name, &acc.Email, &acc.CreatedAt}
	if len(columns) == len(accountSecretColumns) {
		dest = append(dest, &acc.PasswordHash)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account: %w", apperr.ErrNotFound)
		}
		return nil, unavailable("failed to get account", err)
	}
	acc.CreatedAt = acc.CreatedAt.UTC()
	return acc, nil
}

func (s *SQL) CreateNote(ctx context.Context, n *models.Note) error {
	id := models.NewID()
	now := stamp(s.opts.now())

	query, args, err := s.sb.Insert("notes").
		Columns(noteColumns...).
		Values(id, n.Owner, n.Title, n.Content, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return unavailable("failed to create note", err)
	}

	n.ID = id
	n.CreatedAt = now
	n.UpdatedAt = now
	return nil
}

func (s *SQL) NoteByID(ctx context.Context, id string) (*models.Note, error) {
	query, args, err := s.sb.Select(noteColumns...).From("notes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	n, err := scanNote(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note %s: %w", id, apperr.ErrNotFound)
		}
		return nil, unavailable("failed to get note", err)
	}
	return n, nil
}

func (s *SQL) NotesByOwner(ctx context.Context, owner string) ([]models.Note, error) {
	query, args, err := s.sb.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"user_id": owner}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("failed to query notes", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, unavailable("failed to scan note", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("failed to query notes", err)
	}
	return notes, nil
}

func (s *SQL) UpdateNote(ctx context.Context, n *models.Note) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query, args, err := s.sb.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"id": n.ID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	stored, err := scanNote(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("note %s: %w", n.ID, apperr.ErrNotFound)
		}
		return unavailable("failed to get note", err)
	}

	stored.Title = n.Title
	stored.Content = n.Content
	stored.UpdatedAt = nextUpdate(s.opts.now(), stored.UpdatedAt)

	query, args, err = s.sb.Update("notes").
		Set("title", stored.Title).
		Set("content", stored.Content).
		Set("updated_at", stored.UpdatedAt).
		Where(squirrel.Eq{"id": n.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return unavailable("failed to update note", err)
	}
	if err = tx.Commit(); err != nil {
		return unavailable("failed to commit note update", err)
	}

	*n = *stored
	return nil
}

func (s *SQL) DeleteNote(ctx context.Context, id string) error {
	query, args, err := s.sb.Delete("notes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable("failed to delete note", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return unavailable("failed to delete note", err)
	}
	if affected == 0 {
		return fmt.Errorf("note %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (s *SQL) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	n := &models.Note{}
	if err := row.Scan(&n.ID, &n.Owner, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return n, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
