package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-advisor/internal/register"
)

const schema = `
CREATE TABLE IF NOT EXISTS registers (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name    TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	email        TEXT NOT NULL,
	created_at   INTEGER NOT NULL
)`

// SQLiteStore is a register.Store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dsn and applies the schema.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) List(ctx context.Context) ([]register.Register, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, phone_number, email, created_at
		FROM registers
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list registers: %w", err)
	}
	defer rows.Close()

	result := []register.Register{}
	for rows.Next() {
		r, err := scanRegister(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list registers: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (register.Register, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, phone_number, email, created_at
		FROM registers
		WHERE id = ?
	`, id)

	r, err := scanRegister(row)
	if errors.Is(err, sql.ErrNoRows) {
		return register.Register{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return register.Register{}, err
	}
	return r, nil
}

func (s *SQLiteStore) Create(ctx context.Context, r register.Register) (register.Register, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO registers (full_name, phone_number, email, created_at)
		VALUES (?, ?, ?, ?)
	`, r.FullName, r.PhoneNumber, r.Email, r.CreatedAt.UnixNano())
	if err != nil {
		return register.Register{}, fmt.Errorf("failed to create register: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return register.Register{}, fmt.Errorf("failed to get register ID: %w", err)
	}
	r.ID = id
	return r, nil
}

func (s *SQLiteStore) Update(ctx context.Context, r register.Register) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE registers
		SET full_name = ?, phone_number = ?, email = ?
		WHERE id = ?
	`, r.FullName, r.PhoneNumber, r.Email, r.ID)
	if err != nil {
		return fmt.Errorf("failed to update register: %w", err)
	}
	return expectOneRow(result, r.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM registers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete register: %w", err)
	}
	return expectOneRow(result, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegister(sc scanner) (register.Register, error) {
	var (
		r         register.Register
		createdAt int64
	)
	if err := sc.Scan(&r.ID, &r.FullName, &r.PhoneNumber, &r.Email, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return register.Register{}, err
		}
		return register.Register{}, fmt.Errorf("failed to scan register: %w", err)
	}
	r.CreatedAt = time.Unix(0, createdAt).UTC()
	return r, nil
}

func expectOneRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}
