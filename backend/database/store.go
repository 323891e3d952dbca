package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/PressureTank/promptbase/backend/prompt"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanPrompt(s scanner) (prompt.Prompt, error) {
	var p prompt.Prompt
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Prompt,
		&p.IsFavorite,
		timestamp{&p.CreatedAt},
		timestamp{&p.UpdatedAt},
	)
	return p, err
}

// timestamp scans TIMESTAMP columns. SQLite hands back text when it cannot
// report a declared column type, as with RETURNING.
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*ts.t = x
		return nil
	case nil:
		*ts.t = time.Time{}
		return nil
	case []byte:
		return ts.parse(string(x))
	case string:
		return ts.parse(x)
	}
	return fmt.Errorf("unsupported timestamp type %T", v)
}

func (ts timestamp) parse(s string) error {
	s = strings.TrimSuffix(s, "Z")
	for _, format := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// CreatePrompt inserts one row and returns it as stored. Callers validate cmd first.
func (s *DB) CreatePrompt(ctx context.Context, cmd prompt.CreateCommand) (*prompt.Prompt, error) {
	q := fmt.Sprintf(
		"INSERT INTO prompts (title, prompt, is_favorite) VALUES (%s, %s, %s) RETURNING %s",
		s.dialect.bind(1), s.dialect.bind(2), s.dialect.bind(3), columns,
	)

	row := s.db.QueryRowContext(ctx, q, cmd.Title, cmd.Prompt, cmd.IsFavorite)
	p, err := scanPrompt(row)
	if err != nil {
		return nil, s.storageError("create prompt", "Error inserting prompt into database", err)
	}

	s.logger.Info("Prompt created", zap.Int64("id", p.ID), zap.String("title", p.Title))
	return &p, nil
}

// ListPrompts returns the prompts matching opts. The result is never nil.
func (s *DB) ListPrompts(ctx context.Context, opts prompt.ListOptions) ([]prompt.Prompt, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}

	q, args, err := s.dialect.listQuery(opts)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, s.storageError("list prompts", "Error fetching prompts from database", err)
	}
	defer rows.Close()

	prompts := make([]prompt.Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, s.storageError("list prompts", "Error scanning prompt row", err)
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageError("list prompts", "Error iterating prompt rows", err)
	}

	return prompts, nil
}

// SetFavorite updates is_favorite for id. A missing id is not an error.
func (s *DB) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	q := fmt.Sprintf("UPDATE prompts SET is_favorite = %s WHERE id = %s", s.dialect.bind(1), s.dialect.bind(2))

	res, err := s.db.ExecContext(ctx, q, favorite, id)
	if err != nil {
		return s.storageError("set favorite", "Error updating prompt favorite", err)
	}

	s.logAffected("Prompt favorite set", res, zap.Int64("id", id), zap.Bool("is_favorite", favorite))
	return nil
}

// DeletePrompt removes the row for id. A missing id is not an error.
func (s *DB) DeletePrompt(ctx context.Context, id int64) error {
	q := fmt.Sprintf("DELETE FROM prompts WHERE id = %s", s.dialect.bind(1))

	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return s.storageError("delete prompt", "Error deleting prompt from database", err)
	}

	s.logAffected("Prompt deleted", res, zap.Int64("id", id))
	return nil
}

func (s *DB) logAffected(msg string, res sql.Result, fields ...zap.Field) {
	n, err := res.RowsAffected()
	if err != nil {
		return
	}
	if n == 0 {
		s.logger.Debug(msg+" (no matching row)", fields...)
		return
	}
	s.logger.Info(msg, fields...)
}

func (s *DB) storageError(op, msg string, err error) error {
	fields := []zap.Field{zap.Error(err)}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields = append(fields, zap.String("pg_code", pgErr.Code))
	}

	s.logger.Error(msg, fields...)
	return &prompt.StorageError{Op: op, Err: err}
}
