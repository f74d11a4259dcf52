package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mind-engage/courseplayer/internal/progress"
)

// SQLStore keeps documents as JSON text in the courses and progress tables.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutCourse(ctx context.Context, id, title string, raw json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, raw_json, updated_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO UPDATE SET title = excluded.title, raw_json = excluded.raw_json, updated_at = excluded.updated_at`,
		id, title, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("put course: %w", err)
	}
	return nil
}

func (s *SQLStore) GetCourse(ctx context.Context, id string) (CourseRecord, error) {
	var (
		rec     CourseRecord
		raw     string
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, raw_json, updated_at FROM courses WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Title, &raw, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return rec, fmt.Errorf("get course: %w", err)
	}
	rec.Raw = json.RawMessage(raw)
	rec.UpdatedAt = time.Unix(updated, 0).UTC()
	return rec, nil
}

func (s *SQLStore) ListCourses(ctx context.Context) ([]CourseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, updated_at FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()
	var out []CourseRecord
	for rows.Next() {
		var (
			rec     CourseRecord
			updated int64
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &updated); err != nil {
			return nil, err
		}
		rec.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) LoadProgress(ctx context.Context, learner, courseID string) (progress.Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc_json FROM progress WHERE learner_id = $1 AND course_id = $2`, learner, courseID).
		Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Document{}, fmt.Errorf("progress %s/%s: %w", learner, courseID, ErrNotFound)
	}
	if err != nil {
		return progress.Document{}, fmt.Errorf("load progress: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return progress.Document{}, fmt.Errorf("decode progress: %w", err)
	}
	return progress.FromFields(m)
}

// UpsertProgress reads, merges and writes the row in one transaction.
func (s *SQLStore) UpsertProgress(ctx context.Context, learner, courseID string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	cur := map[string]any{}
	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT doc_json FROM progress WHERE learner_id = $1 AND course_id = $2`, learner, courseID).
		Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read progress: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &cur); err != nil {
			return fmt.Errorf("decode progress: %w", err)
		}
	}

	b, err := json.Marshal(mergeFields(cur, fields))
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO progress (learner_id, course_id, doc_json, updated_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (learner_id, course_id) DO UPDATE SET doc_json = excluded.doc_json, updated_at = excluded.updated_at`,
		learner, courseID, string(b), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return tx.Commit()
}
