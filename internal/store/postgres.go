package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/pathforge/internal/progress"
)

const dbTimeout = 5 * time.Second

// Schema creates every table the Postgres implementations use. Each
// statement is idempotent.
//
//go:embed schema.sql
var Schema string

// PostgresStore is a PostgreSQL-backed PathStore implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed path store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

const pathColumns = `id::text, user_id, target_role, title, difficulty, profile, curriculum,
	total_topics, completed_topics, completion_percentage, is_active, created_at, updated_at`

func (s *PostgresStore) ReplaceActivePath(ctx context.Context, path LearningPath) (LearningPath, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if path.UserID == "" {
		return LearningPath{}, fmt.Errorf("user_id is required")
	}

	profile, err := json.Marshal(path.Profile)
	if err != nil {
		return LearningPath{}, fmt.Errorf("marshal profile: %w", err)
	}
	curr, err := json.Marshal(path.Curriculum)
	if err != nil {
		return LearningPath{}, fmt.Errorf("marshal curriculum: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return LearningPath{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serializes concurrent generations for the same user.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, path.UserID); err != nil {
		return LearningPath{}, fmt.Errorf("lock user paths: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE learning_paths SET is_active = FALSE, updated_at = NOW()
		 WHERE user_id = $1 AND target_role = $2 AND is_active`,
		path.UserID, path.TargetRole,
	); err != nil {
		return LearningPath{}, fmt.Errorf("deactivate paths: %w", err)
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO learning_paths (id, user_id, target_role, title, difficulty, profile, curriculum,
		     total_topics, completed_topics, completion_percentage, is_active)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9, $10, TRUE)
		 RETURNING `+pathColumns,
		newID(),
		path.UserID,
		path.TargetRole,
		path.Title,
		path.Difficulty,
		string(profile),
		string(curr),
		path.TotalTopics,
		path.CompletedTopics,
		path.CompletionPercentage,
	)
	saved, err := scanPath(row)
	if err != nil {
		return LearningPath{}, fmt.Errorf("insert path: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return LearningPath{}, fmt.Errorf("commit path: %w", err)
	}
	return saved, nil
}

func (s *PostgresStore) ActivePath(ctx context.Context, userID string) (LearningPath, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx,
		`SELECT `+pathColumns+` FROM learning_paths
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at DESC LIMIT 1`,
		userID,
	)
	path, err := scanPath(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LearningPath{}, fmt.Errorf("active path for user %s: %w", userID, ErrNotFound)
		}
		return LearningPath{}, fmt.Errorf("get active path: %w", err)
	}
	return path, nil
}

func (s *PostgresStore) GetPath(ctx context.Context, id string) (LearningPath, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	pid, err := parsePathID(id)
	if err != nil {
		return LearningPath{}, err
	}
	row := s.pool.QueryRow(ctx,
		`SELECT `+pathColumns+` FROM learning_paths WHERE id = $1`,
		pid,
	)
	path, err := scanPath(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LearningPath{}, fmt.Errorf("path %s: %w", id, ErrNotFound)
		}
		return LearningPath{}, fmt.Errorf("get path: %w", err)
	}
	return path, nil
}

func (s *PostgresStore) UpdatePathProgress(ctx context.Context, id string, completed int, percentage float64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	pid, err := parsePathID(id)
	if err != nil {
		return err
	}
	cmd, err := s.pool.Exec(ctx,
		`UPDATE learning_paths
		 SET completed_topics = $2, completion_percentage = $3, updated_at = NOW()
		 WHERE id = $1`,
		pid, completed, percentage,
	)
	if err != nil {
		return fmt.Errorf("update path progress: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("path %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) UpsertProgress(ctx context.Context, rec progress.Record) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if rec.UserID == "" || rec.PathID == "" || rec.TopicID == "" {
		return fmt.Errorf("user_id, learning_path_id and topic_id are required")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO progress (user_id, learning_path_id, module_id, topic_id, topic_title, status,
		     time_spent_minutes, expected_minutes, difficulty_feedback, started_at, completed_at)
		 VALUES ($1, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id, learning_path_id, module_id, topic_id) DO UPDATE SET
		     topic_title = COALESCE(EXCLUDED.topic_title, progress.topic_title),
		     status = EXCLUDED.status,
		     time_spent_minutes = EXCLUDED.time_spent_minutes,
		     expected_minutes = COALESCE(EXCLUDED.expected_minutes, progress.expected_minutes),
		     difficulty_feedback = COALESCE(EXCLUDED.difficulty_feedback, progress.difficulty_feedback),
		     started_at = COALESCE(progress.started_at, EXCLUDED.started_at),
		     completed_at = EXCLUDED.completed_at`,
		rec.UserID,
		rec.PathID,
		rec.ModuleID,
		rec.TopicID,
		nullIfEmpty(rec.TopicTitle),
		rec.Status,
		rec.TimeSpentMinutes,
		nullIfZero(rec.ExpectedMinutes),
		nullIfEmpty(rec.DifficultyFeedback),
		rec.StartedAt,
		rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListProgress(ctx context.Context, userID, pathID string) ([]progress.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var pathFilter any
	if pathID != "" {
		pid, err := parsePathID(pathID)
		if err != nil {
			return []progress.Record{}, nil
		}
		pathFilter = pid
	}

	rows, err := s.pool.Query(ctx,
		`SELECT user_id, learning_path_id::text, module_id, topic_id, COALESCE(topic_title, ''), status,
		     time_spent_minutes, COALESCE(expected_minutes, 0), COALESCE(difficulty_feedback, ''),
		     started_at, completed_at
		 FROM progress
		 WHERE user_id = $1 AND ($2::uuid IS NULL OR learning_path_id = $2)
		 ORDER BY seq`,
		userID, pathFilter,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	records := []progress.Record{}
	for rows.Next() {
		var r progress.Record
		if err := rows.Scan(
			&r.UserID, &r.PathID, &r.ModuleID, &r.TopicID, &r.TopicTitle, &r.Status,
			&r.TimeSpentMinutes, &r.ExpectedMinutes, &r.DifficultyFeedback,
			&r.StartedAt, &r.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) AddActivity(ctx context.Context, userID string, log progress.ActivityLog) error {
	return s.writeActivity(ctx, userID, log,
		`learning_minutes = activity_logs.learning_minutes + EXCLUDED.learning_minutes,
		 topics_completed = activity_logs.topics_completed + EXCLUDED.topics_completed,
		 xp_earned = activity_logs.xp_earned + EXCLUDED.xp_earned,
		 time_of_day = COALESCE(EXCLUDED.time_of_day, activity_logs.time_of_day)`)
}

func (s *PostgresStore) PutActivity(ctx context.Context, userID string, log progress.ActivityLog) error {
	return s.writeActivity(ctx, userID, log,
		`learning_minutes = EXCLUDED.learning_minutes,
		 topics_completed = EXCLUDED.topics_completed,
		 xp_earned = EXCLUDED.xp_earned,
		 time_of_day = EXCLUDED.time_of_day`)
}

func (s *PostgresStore) writeActivity(ctx context.Context, userID string, log progress.ActivityLog, onConflict string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if userID == "" {
		return fmt.Errorf("user_id is required")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO activity_logs (user_id, date, learning_minutes, topics_completed, xp_earned, time_of_day)
		 VALUES ($1, $2::date, $3, $4, $5, $6)
		 ON CONFLICT (user_id, date) DO UPDATE SET `+onConflict,
		userID,
		progress.Day(log.Date),
		log.LearningMinutes,
		log.TopicsCompleted,
		log.XPEarned,
		nullIfEmpty(log.TimeOfDay),
	)
	if err != nil {
		return fmt.Errorf("write activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActivity(ctx context.Context, userID string) ([]progress.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT date, learning_minutes, topics_completed, xp_earned, COALESCE(time_of_day, '')
		 FROM activity_logs WHERE user_id = $1 ORDER BY date ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	logs := []progress.ActivityLog{}
	for rows.Next() {
		var l progress.ActivityLog
		if err := rows.Scan(&l.Date, &l.LearningMinutes, &l.TopicsCompleted, &l.XPEarned, &l.TimeOfDay); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		l.Date = progress.Day(l.Date)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return logs, nil
}

func scanPath(row pgx.Row) (LearningPath, error) {
	var (
		p             LearningPath
		profile, curr []byte
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &p.TargetRole, &p.Title, &p.Difficulty, &profile, &curr,
		&p.TotalTopics, &p.CompletedTopics, &p.CompletionPercentage, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return LearningPath{}, err
	}
	if err := json.Unmarshal(profile, &p.Profile); err != nil {
		return LearningPath{}, fmt.Errorf("decode profile: %w", err)
	}
	if err := json.Unmarshal(curr, &p.Curriculum); err != nil {
		return LearningPath{}, fmt.Errorf("decode curriculum: %w", err)
	}
	return p, nil
}

// parsePathID maps ids that are not UUIDs to ErrNotFound, since no stored
// path can have them.
func parsePathID(id string) (uuid.UUID, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("path %s: %w", id, ErrNotFound)
	}
	return pid, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullIfZero(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
