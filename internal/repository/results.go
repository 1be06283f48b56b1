package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lisaguthrie/sipdash/constants"
	"github.com/lisaguthrie/sipdash/internal/extract"
	"github.com/lisaguthrie/sipdash/internal/llm"
)

// ResultRepository stores and reads back per-school extraction results.
// It also serves as the focus cache consulted before the model is called.
type ResultRepository interface {
	SaveResult(ctx context.Context, res *extract.SchoolResult) error
	ListResults(ctx context.Context) ([]extract.SchoolResult, error)
	LookupFocus(ctx context.Context, req llm.FocusRequest) (*llm.FocusResult, error)
}

type resultRepository struct {
	db     *sql.DB
	pg     bool
	logger *slog.Logger
}

func NewResultRepository(db *sql.DB, dsn string, logger *slog.Logger) ResultRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &resultRepository{db: db, pg: isPostgres(dsn), logger: logger}
}

// SaveResult replaces any earlier result for the same school. Results are
// idempotent per (name, level); a re-run overwrites, never duplicates.
func (r *resultRepository) SaveResult(ctx context.Context, res *extract.SchoolResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.deleteSchool(ctx, tx, res.Name, res.Level); err != nil {
		return err
	}

	schoolID := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		rebind(r.pg, `INSERT INTO schools (id, name, level, extracted_at) VALUES (?, ?, ?, ?)`),
		schoolID, res.Name, res.Level, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert school %s: %w", res.Name, err)
	}

	for i, g := range res.Goals {
		goalID := uuid.New().String()
		_, err = tx.ExecContext(ctx,
			rebind(r.pg, `INSERT INTO goals (
				id, school_id, position, area,
				focus_group, focus_area, focus_grades, focus_student_group,
				outcome, current_data, raw_strategies,
				strategies_summarized, engagement_strategies
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			goalID, schoolID, i, string(g.Area),
			g.FocusGroup, g.FocusArea, g.FocusGrades, g.FocusStudentGroup,
			g.Outcome, g.CurrentData, g.RawStrategies,
			g.StrategiesSummarized, g.EngagementStrategies)
		if err != nil {
			return fmt.Errorf("insert goal %d for %s: %w", i+1, res.Name, err)
		}

		for j, s := range g.Strategies {
			_, err = tx.ExecContext(ctx,
				rebind(r.pg, `INSERT INTO strategies (id, goal_id, position, action, measures) VALUES (?, ?, ?, ?, ?)`),
				uuid.New().String(), goalID, j, s.Action, s.Measures)
			if err != nil {
				return fmt.Errorf("insert strategy %d for %s goal %d: %w", j+1, res.Name, i+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	r.logger.Debug("db.result_saved", "school", res.Name, "goals", len(res.Goals))
	return nil
}

func (r *resultRepository) deleteSchool(ctx context.Context, tx *sql.Tx, name, level string) error {
	var schoolID string
	err := tx.QueryRowContext(ctx,
		rebind(r.pg, `SELECT id FROM schools WHERE name = ? AND level = ?`), name, level).Scan(&schoolID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up school %s: %w", name, err)
	}

	// Cascades are not guaranteed on by default in SQLite, so children go
	// explicitly.
	for _, q := range []string{
		`DELETE FROM strategies WHERE goal_id IN (SELECT id FROM goals WHERE school_id = ?)`,
		`DELETE FROM goals WHERE school_id = ?`,
		`DELETE FROM schools WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, rebind(r.pg, q), schoolID); err != nil {
			return fmt.Errorf("clear school %s: %w", name, err)
		}
	}
	return nil
}

// ListResults returns all stored schools with their goals and strategies,
// ordered by level then name.
func (r *resultRepository) ListResults(ctx context.Context) ([]extract.SchoolResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, level FROM schools ORDER BY level, name`)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer rows.Close()

	var results []extract.SchoolResult
	var ids []string
	for rows.Next() {
		var id string
		var res extract.SchoolResult
		if err := rows.Scan(&id, &res.Name, &res.Level); err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		ids = append(ids, id)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}

	for i, id := range ids {
		goals, err := r.goalsForSchool(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("goals for %s: %w", results[i].Name, err)
		}
		results[i].Goals = goals
	}
	return results, nil
}

func (r *resultRepository) goalsForSchool(ctx context.Context, schoolID string) ([]extract.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		rebind(r.pg, `SELECT id, area,
			focus_group, focus_area, focus_grades, focus_student_group,
			outcome, current_data, raw_strategies,
			strategies_summarized, engagement_strategies
		FROM goals WHERE school_id = ? ORDER BY position`), schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []extract.Goal
	var ids []string
	for rows.Next() {
		var id, area string
		var g extract.Goal
		if err := rows.Scan(&id, &area,
			&g.FocusGroup, &g.FocusArea, &g.FocusGrades, &g.FocusStudentGroup,
			&g.Outcome, &g.CurrentData, &g.RawStrategies,
			&g.StrategiesSummarized, &g.EngagementStrategies); err != nil {
			return nil, err
		}
		g.Area = constants.Area(area)
		ids = append(ids, id)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		strategies, err := r.strategiesForGoal(ctx, id)
		if err != nil {
			return nil, err
		}
		goals[i].Strategies = strategies
	}
	return goals, nil
}

func (r *resultRepository) strategiesForGoal(ctx context.Context, goalID string) ([]extract.Strategy, error) {
	rows, err := r.db.QueryContext(ctx,
		rebind(r.pg, `SELECT action, measures FROM strategies WHERE goal_id = ? ORDER BY position`), goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	strategies := []extract.Strategy{}
	for rows.Next() {
		var s extract.Strategy
		if err := rows.Scan(&s.Action, &s.Measures); err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return strategies, rows.Err()
}

// LookupFocus finds a previously normalized focus pair for the exact same
// goal fields. Implements llm.FocusCache; a miss is (nil, nil).
func (r *resultRepository) LookupFocus(ctx context.Context, req llm.FocusRequest) (*llm.FocusResult, error) {
	var res llm.FocusResult
	err := r.db.QueryRowContext(ctx,
		rebind(r.pg, `SELECT g.focus_grades, g.focus_student_group
			FROM goals g JOIN schools s ON s.id = g.school_id
			WHERE s.name = ? AND s.level = ?
			  AND g.focus_group = ? AND g.focus_area = ? AND g.outcome = ?
			  AND g.focus_grades <> ''
			ORDER BY s.extracted_at DESC LIMIT 1`),
		req.SchoolName, req.SchoolLevel, req.FocusGroup, req.FocusArea, req.Outcome).
		Scan(&res.FocusGrades, &res.FocusStudentGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("focus lookup: %w", err)
	}
	return &res, nil
}
