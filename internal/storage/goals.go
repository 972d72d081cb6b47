package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

const goalColumns = `id, user_id, description, target_cents, current_cents, status, start_date, end_date`

// CreateGoal inserts a goal and fills in the generated ID. The caller is
// responsible for setting the initial status.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g *core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, description, target_cents, current_cents, status, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Description, g.Target.Cents, g.Current.Cents, string(g.Status),
		g.StartDate.String(), g.EndDate.String())
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("goal id: %w", err)
	}
	g.ID = id
	return nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoalsByUser(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET description = ?, target_cents = ?, current_cents = ?, status = ?, start_date = ?, end_date = ?
		 WHERE id = ? AND user_id = ?`,
		g.Description, g.Target.Cents, g.Current.Cents, string(g.Status),
		g.StartDate.String(), g.EndDate.String(), g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) UpdateGoalStatus(ctx context.Context, userID, id int64, status core.GoalStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET status = ? WHERE id = ? AND user_id = ?`,
		string(status), id, userID)
	if err != nil {
		return fmt.Errorf("update goal status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// AddGoalProgress adds cents to a goal's current amount and returns the
// updated row. The add and the read happen in one transaction. The store
// does not gate on status or sign; the service layer does.
func (r *SQLiteRepository) AddGoalProgress(ctx context.Context, userID, id int64, cents int64) (core.Goal, error) {
	var g core.Goal
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE goals SET current_cents = current_cents + ? WHERE id = ? AND user_id = ?`,
			cents, id, userID)
		if err != nil {
			return fmt.Errorf("add goal progress: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrNotFound
		}
		row := tx.QueryRowContext(ctx,
			`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, id, userID)
		g, err = scanGoal(row)
		if err != nil {
			return fmt.Errorf("reread goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g          core.Goal
		status     string
		start, end string
	)
	if err := row.Scan(&g.ID, &g.UserID, &g.Description, &g.Target.Cents, &g.Current.Cents, &status, &start, &end); err != nil {
		return core.Goal{}, err
	}
	g.Status = core.GoalStatus(status)
	if d, err := core.ParseDate(start); err == nil {
		g.StartDate = d
	}
	if d, err := core.ParseDate(end); err == nil {
		g.EndDate = d
	}
	return g, nil
}
