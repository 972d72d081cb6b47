package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// GoalService manages the savings goal lifecycle. Goals whose end date has
// passed are completed lazily: every read path checks and persists the
// transition before returning, so callers never observe a lapsed goal as
// current.
type GoalService struct {
	goals  GoalStore
	logger *log.Logger

	// now is swapped in tests to pin the date.
	now func() core.Date
}

func NewGoalService(goals GoalStore, logger *log.Logger) *GoalService {
	return &GoalService{
		goals:  goals,
		logger: logger.WithComponent(log.ComponentGoal),
		now:    core.Today,
	}
}

// Create validates and stores a new goal. A goal funded at or above its
// target from the start is created already completed.
func (s *GoalService) Create(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.Status = g.InitialStatus()

	if err := s.goals.CreateGoal(ctx, &g); err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	s.logger.InfoContext(ctx, "Goal created",
		log.FieldUserID, g.UserID,
		log.FieldGoalID, g.ID,
		log.FieldGoalStatus, string(g.Status))
	return g, nil
}

// Get returns one goal, applying the lazy completion check first.
func (s *GoalService) Get(ctx context.Context, userID, id int64) (core.Goal, error) {
	g, err := s.goals.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	return s.settle(ctx, g)
}

// ListAll returns every goal the user owns, lapsed ones already flipped to
// completed.
func (s *GoalService) ListAll(ctx context.Context, userID int64) ([]core.Goal, error) {
	return s.list(ctx, userID, "")
}

// ListCurrent returns the goals still in progress. A goal whose end date
// passed is completed and excluded within the same call.
func (s *GoalService) ListCurrent(ctx context.Context, userID int64) ([]core.Goal, error) {
	return s.list(ctx, userID, core.GoalCurrent)
}

// ListCompleted returns finished goals, including any that lapsed just now.
func (s *GoalService) ListCompleted(ctx context.Context, userID int64) ([]core.Goal, error) {
	return s.list(ctx, userID, core.GoalCompleted)
}

func (s *GoalService) list(ctx context.Context, userID int64, status core.GoalStatus) ([]core.Goal, error) {
	all, err := s.goals.ListGoalsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	out := make([]core.Goal, 0, len(all))
	for _, g := range all {
		g, err = s.settle(ctx, g)
		if err != nil {
			return nil, err
		}
		if status == "" || g.Status == status {
			out = append(out, g)
		}
	}
	return out, nil
}

// settle persists the current-to-completed transition for a lapsed goal and
// returns the goal as it now stands.
func (s *GoalService) settle(ctx context.Context, g core.Goal) (core.Goal, error) {
	if !g.Lapsed(s.now()) {
		return g, nil
	}
	if err := s.goals.UpdateGoalStatus(ctx, g.UserID, g.ID, core.GoalCompleted); err != nil {
		return core.Goal{}, fmt.Errorf("complete lapsed goal: %w", err)
	}
	g.Status = core.GoalCompleted
	s.logger.InfoContext(ctx, "Goal lapsed past end date, marked completed",
		log.FieldUserID, g.UserID,
		log.FieldGoalID, g.ID)
	return g, nil
}

// UpdateProgress adds a positive amount to the goal's saved total. Completed
// goals, including ones that lapse during this call, reject new progress.
func (s *GoalService) UpdateProgress(ctx context.Context, userID, id int64, amount core.Money) (core.Goal, error) {
	if amount.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}

	g, err := s.Get(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	if g.Status == core.GoalCompleted {
		return core.Goal{}, core.ErrGoalCompleted
	}

	updated, err := s.goals.AddGoalProgress(ctx, userID, id, amount.Cents)
	if err != nil {
		return core.Goal{}, fmt.Errorf("add goal progress: %w", err)
	}

	s.logger.InfoContext(ctx, "Goal progress updated",
		log.FieldUserID, userID,
		log.FieldGoalID, id,
		log.FieldAmountCents, amount.Cents)
	return updated, nil
}

// MarkCompleted flags a goal finished regardless of how much was saved.
func (s *GoalService) MarkCompleted(ctx context.Context, userID, id int64) (core.Goal, error) {
	g, err := s.goals.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	if g.Status == core.GoalCompleted {
		return g, nil
	}
	if err := s.goals.UpdateGoalStatus(ctx, userID, id, core.GoalCompleted); err != nil {
		return core.Goal{}, fmt.Errorf("update goal status: %w", err)
	}
	g.Status = core.GoalCompleted

	s.logger.InfoContext(ctx, "Goal marked completed",
		log.FieldUserID, userID, log.FieldGoalID, id)
	return g, nil
}

// MarkCurrent reopens a completed goal. Goals whose end date already passed
// cannot come back.
func (s *GoalService) MarkCurrent(ctx context.Context, userID, id int64) (core.Goal, error) {
	g, err := s.goals.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}
	if !g.Reactivatable(s.now()) {
		return core.Goal{}, core.ErrGoalLapsed
	}
	if g.Status == core.GoalCurrent {
		return g, nil
	}
	if err := s.goals.UpdateGoalStatus(ctx, userID, id, core.GoalCurrent); err != nil {
		return core.Goal{}, fmt.Errorf("update goal status: %w", err)
	}
	g.Status = core.GoalCurrent

	s.logger.InfoContext(ctx, "Goal reopened",
		log.FieldUserID, userID, log.FieldGoalID, id)
	return g, nil
}

// Update replaces the editable fields of a goal, revalidating the result.
func (s *GoalService) Update(ctx context.Context, g core.Goal) (core.Goal, error) {
	existing, err := s.goals.GetGoal(ctx, g.UserID, g.ID)
	if err != nil {
		return core.Goal{}, err
	}
	g.Status = existing.Status
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if err := s.goals.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}
	return s.settle(ctx, g)
}

// CompletionPercentage reports how far along a goal is, uncapped.
func (s *GoalService) CompletionPercentage(ctx context.Context, userID, id int64) (float64, error) {
	g, err := s.Get(ctx, userID, id)
	if err != nil {
		return 0, err
	}
	return g.CompletionPercentage(), nil
}

func (s *GoalService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.goals.DeleteGoal(ctx, userID, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Goal deleted",
		log.FieldUserID, userID, log.FieldGoalID, id)
	return nil
}
