package services

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Store contracts the services depend on. SQLite satisfies all of them in
// production; the in-memory store does the same in tests.
type (
	UserStore interface {
		CreateUser(ctx context.Context, u *core.User) error
		GetUserByID(ctx context.Context, id int64) (core.User, error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
		DeleteUser(ctx context.Context, id int64) error
	}

	CategoryStore interface {
		SeedCategories(ctx context.Context, names []string) (int, error)
		GetCategoryByID(ctx context.Context, id int64) (core.Category, error)
		GetCategoryByName(ctx context.Context, name string) (core.Category, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
	}

	LedgerStore interface {
		CreateTransaction(ctx context.Context, t *core.Transaction) error
		GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error)
		ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
		ListTransactionsByType(ctx context.Context, userID int64, txType core.TransactionType) ([]core.Transaction, error)
		ListTransactionsByCategory(ctx context.Context, userID, categoryID int64) ([]core.Transaction, error)
		ListTransactionsByDateRange(ctx context.Context, userID int64, start, end *time.Time) ([]core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, userID, id int64) error
		DeleteTransactions(ctx context.Context, userID int64, ids []int64) (int64, error)
		SumByType(ctx context.Context, userID int64, txType core.TransactionType, start, end *time.Time) (core.Money, error)
		SumByCategory(ctx context.Context, userID int64, txType core.TransactionType, start, end *time.Time) ([]core.CategoryAmount, error)
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g *core.Goal) error
		GetGoal(ctx context.Context, userID, id int64) (core.Goal, error)
		ListGoalsByUser(ctx context.Context, userID int64) ([]core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) error
		UpdateGoalStatus(ctx context.Context, userID, id int64, status core.GoalStatus) error
		AddGoalProgress(ctx context.Context, userID, id int64, cents int64) (core.Goal, error)
		DeleteGoal(ctx context.Context, userID, id int64) error
	}
)
