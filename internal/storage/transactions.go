package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
)

const transactionColumns = `id, user_id, category_id, amount_cents, type, description, created_on`

// CreateTransaction inserts a ledger record and fills in the generated ID.
// CreatedOn defaults to the current UTC time when unset.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	if t.CreatedOn.IsZero() {
		t.CreatedOn = time.Now().UTC()
	}
	desc := sql.NullString{}
	if t.Description != "" {
		desc = sql.NullString{String: t.Description, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, amount_cents, type, description, created_on)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.CategoryID, t.Amount.Cents, string(t.Type), desc, t.CreatedOn.Unix())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return r.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY created_on DESC, id DESC`,
		userID)
}

func (r *SQLiteRepository) ListTransactionsByType(ctx context.Context, userID int64, txType core.TransactionType) ([]core.Transaction, error) {
	return r.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? AND type = ? ORDER BY created_on DESC, id DESC`,
		userID, string(txType))
}

func (r *SQLiteRepository) ListTransactionsByCategory(ctx context.Context, userID, categoryID int64) ([]core.Transaction, error) {
	return r.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? AND category_id = ? ORDER BY created_on DESC, id DESC`,
		userID, categoryID)
}

// ListTransactionsByDateRange filters on created_on; a nil endpoint leaves
// that side of the range open.
func (r *SQLiteRepository) ListTransactionsByDateRange(ctx context.Context, userID int64, start, end *time.Time) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if start != nil {
		query += ` AND created_on >= ?`
		args = append(args, start.Unix())
	}
	if end != nil {
		query += ` AND created_on <= ?`
		args = append(args, end.Unix())
	}
	query += ` ORDER BY created_on DESC, id DESC`
	return r.listTransactions(ctx, query, args...)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	desc := sql.NullString{}
	if t.Description != "" {
		desc = sql.NullString{String: t.Description, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category_id = ?, amount_cents = ?, type = ?, description = ?
		 WHERE id = ? AND user_id = ?`,
		t.CategoryID, t.Amount.Cents, string(t.Type), desc, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteTransactions removes the given ids in one statement and returns how
// many rows actually went away. Ids owned by other users simply don't count.
func (r *SQLiteRepository) DeleteTransactions(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}
	var deleted int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE user_id = ? AND id IN (`+placeholders+`)`, args...)
		if err != nil {
			return fmt.Errorf("bulk delete transactions: %w", err)
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("bulk delete count: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// SumByType totals amounts of one transaction type inside an optional
// inclusive window. Zero when nothing matches.
func (r *SQLiteRepository) SumByType(ctx context.Context, userID int64, txType core.TransactionType, start, end *time.Time) (core.Money, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE user_id = ? AND type = ?`
	args := []any{userID, string(txType)}
	if start != nil {
		query += ` AND created_on >= ?`
		args = append(args, start.Unix())
	}
	if end != nil {
		query += ` AND created_on <= ?`
		args = append(args, end.Unix())
	}
	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("sum by type: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// SumByCategory groups one transaction type by category name. Categories
// with no matching transactions do not appear.
func (r *SQLiteRepository) SumByCategory(ctx context.Context, userID int64, txType core.TransactionType, start, end *time.Time) ([]core.CategoryAmount, error) {
	query := `SELECT c.name, SUM(t.amount_cents)
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ? AND t.type = ?`
	args := []any{userID, string(txType)}
	if start != nil {
		query += ` AND t.created_on >= ?`
		args = append(args, start.Unix())
	}
	if end != nil {
		query += ` AND t.created_on <= ?`
		args = append(args, end.Unix())
	}
	query += ` GROUP BY c.name ORDER BY c.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	var totals []core.CategoryAmount
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	return totals, rows.Err()
}

func (r *SQLiteRepository) listTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		txType    string
		desc      sql.NullString
		createdOn int64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount.Cents, &txType, &desc, &createdOn); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(txType)
	t.Description = desc.String
	t.CreatedOn = time.Unix(createdOn, 0).UTC()
	return t, nil
}
