package services

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// TransactionService orchestrates ledger writes across storage and AMQP.
// Publish failures are logged but never fail the request: the write is
// durable locally and the worker catches up on its next pass.
type TransactionService struct {
	ledger     LedgerStore
	categories CategoryStore
	amqpClient *amqp.Client
	logger     *log.Logger
}

func NewTransactionService(ledger LedgerStore, categories CategoryStore, amqpClient *amqp.Client, logger *log.Logger) *TransactionService {
	return &TransactionService{
		ledger:     ledger,
		categories: categories,
		amqpClient: amqpClient,
		logger:     logger.WithComponent(log.ComponentLedger),
	}
}

// AddIncome records an income entry under the named category.
func (s *TransactionService) AddIncome(ctx context.Context, userID int64, categoryName, description string, amount core.Money) (core.Transaction, error) {
	return s.add(ctx, userID, categoryName, description, amount, core.Income)
}

// AddExpense records an expense entry under the named category.
func (s *TransactionService) AddExpense(ctx context.Context, userID int64, categoryName, description string, amount core.Money) (core.Transaction, error) {
	return s.add(ctx, userID, categoryName, description, amount, core.Expense)
}

func (s *TransactionService) add(ctx context.Context, userID int64, categoryName, description string, amount core.Money, txType core.TransactionType) (core.Transaction, error) {
	category, err := s.categories.GetCategoryByName(ctx, strings.TrimSpace(categoryName))
	if err != nil {
		return core.Transaction{}, err
	}

	return s.Create(ctx, core.Transaction{
		UserID:      userID,
		CategoryID:  category.ID,
		Amount:      amount,
		Type:        txType,
		Description: strings.TrimSpace(description),
	})
}

// Create validates and stores a transaction, then publishes a ledger event.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, err := s.categories.GetCategoryByID(ctx, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	if err := s.ledger.CreateTransaction(ctx, &t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerEventMessage(t.UserID, t.ID, amqp.ActionCreated, t.CreatedOn))

	s.logger.InfoContext(ctx, "Transaction recorded",
		log.FieldUserID, t.UserID,
		log.FieldTransactionID, t.ID,
		log.FieldTxType, string(t.Type),
		log.FieldAmountCents, t.Amount.Cents)
	return t, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return s.ledger.GetTransaction(ctx, userID, id)
}

func (s *TransactionService) ListAll(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return s.ledger.ListTransactionsByUser(ctx, userID)
}

func (s *TransactionService) ListByType(ctx context.Context, userID int64, txType core.TransactionType) ([]core.Transaction, error) {
	if !txType.Valid() {
		return nil, core.ErrInvalidType
	}
	return s.ledger.ListTransactionsByType(ctx, userID, txType)
}

func (s *TransactionService) ListByCategory(ctx context.Context, userID int64, categoryID int64) ([]core.Transaction, error) {
	return s.ledger.ListTransactionsByCategory(ctx, userID, categoryID)
}

// ListByWindow returns the entries whose timestamps fall inside w.
func (s *TransactionService) ListByWindow(ctx context.Context, userID int64, w core.Window) ([]core.Transaction, error) {
	return s.ledger.ListTransactionsByDateRange(ctx, userID, w.StartPtr(), w.EndPtr())
}

// Update replaces the editable fields of an existing entry.
func (s *TransactionService) Update(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	existing, err := s.ledger.GetTransaction(ctx, t.UserID, t.ID)
	if err != nil {
		return core.Transaction{}, err
	}
	t.CreatedOn = existing.CreatedOn

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, err := s.categories.GetCategoryByID(ctx, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}
	if err := s.ledger.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return t, nil
}

// Delete removes a single entry owned by userID.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	t, err := s.ledger.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.ledger.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerEventMessage(userID, id, amqp.ActionDeleted, t.CreatedOn))

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldUserID, userID, log.FieldTransactionID, id)
	return nil
}

// DeleteBulk removes the listed entries in one statement and reports how many
// actually belonged to the user and went away.
func (s *TransactionService) DeleteBulk(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	existing, err := s.ledger.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list transactions: %w", err)
	}
	byID := make(map[int64]core.Transaction, len(existing))
	for _, t := range existing {
		byID[t.ID] = t
	}

	deleted, err := s.ledger.DeleteTransactions(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete transactions: %w", err)
	}

	for _, id := range ids {
		if t, ok := byID[id]; ok {
			s.publish(ctx, amqp.NewLedgerEventMessage(userID, id, amqp.ActionDeleted, t.CreatedOn))
		}
	}

	s.logger.InfoContext(ctx, "Transactions deleted",
		log.FieldUserID, userID,
		"requested", len(ids),
		"deleted", deleted)
	return deleted, nil
}

func (s *TransactionService) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishLedgerEvent(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.FieldUserID, msg.UserID,
			log.FieldTransactionID, msg.TransactionID,
			log.FieldError, err)
	}
}
