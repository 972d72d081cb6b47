// Package memory is an in-memory implementation of the storage contract,
// used by service tests and as a throwaway backend when no database path is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
)

type Store struct {
	mu sync.Mutex

	nextUserID        int64
	nextCategoryID    int64
	nextTransactionID int64
	nextGoalID        int64

	users        map[int64]core.User
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
	goals        map[int64]core.Goal
}

func NewStore() *Store {
	return &Store{
		users:        make(map[int64]core.User),
		categories:   make(map[int64]core.Category),
		transactions: make(map[int64]core.Transaction),
		goals:        make(map[int64]core.Goal),
	}
}

func (s *Store) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u.ID = s.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.users, id)
	// Ownership cascades, same as the SQLite foreign keys.
	for txID, t := range s.transactions {
		if t.UserID == id {
			delete(s.transactions, txID)
		}
	}
	for goalID, g := range s.goals {
		if g.UserID == id {
			delete(s.goals, goalID)
		}
	}
	return nil
}

func (s *Store) ListUserIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) SeedCategories(_ context.Context, names []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := make(map[string]bool, len(s.categories))
	for _, c := range s.categories {
		existing[c.Name] = true
	}
	inserted := 0
	for _, name := range names {
		if existing[name] {
			continue
		}
		s.nextCategoryID++
		s.categories[s.nextCategoryID] = core.Category{ID: s.nextCategoryID, Name: name}
		existing[name] = true
		inserted++
	}
	return inserted, nil
}

func (s *Store) GetCategoryByID(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) GetCategoryByName(_ context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return core.Category{}, core.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	return cats, nil
}

func (s *Store) CreateTransaction(_ context.Context, t *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTransactionID++
	t.ID = s.nextTransactionID
	if t.CreatedOn.IsZero() {
		t.CreatedOn = time.Now().UTC()
	}
	s.transactions[t.ID] = *t
	return nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListTransactionsByUser(_ context.Context, userID int64) ([]core.Transaction, error) {
	return s.filter(func(t core.Transaction) bool { return t.UserID == userID }), nil
}

func (s *Store) ListTransactionsByType(_ context.Context, userID int64, txType core.TransactionType) ([]core.Transaction, error) {
	return s.filter(func(t core.Transaction) bool {
		return t.UserID == userID && t.Type == txType
	}), nil
}

func (s *Store) ListTransactionsByCategory(_ context.Context, userID, categoryID int64) ([]core.Transaction, error) {
	return s.filter(func(t core.Transaction) bool {
		return t.UserID == userID && t.CategoryID == categoryID
	}), nil
}

func (s *Store) ListTransactionsByDateRange(_ context.Context, userID int64, start, end *time.Time) ([]core.Transaction, error) {
	return s.filter(func(t core.Transaction) bool {
		return t.UserID == userID && inWindow(t.CreatedOn, start, end)
	}), nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.transactions[t.ID]
	if !ok || existing.UserID != t.UserID {
		return core.ErrNotFound
	}
	s.transactions[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok || t.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) DeleteTransactions(_ context.Context, userID int64, ids []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if t, ok := s.transactions[id]; ok && t.UserID == userID {
			delete(s.transactions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) SumByType(_ context.Context, userID int64, txType core.TransactionType, start, end *time.Time) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cents int64
	for _, t := range s.transactions {
		if t.UserID == userID && t.Type == txType && inWindow(t.CreatedOn, start, end) {
			cents += t.Amount.Cents
		}
	}
	return core.Money{Cents: cents}, nil
}

func (s *Store) SumByCategory(_ context.Context, userID int64, txType core.TransactionType, start, end *time.Time) ([]core.CategoryAmount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName := make(map[string]int64)
	for _, t := range s.transactions {
		if t.UserID != userID || t.Type != txType || !inWindow(t.CreatedOn, start, end) {
			continue
		}
		name := "Other"
		if c, ok := s.categories[t.CategoryID]; ok {
			name = c.Name
		}
		byName[name] += t.Amount.Cents
	}
	totals := make([]core.CategoryAmount, 0, len(byName))
	for name, cents := range byName {
		totals = append(totals, core.CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Name < totals[j].Name })
	return totals, nil
}

func (s *Store) CreateGoal(_ context.Context, g *core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGoalID++
	g.ID = s.nextGoalID
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) GetGoal(_ context.Context, userID, id int64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return core.Goal{}, core.ErrNotFound
	}
	return g, nil
}

func (s *Store) ListGoalsByUser(_ context.Context, userID int64) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var goals []core.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.goals[g.ID]
	if !ok || existing.UserID != g.UserID {
		return core.ErrNotFound
	}
	s.goals[g.ID] = g
	return nil
}

func (s *Store) UpdateGoalStatus(_ context.Context, userID, id int64, status core.GoalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return core.ErrNotFound
	}
	g.Status = status
	s.goals[id] = g
	return nil
}

func (s *Store) AddGoalProgress(_ context.Context, userID, id int64, cents int64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return core.Goal{}, core.ErrNotFound
	}
	g.Current.Cents += cents
	s.goals[id] = g
	return g, nil
}

func (s *Store) DeleteGoal(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return core.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) filter(keep func(core.Transaction) bool) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txs []core.Transaction
	for _, t := range s.transactions {
		if keep(t) {
			txs = append(txs, t)
		}
	}
	// Newest first, matching the SQLite ordering.
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].CreatedOn.Equal(txs[j].CreatedOn) {
			return txs[i].CreatedOn.After(txs[j].CreatedOn)
		}
		return txs[i].ID > txs[j].ID
	})
	return txs
}

func inWindow(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(*start) {
		return false
	}
	if end != nil && t.After(*end) {
		return false
	}
	return true
}
