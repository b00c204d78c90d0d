package ledger

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/pin"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyLedger      = errors.New("ledger is empty")
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidLimit     = errors.New("budget must be greater than zero")
	ErrNoPIN            = errors.New("no pin is set")
	ErrLocked           = errors.New("too many wrong pin attempts")
	ErrCancelled        = errors.New("pin entry cancelled")
	ErrNotSaved         = errors.New("change kept in memory but not saved")
)

// Store is the persistence the session writes through after every mutation.
type Store interface {
	LoadTransactions() []models.Transaction
	SaveTransactions([]models.Transaction) error
	LoadSettings() models.Settings
	SaveSettings(models.Settings) error
}

// Prompter asks the user for a PIN. Returning an error cancels unlocking.
type Prompter interface {
	PIN(prompt string) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(prompt string) (string, error)

func (f PrompterFunc) PIN(prompt string) (string, error) { return f(prompt) }

// Session owns the in-memory ledger and settings for one running process.
type Session struct {
	mu       sync.Mutex
	store    Store
	logger   *log.Logger
	now      func() time.Time
	txs      []models.Transaction
	settings models.Settings
}

type Option func(*Session)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Open loads the ledger and the settings once.
func Open(store Store, logger *log.Logger, opts ...Option) *Session {
	s := &Session{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.txs = store.LoadTransactions()
	s.settings = store.LoadSettings()
	if s.settings.Budgets == nil {
		s.settings.Budgets = map[string]decimal.Decimal{}
	}
	s.logger.Debug("session opened", "transactions", len(s.txs), "budgets", len(s.settings.Budgets), "locked", s.settings.HasPIN())
	return s
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.now() }

// Transactions returns a copy of the ledger in insertion order.
func (s *Session) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.txs...)
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Find returns the first record with the given id.
func (s *Session) Find(id int64) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.txs {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
}

// Add validates the builder's input and appends the resulting record.
func (s *Session) Add(b *models.TransactionBuilder) (models.Transaction, error) {
	tx, err := b.SetClock(s.now).Build()
	if err != nil {
		return models.Transaction{}, err
	}
	return s.AddTransaction(*tx)
}

// AddTransaction appends an already validated record, giving it a unique ID.
func (s *Session) AddTransaction(tx models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.uniqueID(tx.ID)
	s.txs = append(s.txs, tx)
	s.logger.Info("transaction added", "id", tx.ID, "type", tx.Type, "amount", tx.Amount.StringFixed(2), "category", tx.Category)
	return tx, s.saveTransactions()
}

// Import appends the records whose ID is not yet in the ledger. Records
// with a zero ID came from a source without ledger ids and always get a
// fresh one, as AddTransaction does.
func (s *Session) Import(txs []models.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]bool, len(s.txs))
	for _, t := range s.txs {
		seen[t.ID] = true
	}
	added := 0
	for _, t := range txs {
		if t.ID == 0 {
			t.ID = s.uniqueID(0)
		} else if seen[t.ID] {
			s.logger.Debug("skipping known transaction", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		s.txs = append(s.txs, t)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	s.logger.Info("transactions imported", "count", added)
	return added, s.saveTransactions()
}

// Delete removes every record with the given id.
func (s *Session) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.txs[:0:0]
	for _, t := range s.txs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.txs) {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	s.txs = kept
	s.logger.Info("transaction deleted", "id", id)
	return s.saveTransactions()
}

// Undo removes the most recently created record and returns it.
func (s *Session) Undo() (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.txs) == 0 {
		return models.Transaction{}, ErrEmptyLedger
	}
	last := s.txs[0]
	for _, t := range s.txs[1:] {
		if t.CreatedAt > last.CreatedAt {
			last = t
		}
	}
	kept := s.txs[:0:0]
	for _, t := range s.txs {
		if t.ID != last.ID {
			kept = append(kept, t)
		}
	}
	s.txs = kept
	s.logger.Info("transaction undone", "id", last.ID)
	return last, s.saveTransactions()
}

// Reset deletes every transaction. Settings are kept.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.txs)
	s.txs = []models.Transaction{}
	s.logger.Warn("ledger reset", "removed", n)
	return s.saveTransactions()
}

// SetBudget sets or replaces the monthly limit of category.
func (s *Session) SetBudget(category string, limit decimal.Decimal) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return ErrCategoryRequired
	}
	if !limit.IsPositive() {
		return ErrInvalidLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Budgets[category] = limit
	s.logger.Info("budget set", "category", category, "limit", limit.StringFixed(2))
	return s.saveSettings()
}

// SetBudgets sets several budgets and drops the categories in remove with a
// single save. Nothing is changed when any entry is invalid.
func (s *Session) SetBudgets(budgets map[string]decimal.Decimal, remove ...string) error {
	clean := make(map[string]decimal.Decimal, len(budgets))
	for cat, limit := range budgets {
		cat = strings.TrimSpace(cat)
		if cat == "" {
			return ErrCategoryRequired
		}
		if !limit.IsPositive() {
			return fmt.Errorf("%s: %w", cat, ErrInvalidLimit)
		}
		clean[cat] = limit
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range remove {
		delete(s.settings.Budgets, cat)
	}
	for cat, limit := range clean {
		s.settings.Budgets[cat] = limit
	}
	s.logger.Info("budgets applied", "set", len(clean), "removed", len(remove))
	return s.saveSettings()
}

// RemoveBudget drops the limit of category.
func (s *Session) RemoveBudget(category string) error {
	category = strings.TrimSpace(category)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settings.Budgets[category]; !ok {
		return fmt.Errorf("budget %q: %w", category, ErrNotFound)
	}
	delete(s.settings.Budgets, category)
	s.logger.Info("budget removed", "category", category)
	return s.saveSettings()
}

// Budgets lists the configured limits ordered by category name.
func (s *Session) Budgets() []models.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.SortedBudgets()
}

// Locked reports whether a PIN must be entered before using the ledger.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.HasPIN()
}

// Unlock asks p for the PIN up to pin.MaxAttempts times.
func (s *Session) Unlock(p Prompter) error {
	s.mu.Lock()
	stored := ""
	if s.settings.HasPIN() {
		stored = *s.settings.PINHash
	}
	s.mu.Unlock()
	if stored == "" {
		return nil
	}

	for attempt := 1; attempt <= pin.MaxAttempts; attempt++ {
		entered, err := p.PIN("Enter PIN: ")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		if pin.Verify(entered, stored) {
			return nil
		}
		s.logger.Warn("wrong pin", "attempt", attempt, "max", pin.MaxAttempts)
	}
	return ErrLocked
}

// SetPIN sets or changes the PIN. current is ignored when no PIN is set.
func (s *Session) SetPIN(current, next, confirm string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings.HasPIN() && !pin.Verify(current, *s.settings.PINHash) {
		return pin.ErrWrong
	}
	hash, err := pin.Confirm(next, confirm)
	if err != nil {
		return err
	}
	s.settings.PINHash = &hash
	s.logger.Info("pin updated")
	return s.saveSettings()
}

// RemovePIN clears the PIN after checking the current one.
func (s *Session) RemovePIN(current string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settings.HasPIN() {
		return ErrNoPIN
	}
	if !pin.Verify(current, *s.settings.PINHash) {
		return pin.ErrWrong
	}
	s.settings.PINHash = nil
	s.logger.Info("pin removed")
	return s.saveSettings()
}

// uniqueID bumps id past the current maximum when it is already taken.
// Callers hold s.mu.
func (s *Session) uniqueID(id int64) int64 {
	if id == 0 {
		id = s.now().UnixMilli()
	}
	taken := false
	max := id
	for _, t := range s.txs {
		if t.ID == id {
			taken = true
		}
		if t.ID > max {
			max = t.ID
		}
	}
	if taken {
		return max + 1
	}
	return id
}

func (s *Session) saveTransactions() error {
	if err := s.store.SaveTransactions(s.txs); err != nil {
		s.logger.Error("failed to persist transactions", "err", err)
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return nil
}

func (s *Session) saveSettings() error {
	if err := s.store.SaveSettings(s.settings); err != nil {
		s.logger.Error("failed to persist settings", "err", err)
		return fmt.Errorf("%w: %w", ErrNotSaved, err)
	}
	return nil
}
