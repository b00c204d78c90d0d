package ledger

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/pin"
	"github.com/yurifrl/tally/pkg/store"
)

// memStore records saves and can be told to fail them.
type memStore struct {
	txs       []models.Transaction
	settings  models.Settings
	saves     int
	failSaves bool
}

func (m *memStore) LoadTransactions() []models.Transaction { return append([]models.Transaction(nil), m.txs...) }
func (m *memStore) LoadSettings() models.Settings          { return m.settings.Clone() }

func (m *memStore) SaveTransactions(txs []models.Transaction) error {
	if m.failSaves {
		return errors.New("disk full")
	}
	m.saves++
	m.txs = append([]models.Transaction(nil), txs...)
	return nil
}

func (m *memStore) SaveSettings(s models.Settings) error {
	if m.failSaves {
		return errors.New("disk full")
	}
	m.saves++
	m.settings = s.Clone()
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newSession(t *testing.T, st Store) (*Session, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2025, 3, 17, 9, 0, 0, 0, time.Local)}
	return Open(st, log.New(io.Discard), WithClock(c.now)), c
}

func TestAddPersists(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings()}
	s, _ := newSession(t, st)

	tx, err := s.Add(models.NewTransactionFromInput("income", "1500").SetCategory("Salary"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if tx.Date != "2025-03-17" || tx.CreatedAt != "2025-03-17T09:00:01" {
		t.Errorf("unexpected defaults: %+v", tx)
	}
	if st.saves != 1 || len(st.txs) != 1 || st.txs[0].ID != tx.ID {
		t.Errorf("expected one persisted record, got %+v (saves=%d)", st.txs, st.saves)
	}
}

func TestAddValidationLeavesStateUnchanged(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings()}
	s, _ := newSession(t, st)

	_, err := s.Add(models.NewTransactionFromInput("expense", "0"))
	if !errors.Is(err, models.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	_, err = s.Add(models.NewTransactionFromInput("expense", "3").SetDate("17/03/2025"))
	if !errors.Is(err, models.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if len(s.Transactions()) != 0 || st.saves != 0 {
		t.Errorf("rejected input must not mutate or save")
	}
}

func TestAddGivesUniqueIDs(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings()}
	s, _ := newSession(t, st)

	a, _ := s.AddTransaction(models.Transaction{ID: 100, Type: models.Expense, Amount: decimal.NewFromInt(1)})
	b, _ := s.AddTransaction(models.Transaction{ID: 100, Type: models.Expense, Amount: decimal.NewFromInt(1)})
	c, _ := s.AddTransaction(models.Transaction{ID: 50, Type: models.Expense, Amount: decimal.NewFromInt(1)})
	if a.ID != 100 || b.ID != 101 || c.ID != 50 {
		t.Errorf("unexpected ids %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings(), failSaves: true}
	s, _ := newSession(t, st)

	_, err := s.Add(models.NewTransactionFromInput("expense", "12"))
	if !errors.Is(err, ErrNotSaved) {
		t.Fatalf("expected ErrNotSaved, got %v", err)
	}
	if len(s.Transactions()) != 1 {
		t.Errorf("unsaved change should stay in memory for the session")
	}
	if len(st.txs) != 0 {
		t.Errorf("store should be untouched")
	}
}

func TestDeleteAndUndo(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings(), txs: []models.Transaction{
		{ID: 1, CreatedAt: "2025-01-01T10:00:00", Type: models.Expense, Amount: decimal.NewFromInt(1)},
		{ID: 2, CreatedAt: "2025-01-03T10:00:00", Type: models.Expense, Amount: decimal.NewFromInt(1)},
		{ID: 3, CreatedAt: "2025-01-02T10:00:00", Type: models.Expense, Amount: decimal.NewFromInt(1)},
		{ID: 3, CreatedAt: "2025-01-02T10:00:00", Type: models.Expense, Amount: decimal.NewFromInt(1)},
	}}
	s, _ := newSession(t, st)

	if err := s.Delete(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if st.saves != 0 {
		t.Errorf("a failed delete must not save")
	}
	if err := s.Delete(3); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := len(s.Transactions()); got != 2 {
		t.Errorf("expected duplicates removed together, %d left", got)
	}

	last, err := s.Undo()
	if err != nil || last.ID != 2 {
		t.Fatalf("expected to undo id 2, got %d (%v)", last.ID, err)
	}
	if _, err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Undo(); !errors.Is(err, ErrEmptyLedger) {
		t.Errorf("expected ErrEmptyLedger, got %v", err)
	}
}

func TestResetAndImport(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings(), txs: []models.Transaction{{ID: 1}, {ID: 2}}}
	s, _ := newSession(t, st)

	n, err := s.Import([]models.Transaction{{ID: 2}, {ID: 3}, {ID: 3}, {ID: 4}})
	if err != nil || n != 2 {
		t.Fatalf("expected 2 imported, got %d (%v)", n, err)
	}
	if _, err := s.Find(4); err != nil {
		t.Errorf("imported record missing: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if len(s.Transactions()) != 0 || len(st.txs) != 0 {
		t.Errorf("reset should clear memory and storage")
	}
}

func TestImportAssignsIDsToUnidentifiedRecords(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings(), txs: []models.Transaction{{ID: 1}}}
	s, _ := newSession(t, st)

	batch := []models.Transaction{{Note: "a"}, {Note: "b"}}
	for round := 0; round < 2; round++ {
		n, err := s.Import(batch)
		if err != nil || n != 2 {
			t.Fatalf("round %d: expected 2 imported, got %d (%v)", round, n, err)
		}
	}

	txs := s.Transactions()
	if len(txs) != 5 || len(st.txs) != 5 {
		t.Fatalf("expected 5 records in memory and storage, got %d and %d", len(txs), len(st.txs))
	}
	ids := map[int64]bool{}
	for _, tx := range txs {
		if tx.ID == 0 || ids[tx.ID] {
			t.Errorf("duplicate or missing id %d", tx.ID)
		}
		ids[tx.ID] = true
	}
	if batch[0].ID != 0 {
		t.Errorf("caller slice must not be modified")
	}
}

func TestBudgets(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings()}
	s, _ := newSession(t, st)

	if err := s.SetBudget(" ", decimal.NewFromInt(10)); !errors.Is(err, ErrCategoryRequired) {
		t.Errorf("expected ErrCategoryRequired, got %v", err)
	}
	if err := s.SetBudget("Food", decimal.Zero); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if err := s.SetBudget(" Food ", decimal.NewFromInt(100)); err != nil {
		t.Fatal(err)
	}
	if !st.settings.Budgets["Food"].Equal(decimal.NewFromInt(100)) {
		t.Errorf("budget not persisted: %v", st.settings.Budgets)
	}

	err := s.SetBudgets(map[string]decimal.Decimal{"Rent": decimal.NewFromInt(900), "Fun": decimal.NewFromInt(-1)})
	if !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, ok := s.Settings().Budgets["Rent"]; ok {
		t.Errorf("invalid batch must not apply partially")
	}

	if err := s.SetBudgets(map[string]decimal.Decimal{"Rent": decimal.NewFromInt(900)}, "Food"); err != nil {
		t.Fatal(err)
	}
	if got := s.Budgets(); len(got) != 1 || got[0].Category != "Rent" {
		t.Errorf("expected only Rent, got %+v", got)
	}
	if err := s.SetBudget("Food", decimal.NewFromInt(100)); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveBudget("Rent"); err != nil {
		t.Fatal(err)
	}

	if err := s.RemoveBudget("Travel"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.RemoveBudget("Food"); err != nil {
		t.Fatal(err)
	}
	if len(s.Budgets()) != 0 {
		t.Errorf("expected no budgets left")
	}
}

func TestPINLifecycle(t *testing.T) {
	st := &memStore{settings: models.DefaultSettings()}
	s, _ := newSession(t, st)

	if s.Locked() {
		t.Fatal("fresh ledger should not be locked")
	}
	if err := s.RemovePIN("1234"); !errors.Is(err, ErrNoPIN) {
		t.Errorf("expected ErrNoPIN, got %v", err)
	}
	if err := s.SetPIN("", "1234", "1235"); !errors.Is(err, pin.ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
	if err := s.SetPIN("", "1234", "1234"); err != nil {
		t.Fatal(err)
	}
	if *st.settings.PINHash != pin.Hash("1234") {
		t.Errorf("stored hash mismatch")
	}
	if err := s.SetPIN("0000", "5678", "5678"); !errors.Is(err, pin.ErrWrong) {
		t.Errorf("expected ErrWrong, got %v", err)
	}
	if err := s.SetPIN("1234", "5678", "5678"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemovePIN("1234"); !errors.Is(err, pin.ErrWrong) {
		t.Errorf("expected ErrWrong, got %v", err)
	}
	if err := s.RemovePIN("5678"); err != nil {
		t.Fatal(err)
	}
	if s.Locked() || st.settings.PINHash != nil {
		t.Errorf("pin should be cleared")
	}
}

func TestUnlock(t *testing.T) {
	h := pin.Hash("4321")
	settings := models.DefaultSettings()
	settings.PINHash = &h

	t.Run("third attempt", func(t *testing.T) {
		s, _ := newSession(t, &memStore{settings: settings})
		answers := []string{"1", "2", "4321"}
		calls := 0
		err := s.Unlock(PrompterFunc(func(string) (string, error) {
			calls++
			return answers[calls-1], nil
		}))
		if err != nil || calls != 3 {
			t.Errorf("expected unlock on third attempt, got %v after %d", err, calls)
		}
	})

	t.Run("locked out", func(t *testing.T) {
		s, _ := newSession(t, &memStore{settings: settings})
		calls := 0
		err := s.Unlock(PrompterFunc(func(string) (string, error) {
			calls++
			return "0000", nil
		}))
		if !errors.Is(err, ErrLocked) || calls != pin.MaxAttempts {
			t.Errorf("expected ErrLocked after %d attempts, got %v after %d", pin.MaxAttempts, err, calls)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		s, _ := newSession(t, &memStore{settings: settings})
		err := s.Unlock(PrompterFunc(func(string) (string, error) { return "", io.EOF }))
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
	})

	t.Run("no pin", func(t *testing.T) {
		s, _ := newSession(t, &memStore{settings: models.DefaultSettings()})
		err := s.Unlock(PrompterFunc(func(string) (string, error) {
			t.Fatal("prompter must not be called")
			return "", nil
		}))
		if err != nil {
			t.Errorf("unexpected error %v", err)
		}
	})
}

func TestSessionWithFileStore(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(io.Discard)
	fs := store.NewFileStore(filepath.Join(dir, "transactions.json"), filepath.Join(dir, "settings.json"), logger)

	s := Open(fs, logger)
	if _, err := s.Add(models.NewTransactionFromInput("expense", "19.99").SetCategory("Food").SetDate("2025-03-02")); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBudget("Food", decimal.NewFromInt(20)); err != nil {
		t.Fatal(err)
	}

	reopened := Open(fs, logger)
	txs := reopened.Transactions()
	if len(txs) != 1 || !txs[0].Amount.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("ledger not durable: %+v", txs)
	}
	if len(reopened.Budgets()) != 1 {
		t.Errorf("budgets not durable")
	}
}
