package executors

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/ynab"
)

type fakeRemote struct {
	remote  []*ynab.Remote
	created []transaction.PayloadTransaction
	err     error
}

func (f *fakeRemote) Transactions(budgetID, accountID string) ([]*ynab.Remote, error) {
	return f.remote, f.err
}

func (f *fakeRemote) CreateTransactions(budgetID string, payloads []transaction.PayloadTransaction) error {
	f.created = append(f.created, payloads...)
	return nil
}

func remoteTx(t *testing.T, date string, amount int64, payee, memo string) *ynab.Remote {
	t.Helper()
	d, err := api.DateFromString(date)
	if err != nil {
		t.Fatal(err)
	}
	return ynab.NewRemote(&transaction.Transaction{Date: d, Amount: amount, PayeeName: &payee, Memo: &memo})
}

func ledger() []models.Transaction {
	return []models.Transaction{
		{ID: 1, Date: "2024-03-01", Type: models.Income, Amount: decimal.NewFromInt(1000), Category: "Salary"},
		{ID: 2, Date: "2024-03-02", Type: models.Expense, Amount: decimal.RequireFromString("12.30"), Category: "Food", Note: "lunch"},
		{ID: 3, Date: "2024-03-03", Type: models.Expense, Amount: decimal.NewFromInt(5), Category: "Food"},
	}
}

func TestBuildReportByCustomID(t *testing.T) {
	remote := []*ynab.Remote{remoteTx(t, "2024-03-02", -12300, "Food", "2,Food,lunch")}
	report := BuildReport(ledger(), remote, true)

	if report.InSyncCount() != 1 || report.MissingCount() != 2 {
		t.Fatalf("unexpected counts: in sync %d, missing %d", report.InSyncCount(), report.MissingCount())
	}
	if report.Items[1].Status != Synced || report.Items[1].RemoteCustomID() != "2" {
		t.Errorf("expected transaction 2 to be synced: %+v", report.Items[1])
	}
	for _, tx := range report.TransactionsToSync() {
		if tx.ID == 2 {
			t.Errorf("synced transaction must not be pushed again")
		}
	}
}

func TestBuildReportByFields(t *testing.T) {
	remote := []*ynab.Remote{
		remoteTx(t, "2024-03-01", 1000000, "Salary", "imported by hand"),
		remoteTx(t, "2024-03-03", -5000, "Food", ""),
	}
	report := BuildReport(ledger(), remote, false)
	if report.InSyncCount() != 2 || report.MissingCount() != 1 {
		t.Fatalf("unexpected counts: in sync %d, missing %d", report.InSyncCount(), report.MissingCount())
	}
	if got := report.TransactionsToSync()[0].ID; got != 2 {
		t.Errorf("expected transaction 2 to be missing, got %d", got)
	}
}

func TestPayloads(t *testing.T) {
	report := BuildReport(ledger(), nil, true)
	payloads, err := report.Payloads("acc")
	if err != nil {
		t.Fatal(err)
	}
	if len(payloads) != 3 {
		t.Fatalf("expected 3 payloads, got %d", len(payloads))
	}
	if payloads[0].Amount != 1000000 || payloads[1].Amount != -12300 {
		t.Errorf("unexpected amounts %d %d", payloads[0].Amount, payloads[1].Amount)
	}
	if *payloads[1].Memo != "2,Food,lunch" || *payloads[2].Memo != "3,Food" {
		t.Errorf("unexpected memos %q %q", *payloads[1].Memo, *payloads[2].Memo)
	}
	if payloads[1].AccountID != "acc" || *payloads[1].PayeeName != "Food" {
		t.Errorf("unexpected payload %+v", payloads[1])
	}
}

func newExecutor(remote Remote, out io.Writer) *Executor {
	cfg := &config.Config{UseCustomID: true, YNAB: config.YNABConfig{BudgetID: "b", AccountID: "a"}}
	return New(log.New(io.Discard), cfg, remote, out)
}

func TestPlanAndApply(t *testing.T) {
	fake := &fakeRemote{remote: []*ynab.Remote{remoteTx(t, "2024-03-01", 1000000, "Salary", "1,Salary")}}
	var out bytes.Buffer
	e := newExecutor(fake, &out)

	if _, err := e.Plan(ledger()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Plan: 2 transaction(s) will be added, 1 already in sync") {
		t.Errorf("unexpected plan output:\n%s", out.String())
	}
	if len(fake.created) != 0 {
		t.Errorf("plan must not create anything")
	}

	n, err := e.Apply(ledger())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(fake.created) != 2 {
		t.Errorf("expected 2 created, got %d/%d", n, len(fake.created))
	}
}

func TestExecutorErrors(t *testing.T) {
	e := newExecutor(&fakeRemote{err: errors.New("boom")}, io.Discard)
	if _, err := e.Apply(ledger()); err == nil {
		t.Errorf("expected remote error")
	}

	e.config.YNAB.AccountID = ""
	if _, err := e.Plan(ledger()); err == nil {
		t.Errorf("expected missing account error")
	}
}
