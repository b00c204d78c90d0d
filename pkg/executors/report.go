package executors

import (
	"fmt"
	"strconv"

	"github.com/brunomvsouza/ynab.go/api/transaction"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/ynab"
)

// Status indicates the reconciliation result for a ledger transaction.
type Status int

const (
	Synced Status = iota
	ToAdd
)

// Entry links a ledger transaction with its remote counterpart, if any.
type Entry struct {
	Local  models.Transaction
	Remote *ynab.Remote // nil when Status == ToAdd
	Status Status
}

func (e Entry) RemoteCustomID() string {
	if e.Remote == nil {
		return ""
	}
	return e.Remote.CustomID()
}

type Report struct {
	Items  []Entry
	toSync []models.Transaction
}

// BuildReport matches ledger transactions against the remote ones, either by
// the id stored in the remote memo or by amount, payee and date.
func BuildReport(local []models.Transaction, remote []*ynab.Remote, useCustomID bool) *Report {
	items := make([]Entry, 0, len(local))
	var toSync []models.Transaction

	idx := make(map[string]*ynab.Remote, len(remote))
	for _, rt := range remote {
		key := rt.CustomID()
		if !useCustomID {
			key = remoteKey(rt)
		}
		if key == "" {
			continue
		}
		if _, ok := idx[key]; !ok {
			idx[key] = rt
		}
	}

	for _, lt := range local {
		key := strconv.FormatInt(lt.ID, 10)
		if !useCustomID {
			key = localKey(lt)
		}
		found := idx[key]
		status := ToAdd
		if found != nil {
			status = Synced
			// a remote transaction only matches once
			delete(idx, key)
		} else {
			toSync = append(toSync, lt)
		}
		items = append(items, Entry{Local: lt, Remote: found, Status: status})
	}

	return &Report{Items: items, toSync: toSync}
}

func localKey(tx models.Transaction) string {
	return fmt.Sprintf("%d|%s|%s", ynab.Milliunits(tx), tx.CategoryOrDefault(), tx.Date)
}

func remoteKey(rt *ynab.Remote) string {
	payee := ""
	if rt.PayeeName != nil {
		payee = *rt.PayeeName
	}
	return fmt.Sprintf("%d|%s|%s", rt.Amount, payee, rt.Date.Format(models.DateLayout))
}

func (r *Report) InSyncCount() int {
	return len(r.Items) - len(r.toSync)
}

func (r *Report) MissingCount() int {
	return len(r.toSync)
}

func (r *Report) TransactionsToSync() []models.Transaction {
	return r.toSync
}

// Payloads converts the transactions that still need syncing into YNAB API payloads.
func (r *Report) Payloads(accountID string) ([]transaction.PayloadTransaction, error) {
	out := make([]transaction.PayloadTransaction, 0, len(r.toSync))
	for _, lt := range r.toSync {
		p, err := ynab.Payload(lt, accountID)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
