package ynab

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
)

// Client wraps the YNAB client with the two calls the ledger push needs.
type Client struct {
	client ynab.ClientServicer
}

// Remote is a YNAB transaction plus the ledger id parsed from its memo.
type Remote struct {
	*transaction.Transaction
	customID string
}

func New(token string) *Client {
	return &Client{client: ynab.NewClient(token)}
}

func (c *Client) Transactions(budgetID, accountID string) ([]*Remote, error) {
	txs, err := c.client.Transaction().GetTransactionsByAccount(budgetID, accountID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ynab transactions: %w", err)
	}
	out := make([]*Remote, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewRemote(tx))
	}
	return out, nil
}

// CreateTransactions creates multiple transactions in one API call.
func (c *Client) CreateTransactions(budgetID string, payloads []transaction.PayloadTransaction) error {
	if len(payloads) == 0 {
		return nil
	}
	if _, err := c.client.Transaction().CreateTransactions(budgetID, payloads); err != nil {
		return fmt.Errorf("failed to create ynab transactions: %w", err)
	}
	return nil
}

func NewRemote(tx *transaction.Transaction) *Remote {
	return &Remote{Transaction: tx, customID: extractCustomID(tx)}
}

func (r *Remote) CustomID() string {
	return r.customID
}

// Memo is the memo written for a ledger transaction: "<id>,<category>,<note>".
// The id goes first so it can be recovered from the remote side.
func Memo(tx models.Transaction) string {
	memo := strconv.FormatInt(tx.ID, 10) + "," + tx.CategoryOrDefault()
	if tx.Note != "" {
		memo += "," + tx.Note
	}
	return memo
}

// Milliunits converts a signed ledger amount to YNAB milliunits.
func Milliunits(tx models.Transaction) int64 {
	return tx.Signed().Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
}

// Payload builds the create payload for tx in accountID.
func Payload(tx models.Transaction, accountID string) (transaction.PayloadTransaction, error) {
	date, err := api.DateFromString(tx.Date)
	if err != nil {
		return transaction.PayloadTransaction{}, fmt.Errorf("invalid date for transaction %d: %w", tx.ID, err)
	}
	payee := tx.CategoryOrDefault()
	memo := Memo(tx)
	return transaction.PayloadTransaction{
		AccountID: accountID,
		Date:      date,
		Amount:    Milliunits(tx),
		Cleared:   transaction.ClearingStatusCleared,
		Approved:  true,
		PayeeName: &payee,
		Memo:      &memo,
	}, nil
}

func extractCustomID(tx *transaction.Transaction) string {
	if tx == nil || tx.Memo == nil {
		return ""
	}
	memo := strings.Trim(*tx.Memo, "\"")
	if idx := strings.Index(memo, ","); idx > 0 {
		return memo[:idx]
	}
	return ""
}
