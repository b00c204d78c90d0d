package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the on-disk layout of Transaction.Date.
	DateLayout = "2006-01-02"
	// CreatedAtLayout is the on-disk layout of Transaction.CreatedAt.
	CreatedAtLayout = "2006-01-02T15:04:05"

	// DefaultCategory replaces an empty category label.
	DefaultCategory = "Uncategorized"
)

type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidType   = errors.New("type must be 'income' or 'expense'")
	ErrInvalidDate   = errors.New("invalid date, use YYYY-MM-DD")
)

// Valid reports whether t is one of the two known transaction types.
func (t Type) Valid() bool {
	return t == Income || t == Expense
}

// ParseType reads a user supplied type. Empty input means expense.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Expense, nil
	}
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Transaction is a single income or expense entry of the ledger.
// Records are never edited in place; they are only added or deleted.
type Transaction struct {
	ID        int64
	Date      string
	Type      Type
	Amount    decimal.Decimal
	Category  string
	Note      string
	CreatedAt string
}

// Month returns the "YYYY-MM" part of the date, or "" when the date is too short.
func (t *Transaction) Month() string {
	if len(t.Date) < 7 {
		return ""
	}
	return t.Date[:7]
}

// Signed returns the amount with expenses negated.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// CategoryOrDefault returns the category, falling back to DefaultCategory.
func (t *Transaction) CategoryOrDefault() string {
	if strings.TrimSpace(t.Category) == "" {
		return DefaultCategory
	}
	return t.Category
}

// TransactionBuilder validates user input before a Transaction exists.
type TransactionBuilder struct {
	tx   Transaction
	err  error
	now  func() time.Time
	date string
}

// NewTransaction starts a builder for a record of the given type and amount.
func NewTransaction(kind Type, amount decimal.Decimal) *TransactionBuilder {
	return &TransactionBuilder{
		tx:  Transaction{Type: kind, Amount: amount},
		now: time.Now,
	}
}

// NewTransactionFromInput parses the raw strings a user typed.
func NewTransactionFromInput(kind, amount string) *TransactionBuilder {
	b := &TransactionBuilder{now: time.Now}
	t, err := ParseType(kind)
	if err != nil {
		b.err = err
		return b
	}
	b.tx.Type = t

	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(amount), ",", "."))
	if err != nil {
		b.err = fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
		return b
	}
	b.tx.Amount = d
	return b
}

// SetDate sets the calendar date. An empty string means today.
func (b *TransactionBuilder) SetDate(date string) *TransactionBuilder {
	b.date = strings.TrimSpace(date)
	return b
}

func (b *TransactionBuilder) SetCategory(category string) *TransactionBuilder {
	b.tx.Category = strings.TrimSpace(category)
	return b
}

func (b *TransactionBuilder) SetNote(note string) *TransactionBuilder {
	b.tx.Note = strings.TrimSpace(note)
	return b
}

// SetID overrides the millisecond timestamp ID, e.g. when importing.
func (b *TransactionBuilder) SetID(id int64) *TransactionBuilder {
	b.tx.ID = id
	return b
}

// SetCreatedAt overrides the insertion timestamp, e.g. when importing.
func (b *TransactionBuilder) SetCreatedAt(createdAt string) *TransactionBuilder {
	b.tx.CreatedAt = strings.TrimSpace(createdAt)
	return b
}

// SetClock replaces time.Now for the defaults computed by Build.
func (b *TransactionBuilder) SetClock(now func() time.Time) *TransactionBuilder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build validates the collected fields and fills in defaults.
func (b *TransactionBuilder) Build() (*Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.tx.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, b.tx.Type)
	}
	if !b.tx.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := b.now()
	tx := b.tx
	if b.date == "" {
		tx.Date = now.Format(DateLayout)
	} else {
		d, err := time.Parse(DateLayout, b.date)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, b.date)
		}
		tx.Date = d.Format(DateLayout)
	}
	if tx.Category == "" {
		tx.Category = DefaultCategory
	}
	if tx.ID == 0 {
		tx.ID = now.UnixMilli()
	}
	if tx.CreatedAt == "" {
		tx.CreatedAt = now.Format(CreatedAtLayout)
	}
	return &tx, nil
}
