package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
)

// transactionJSON is the persisted shape of a record.
type transactionJSON struct {
	ID        int64       `json:"id"`
	Date      string      `json:"date"`
	Type      string      `json:"type"`
	Amount    json.Number `json:"amount"`
	Category  string      `json:"category"`
	Note      string      `json:"note"`
	CreatedAt string      `json:"created_at"`
}

type settingsJSON struct {
	PINHash *string                `json:"pin_hash"`
	Budgets map[string]json.Number `json:"budgets"`
}

// looseTransaction accepts whatever a hand-edited or older file contains.
type looseTransaction struct {
	ID        json.RawMessage `json:"id"`
	Date      json.RawMessage `json:"date"`
	Type      json.RawMessage `json:"type"`
	Amount    json.RawMessage `json:"amount"`
	Category  json.RawMessage `json:"category"`
	Note      json.RawMessage `json:"note"`
	CreatedAt json.RawMessage `json:"created_at"`
}

type looseSettings struct {
	PINHash json.RawMessage            `json:"pin_hash"`
	Budgets map[string]json.RawMessage `json:"budgets"`
}

func encodeTransactions(txs []models.Transaction) ([]byte, error) {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionJSON{
			ID:        t.ID,
			Date:      t.Date,
			Type:      string(t.Type),
			Amount:    json.Number(t.Amount.String()),
			Category:  t.Category,
			Note:      t.Note,
			CreatedAt: t.CreatedAt,
		})
	}
	return marshalIndent(out)
}

func decodeTransactions(data []byte) ([]models.Transaction, error) {
	var raw []looseTransaction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	txs := make([]models.Transaction, 0, len(raw))
	for _, r := range raw {
		category, ok := asString(r.Category)
		if !ok {
			category = models.DefaultCategory
		}
		date, _ := asString(r.Date)
		kind, _ := asString(r.Type)
		note, _ := asString(r.Note)
		createdAt, _ := asString(r.CreatedAt)
		txs = append(txs, models.Transaction{
			ID:        asDecimal(r.ID).IntPart(),
			Date:      date,
			Type:      models.Type(kind),
			Amount:    asDecimal(r.Amount),
			Category:  category,
			Note:      note,
			CreatedAt: createdAt,
		})
	}
	return txs, nil
}

func encodeSettings(s models.Settings) ([]byte, error) {
	out := settingsJSON{
		PINHash: s.PINHash,
		Budgets: make(map[string]json.Number, len(s.Budgets)),
	}
	for k, v := range s.Budgets {
		out.Budgets[k] = json.Number(v.String())
	}
	return marshalIndent(out)
}

func decodeSettings(data []byte) (models.Settings, error) {
	var raw looseSettings
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Settings{}, err
	}
	s := models.DefaultSettings()
	if h, ok := asString(raw.PINHash); ok && h != "" {
		s.PINHash = &h
	}
	for k, v := range raw.Budgets {
		s.Budgets[k] = asDecimal(v)
	}
	return s, nil
}

func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// asString returns a JSON string value; ok is false for a missing field or null.
func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return strings.TrimSpace(string(raw)), true
}

// asDecimal coerces a JSON number or numeric string; anything else is zero.
func asDecimal(raw json.RawMessage) decimal.Decimal {
	s, ok := asString(raw)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
