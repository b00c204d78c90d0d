package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/models"
)

const statementDateLayout = "02/01/2006"

// statementLine is one movement of a bank statement before validation.
type statementLine struct {
	date  string
	desc  string
	value string
}

// ParseStatementTXT reads a bank statement export with one movement per line:
//
//	17/03/2025;PIX TRANSF ID_A15/03;-2327,00
//
// Negative values become expenses, positive values income. The description is
// kept as the note; the category is left for the user to fill in.
func (p *Parser) ParseStatementTXT(data []byte) ([]models.Transaction, error) {
	return p.parseStatement(strings.Split(string(data), "\n"), func(line string) (statementLine, bool) {
		fields := strings.Split(line, ";")
		if len(fields) < 3 {
			return statementLine{}, false
		}
		return statementLine{date: fields[0], desc: fields[1], value: fields[2]}, true
	})
}

func (p *Parser) parseStatement(lines []string, split func(string) (statementLine, bool)) ([]models.Transaction, error) {
	var transactions []models.Transaction

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields, ok := split(line)
		if !ok {
			p.logger.Debug("line is not a movement, skipping", "line", i+1)
			continue
		}

		date, err := time.Parse(statementDateLayout, strings.TrimSpace(fields.date))
		if err != nil {
			p.logger.Debug("error parsing date", "line", i+1, "error", err)
			continue
		}

		valueStr := strings.ReplaceAll(strings.TrimSpace(fields.value), ".", "")
		valueStr = strings.ReplaceAll(valueStr, ",", ".")
		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			p.logger.Debug("error parsing value", "line", i+1, "error", err)
			continue
		}

		kind := models.Income
		if value.IsNegative() {
			kind = models.Expense
		}

		transaction, err := models.NewTransaction(kind, value.Abs()).
			SetDate(date.Format(models.DateLayout)).
			SetNote(strings.TrimSpace(fields.desc)).
			SetClock(p.now).
			Build()
		if err != nil {
			p.logger.Debug("error building transaction", "line", i+1, "error", err)
			continue
		}

		// Statements carry no ledger id; the session assigns one on import.
		transaction.ID = 0
		transactions = append(transactions, *transaction)
	}

	if len(transactions) == 0 {
		return nil, fmt.Errorf("no transactions found in statement")
	}
	return transactions, nil
}
