package executors

import (
	"io"

	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/charmbracelet/log"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/ynab"
)

// Remote is the part of the YNAB API the executor talks to.
type Remote interface {
	Transactions(budgetID, accountID string) ([]*ynab.Remote, error)
	CreateTransactions(budgetID string, payloads []transaction.PayloadTransaction) error
}

type Executor struct {
	logger *log.Logger
	config *config.Config
	ynab   Remote
	out    io.Writer
}

func New(logger *log.Logger, config *config.Config, ynab Remote, out io.Writer) *Executor {
	return &Executor{
		logger: logger,
		config: config,
		ynab:   ynab,
		out:    out,
	}
}
