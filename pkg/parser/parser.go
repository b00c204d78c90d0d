package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/tally/pkg/models"
)

type FileType string

const (
	LedgerCSV    FileType = "ledger_csv"
	LedgerXLS    FileType = "ledger_xls"
	LedgerXLSX   FileType = "ledger_xlsx"
	StatementTXT FileType = "statement_txt"
	StatementPDF FileType = "statement_pdf"
)

// Parser turns exported ledgers and bank statements back into records.
type Parser struct {
	logger *log.Logger
	now    func() time.Time
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
		now:    time.Now,
	}
}

// ProcessBytes picks a format from the file name and parses data.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]models.Transaction, error) {
	fileType := detectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	switch fileType {
	case LedgerCSV:
		return p.ParseLedgerCSV(data)
	case LedgerXLS:
		return p.ParseLedgerXLS(data)
	case LedgerXLSX:
		return p.ParseLedgerXLSX(data)
	case StatementTXT:
		return p.ParseStatementTXT(data)
	case StatementPDF:
		return p.ParseStatementPDF(data)
	default:
		p.logger.Debug("unknown file type", "filename", filename)
		return nil, fmt.Errorf("unknown file type: %s", filename)
	}
}

func detectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return LedgerCSV
	case ".xls":
		return LedgerXLS
	case ".xlsx":
		return LedgerXLSX
	case ".txt":
		return StatementTXT
	case ".pdf":
		return StatementPDF
	}
	return ""
}

// Supported reports whether filename has an extension ProcessBytes understands.
func Supported(filename string) bool {
	return detectType(filename) != ""
}
