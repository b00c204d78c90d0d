package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/yurifrl/tally/pkg/models"
)

// pdfMovement matches "17/03/2025 PIX TRANSF ID_A15/03 -2.327,00".
var pdfMovement = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+(-?[\d.]*\d,\d{2})$`)

// ParseStatementPDF extracts the text of every page of a PDF statement and
// reads the lines that look like movements, using the same rules as
// ParseStatementTXT.
func (p *Parser) ParseStatementPDF(data []byte) ([]models.Transaction, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		lines = append(lines, strings.Split(text, "\n")...)
	}
	p.logger.Debug("pdf text extracted", "pages", r.NumPage(), "lines", len(lines))

	return p.parseStatementText(lines)
}

func (p *Parser) parseStatementText(lines []string) ([]models.Transaction, error) {
	return p.parseStatement(lines, func(line string) (statementLine, bool) {
		m := pdfMovement.FindStringSubmatch(line)
		if m == nil {
			return statementLine{}, false
		}
		return statementLine{date: m[1], desc: m[2], value: m[3]}, true
	})
}
