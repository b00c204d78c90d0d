package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
)

// Ledger is where parsed records end up.
type Ledger interface {
	Import(txs []models.Transaction) (int, error)
}

// Result counts what happened to one input file.
type Result struct {
	Path   string
	Parsed int
	Added  int
	Err    error
}

// Processor imports statement and export files into a ledger.
type Processor struct {
	logger *log.Logger
	parser *parser.Parser
	ledger Ledger
}

func NewProcessor(logger *log.Logger, ledger Ledger) *Processor {
	return &Processor{
		logger: logger,
		parser: parser.New(logger),
		ledger: ledger,
	}
}

// ImportPath imports a file, every supported file of a directory, or every
// file matching a glob pattern. Errors of single files are reported in the
// results and do not stop the others.
func (p *Processor) ImportPath(pattern string) ([]Result, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files found matching pattern %s", pattern)
	}

	var results []Result
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			p.logger.Warn("failed to stat file", "error", err, "file", match)
			continue
		}
		if !info.IsDir() {
			results = append(results, p.ImportFile(match))
			continue
		}
		dirResults, err := p.ImportDirectory(match)
		if err != nil {
			return results, err
		}
		results = append(results, dirResults...)
	}
	return results, nil
}

func (p *Processor) ImportDirectory(dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var results []Result
	for _, entry := range entries {
		if entry.IsDir() || !parser.Supported(entry.Name()) {
			continue
		}
		res := p.ImportFile(filepath.Join(dir, entry.Name()))
		if res.Err != nil {
			p.logger.Error("failed to process entry", "file", entry.Name(), "error", res.Err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Processor) ImportFile(path string) Result {
	res := Result{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file: %w", err)
		return res
	}

	p.logger.Info("processing file", "path", path)
	txs, err := p.parser.ProcessBytes(data, filepath.Base(path))
	if err != nil {
		res.Err = fmt.Errorf("failed to process file: %w", err)
		return res
	}
	res.Parsed = len(txs)

	res.Added, res.Err = p.ledger.Import(txs)
	if res.Err == nil {
		p.logger.Info("processed file successfully", "path", path, "parsed", res.Parsed, "added", res.Added)
	}
	return res
}
