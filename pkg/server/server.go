package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/ledger"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
	"github.com/yurifrl/tally/pkg/report"
	"github.com/yurifrl/tally/pkg/xlsx"
)

const maxUploadSize = 10 << 20

// Server exposes an unlocked ledger session as a JSON API.
type Server struct {
	config  *config.Config
	logger  *log.Logger
	mux     *http.ServeMux
	session *ledger.Session
	parser  *parser.Parser
}

func New(config *config.Config, logger *log.Logger, session *ledger.Session) *Server {
	s := &Server{
		config:  config,
		logger:  logger,
		mux:     http.NewServeMux(),
		session: session,
		parser:  parser.New(logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on server.addr from the configuration.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.config.Server.Addr)
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/transactions", s.withLogging(s.handleTransactions))
	s.mux.HandleFunc("/api/transactions/", s.withLogging(s.handleTransaction))
	s.mux.HandleFunc("/api/import", s.withLogging(s.handleImport))
	s.mux.HandleFunc("/api/summary", s.withLogging(s.handleSummary))
	s.mux.HandleFunc("/api/month", s.withLogging(s.handleMonth))
	s.mux.HandleFunc("/api/budgets", s.withLogging(s.handleBudgets))
	s.mux.HandleFunc("/api/export.csv", s.withLogging(s.handleExportCSV))
	s.mux.HandleFunc("/api/export.xlsx", s.withLogging(s.handleExportXLSX))
}

// Transaction is the JSON form of a ledger record.
type Transaction struct {
	ID        int64           `json:"id"`
	Date      string          `json:"date"`
	Type      models.Type     `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
	CreatedAt string          `json:"created_at"`
}

func toJSON(txs []models.Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, t := range txs {
		out[i] = Transaction{ID: t.ID, Date: t.Date, Type: t.Type, Amount: t.Amount, Category: t.Category, Note: t.Note, CreatedAt: t.CreatedAt}
	}
	return out
}

type newTransaction struct {
	Date     string          `json:"date"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filters, err := filtersFromQuery(r)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
			return
		}
		txs := report.SortHistory(csv.Apply(s.session.Transactions(), filters.Func()))
		s.respond(w, r, http.StatusOK, map[string]any{
			"status":       "success",
			"transactions": toJSON(txs),
		})

	case http.MethodPost:
		var in newTransaction
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&in); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid json body", err)
			return
		}
		kind, err := models.ParseType(in.Type)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
			return
		}
		tx, err := s.session.Add(models.NewTransaction(kind, in.Amount).
			SetDate(in.Date).
			SetCategory(in.Category).
			SetNote(in.Note))
		if err != nil {
			s.respondLedgerError(w, r, err)
			return
		}
		s.respond(w, r, http.StatusCreated, map[string]any{
			"status":      "success",
			"transaction": toJSON([]models.Transaction{tx})[0],
		})

	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/transactions/"), 10, 64)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid transaction id", err)
		return
	}
	if err := s.session.Delete(id); err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, map[string]any{"status": "deleted", "id": id})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}

	txs, err := s.parser.ProcessBytes(data, header.Filename)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to process file", err)
		return
	}
	added, err := s.session.Import(txs)
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.logger.Info("file imported", "file", header.Filename, "parsed", len(txs), "added", added)
	s.respond(w, r, http.StatusOK, map[string]any{
		"status":  "success",
		"parsed":  len(txs),
		"added":   added,
		"skipped": len(txs) - added,
	})
}

type categoryJSON struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type warningJSON struct {
	Category string          `json:"category"`
	Spent    decimal.Decimal `json:"spent"`
	Limit    decimal.Decimal `json:"limit"`
	Percent  decimal.Decimal `json:"percent"`
	Level    string          `json:"level"`
}

type totalsJSON struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

func totals(t report.Totals) totalsJSON {
	return totalsJSON{Income: t.Income, Expenses: t.Expenses, Net: t.Net}
}

func categories(in []report.CategoryTotal) []categoryJSON {
	out := make([]categoryJSON, len(in))
	for i, c := range in {
		out[i] = categoryJSON{Category: c.Category, Amount: c.Amount}
	}
	return out
}

// handleSummary is the dashboard: all-time totals, rating, category split,
// current month budget warnings and the last twelve months.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	txs := s.session.Transactions()
	now := s.session.Now()
	t := report.ComputeTotals(txs)
	rating := report.RatingFromNet(t.Net)

	warnings := report.BudgetWarnings(txs, s.session.Settings().Budgets, now.Year(), int(now.Month()))
	warnOut := make([]warningJSON, len(warnings))
	for i, wn := range warnings {
		warnOut[i] = warningJSON{Category: wn.Category, Spent: wn.Spent, Limit: wn.Limit, Percent: wn.Percent, Level: string(wn.Level)}
	}

	series := report.MonthlySeries(txs, now, 12)
	months := make([]map[string]any, len(series))
	for i, p := range series {
		months[i] = map[string]any{"month": p.Key, "totals": totals(p.Totals)}
	}

	s.respond(w, r, http.StatusOK, map[string]any{
		"status": "success",
		"totals": totals(t),
		"rating": map[string]any{
			"points":  rating.Points,
			"label":   rating.Label,
			"message": rating.Message,
		},
		"income_by_category":  categories(report.TotalsByCategory(txs, report.TypeFilter(models.Income))),
		"expense_by_category": categories(report.TotalsByCategory(txs, report.TypeFilter(models.Expense))),
		"budget_warnings":     warnOut,
		"months":              months,
	})
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	year, month, err := monthFromQuery(r, s.session.Now())
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}
	m := report.MonthReport(s.session.Transactions(), year, month)
	s.respond(w, r, http.StatusOK, map[string]any{
		"status":       "success",
		"month":        m.Key(),
		"count":        m.Count,
		"totals":       totals(m.Totals),
		"top_expenses": categories(m.TopExpenses),
		"transactions": toJSON(m.Transactions),
	})
}

type budgetJSON struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// listed below

	case http.MethodPut:
		var in budgetJSON
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&in); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid json body", err)
			return
		}
		if err := s.session.SetBudget(in.Category, in.Limit); err != nil {
			s.respondLedgerError(w, r, err)
			return
		}

	case http.MethodDelete:
		if err := s.session.RemoveBudget(r.URL.Query().Get("category")); err != nil {
			s.respondLedgerError(w, r, err)
			return
		}

	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	budgets := s.session.Budgets()
	out := make([]budgetJSON, len(budgets))
	for i, b := range budgets {
		out[i] = budgetJSON{Category: b.Category, Limit: b.Limit}
	}
	s.respond(w, r, http.StatusOK, map[string]any{"status": "success", "budgets": out})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "text/csv", "transactions.csv", csv.Write)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "transactions.xlsx", xlsx.Write)
}

type writerFunc func(io.Writer, []models.Transaction, csv.FilterFunc) error

func (s *Server) export(w http.ResponseWriter, r *http.Request, contentType, filename string, write writerFunc) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	filters, err := filtersFromQuery(r)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if err := write(w, s.session.Transactions(), filters.Func()); err != nil {
		s.logger.Warn("failed to write export", "file", filename, "err", err)
	}
}

// --- helpers ---

func filtersFromQuery(r *http.Request) (csv.Filters, error) {
	q := r.URL.Query()
	f := csv.Filters{
		Start:    q.Get("start"),
		End:      q.Get("end"),
		Category: q.Get("category"),
		Type:     q.Get("type"),
	}
	for key, dst := range map[string]*decimal.Decimal{"min": &f.Min, "max": &f.Max} {
		if v := q.Get(key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return f, fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = d
		}
	}
	return f, f.Validate()
}

// monthFromQuery reads ?month=YYYY-MM, defaulting to the month of now.
func monthFromQuery(r *http.Request, now time.Time) (int, int, error) {
	v := r.URL.Query().Get("month")
	if v == "" {
		return now.Year(), int(now.Month()), nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, use YYYY-MM", v)
	}
	return t.Year(), int(t.Month()), nil
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := s.writeJSON(w, status, v); err != nil {
		s.logger.Warn("failed to write json response", "err", err, "path", r.URL.Path)
	}
}

// respondLedgerError maps session and validation errors to status codes.
func (s *Server) respondLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		s.respondError(w, r, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, ledger.ErrNotSaved):
		s.respondError(w, r, http.StatusInternalServerError, err.Error(), err)
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrInvalidType),
		errors.Is(err, models.ErrInvalidDate), errors.Is(err, ledger.ErrCategoryRequired),
		errors.Is(err, ledger.ErrInvalidLimit):
		s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
	default:
		s.respondError(w, r, http.StatusInternalServerError, "internal error", err)
	}
}

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log requests and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
