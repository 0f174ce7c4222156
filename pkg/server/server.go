// Package server exposes the conversion and reconciliation pipeline over a
// small JSON API, for front ends that prefer HTTP over the CLI.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yiorgosm/ynabex/pkg/config"
	"github.com/yiorgosm/ynabex/pkg/export"
	"github.com/yiorgosm/ynabex/pkg/reconcile"
	"github.com/yiorgosm/ynabex/pkg/service"
	"github.com/yiorgosm/ynabex/pkg/ynab"
)

// Server handles HTTP requests for statement processing.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	converter *service.Converter
	cache     *reconcile.Cache

	// processed CSVs kept for download, keyed by output filename
	files sync.Map
}

// New creates a new HTTP server.
func New(cfg *config.Config, logger *log.Logger) *Server {
	return &Server{
		config:    cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		converter: service.NewConverter(logger),
		cache:     reconcile.NewCache(),
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/process", s.withLogging(s.handleProcess))
	s.mux.HandleFunc("/api/apply", s.withLogging(s.handleApply))
	s.mux.HandleFunc("/api/files/", s.withLogging(s.handleFiles))
	s.mux.HandleFunc("/api/budgets", s.withLogging(s.handleBudgets))
	s.mux.HandleFunc("/api/budgets/", s.withLogging(s.handleBudgetAccounts))
}

// transactionJSON is the wire shape for converted rows.
type transactionJSON struct {
	Date      string `json:"date"`
	Payee     string `json:"payee"`
	Memo      string `json:"memo"`
	Amount    string `json:"amount"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

func (s *Server) checkOptions(refresh bool) service.CheckOptions {
	return service.CheckOptions{
		LookbackDays:  s.config.LookbackDays,
		MaxCount:      s.config.MaxCount,
		MemoPrefixLen: s.config.MemoPrefixLen,
		Refresh:       refresh,
	}
}

// handleProcess converts an uploaded statement and, when ledger coordinates
// are supplied, flags the rows that already exist remotely.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	txs, err := s.converter.ConvertBytes(data, header.Filename)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to process file", err)
		return
	}

	// keep the CSV for later download
	filename := export.OutputFilename(header.Filename, "", false)
	var buf bytes.Buffer
	if err := export.Write(&buf, txs, nil); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to build csv", err)
		return
	}
	s.files.Store(filename, buf.Bytes())

	rows := make([]transactionJSON, len(txs))
	for i, t := range txs {
		rows[i] = transactionJSON{Date: t.DateString(), Payee: t.Payee, Memo: t.Memo, Amount: t.AmountString()}
	}

	token := r.FormValue("token")
	budgetID := r.FormValue("budget_id")
	accountID := r.FormValue("account_id")

	var duplicates, toUpload int
	if token != "" && budgetID != "" && accountID != "" {
		client := ynab.New(token)
		report, err := service.CheckDuplicates(client, s.cache, budgetID, accountID, txs,
			s.checkOptions(r.FormValue("refresh") != ""))
		if err != nil {
			s.respondError(w, r, http.StatusBadGateway, "failed to check duplicates", err)
			return
		}
		for i := range rows {
			rows[i].Duplicate = report.IsDuplicate(i)
		}
		duplicates = report.DuplicateCount()
		toUpload = report.UploadCount()
		s.logger.Info("duplicate check complete", "file", header.Filename, "duplicates", duplicates, "to_upload", toUpload)
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"file":       filename,
		"data":       rows,
		"duplicates": duplicates,
		"to_upload":  toUpload,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleApply converts an uploaded statement and uploads the non-duplicate
// transactions to the given account.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "statement file required", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	token := r.FormValue("token")
	budgetID := r.FormValue("budget_id")
	accountID := r.FormValue("account_id")
	for name, v := range map[string]string{"token": token, "budget_id": budgetID, "account_id": accountID} {
		if v == "" {
			s.respondError(w, r, http.StatusBadRequest, name+" required", nil)
			return
		}
	}

	txs, err := s.converter.ConvertBytes(data, header.Filename)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to process file", err)
		return
	}

	client := ynab.New(token)
	report, err := service.CheckDuplicates(client, s.cache, budgetID, accountID, txs, s.checkOptions(true))
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to check duplicates", err)
		return
	}

	count, err := client.Upload(budgetID, accountID, report.TransactionsToUpload())
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "upload failed", err)
		return
	}
	s.cache.Invalidate(budgetID, accountID)

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "applied",
		"uploaded": count,
		"skipped":  report.DuplicateCount(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		s.respondError(w, r, http.StatusBadRequest, "token required", nil)
		return
	}

	budgets, err := ynab.New(token).Budgets()
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to fetch budgets", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"budgets": budgets,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleBudgetAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	budgetID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/budgets/"), "/accounts")
	if budgetID == "" {
		s.respondError(w, r, http.StatusBadRequest, "budget_id required", nil)
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		s.respondError(w, r, http.StatusBadRequest, "token required", nil)
		return
	}

	snapshot, err := ynab.New(token).Accounts(budgetID)
	if err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to fetch accounts", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"accounts": snapshot.Accounts,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleFiles serves the generated CSV for a previously processed statement.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if filename == "" {
		s.respondError(w, r, http.StatusBadRequest, "filename required", nil)
		return
	}

	value, ok := s.files.Load(filename)
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "file not found", nil)
		return
	}
	data, ok := value.([]byte)
	if !ok {
		s.respondError(w, r, http.StatusInternalServerError, "internal type assertion error", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

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
