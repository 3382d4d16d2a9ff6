package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hesab.local/pfm/internal/export"
	"hesab.local/pfm/internal/logger"
	"hesab.local/pfm/internal/matcher"
	"hesab.local/pfm/internal/parser"
	"hesab.local/pfm/internal/report"
	"hesab.local/pfm/internal/store"
	"hesab.local/pfm/internal/views"
	"hesab.local/pfm/internal/views/pages"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store *store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewHandler creates a new Handler instance
func NewHandler(s *store.Store, log zerolog.Logger) *Handler {
	return &Handler{
		store: s,
		log:   log,
		now:   time.Now,
	}
}

// Routes registers every page and API endpoint
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// Static files - embedded in the binary
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	// Pages
	mux.HandleFunc("/", h.Home)
	mux.HandleFunc("/transactions", h.TransactionsPage)
	mux.HandleFunc("/management", h.ManagementPage)

	// API
	mux.HandleFunc("/api/dashboard-data", h.DashboardData)
	mux.HandleFunc("/api/transactions", h.ListTransactions)
	mux.HandleFunc("/api/export-csv", h.ExportCSV)
	mux.HandleFunc("/api/parse", h.Parse)

	// Management forms
	mux.HandleFunc("/add_category", h.AddCategory)
	mux.HandleFunc("/add_account", h.AddAccount)
	mux.HandleFunc("/delete_category/", h.DeleteCategory)
	mux.HandleFunc("/delete_account/", h.DeleteAccount)

	return Chain(mux, RequestID(h.log), Logger, Recovery)
}

// Home renders the dashboard page
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	d, err := report.BuildDashboard(r.Context(), h.store, h.now())
	if err != nil {
		h.serverError(w, r, "Error loading dashboard", err)
		return
	}
	pages.Dashboard(d).Render(r.Context(), w)
}

// TransactionsPage renders the filterable transaction list
func (h *Handler) TransactionsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.store.ListTransactions(ctx, f)
	if err != nil {
		h.serverError(w, r, "Error loading transactions", err)
		return
	}
	accounts, categories, err := h.snapshot(r)
	if err != nil {
		h.serverError(w, r, "Error loading accounts", err)
		return
	}

	pages.Transactions(list, accounts, categories, pages.TransactionFilter{
		Query:      f.Query,
		Type:       string(f.Type),
		AccountID:  f.AccountID,
		CategoryID: f.CategoryID,
	}).Render(ctx, w)
}

// ManagementPage renders account and category administration
func (h *Handler) ManagementPage(w http.ResponseWriter, r *http.Request) {
	accounts, categories, err := h.snapshot(r)
	if err != nil {
		h.serverError(w, r, "Error loading accounts", err)
		return
	}
	pages.Management(accounts, categories).Render(r.Context(), w)
}

type categoryExpense struct {
	CategoryName string      `json:"category_name"`
	TotalAmount  json.Number `json:"total_amount"`
}

type dashboardData struct {
	TotalIncome      json.Number       `json:"total_income"`
	TotalExpense     json.Number       `json:"total_expense"`
	Balance          json.Number       `json:"balance"`
	CategoryExpenses []categoryExpense `json:"category_expenses"`
}

// DashboardData returns the 30-day overview as JSON
func (h *Handler) DashboardData(w http.ResponseWriter, r *http.Request) {
	d, err := report.BuildDashboard(r.Context(), h.store, h.now())
	if err != nil {
		h.serverError(w, r, "Error loading dashboard", err)
		return
	}

	resp := dashboardData{
		TotalIncome:      json.Number(d.TotalIncome.String()),
		TotalExpense:     json.Number(d.TotalExpense.String()),
		Balance:          json.Number(d.Balance.String()),
		CategoryExpenses: make([]categoryExpense, 0, len(d.CategoryExpenses)),
	}
	for _, c := range d.CategoryExpenses {
		resp.CategoryExpenses = append(resp.CategoryExpenses, categoryExpense{
			CategoryName: c.CategoryName,
			TotalAmount:  json.Number(c.Total.String()),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type transactionResponse struct {
	ID              int64       `json:"id"`
	Type            string      `json:"type"`
	Amount          json.Number `json:"amount"`
	Description     string      `json:"description"`
	TransactionDate string      `json:"transaction_date"`
	AccountName     string      `json:"account_name"`
	CategoryName    string      `json:"category_name"`
}

// ListTransactions returns filtered transactions as JSON
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.store.ListTransactions(r.Context(), f)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		writeError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	results := make([]transactionResponse, 0, len(list))
	for _, t := range list {
		results = append(results, transactionResponse{
			ID:              t.ID,
			Type:            string(t.Type),
			Amount:          json.Number(t.Amount.String()),
			Description:     t.Description,
			TransactionDate: t.TransactionDate.Format("2006-01-02 15:04:05"),
			AccountName:     nameOr(t.AccountName, "ندارد"),
			CategoryName:    nameOr(t.CategoryName, "ندارد"),
		})
	}
	writeJSON(w, http.StatusOK, results)
}

// ExportCSV streams filtered transactions as a CSV attachment
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.store.ListTransactions(r.Context(), f)
	if err != nil {
		h.serverError(w, r, "Error exporting transactions", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+export.Filename(h.now()))
	if err := export.WriteCSV(w, list); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Msg("Failed to write CSV")
	}
}

type parseResponse struct {
	Amount       json.Number `json:"amount"`
	Type         string      `json:"type"`
	Description  string      `json:"description"`
	AccountID    *int64      `json:"account_id"`
	CategoryID   *int64      `json:"category_id"`
	AccountName  string      `json:"account_name"`
	CategoryName string      `json:"category_name"`
	OriginalText string      `json:"original_text"`
}

// Parse previews how a message would be recorded without saving it
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var text string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		text = req.Text
	} else {
		text = r.FormValue("text")
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	accounts, categories, err := h.snapshot(r)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load entities")
		writeError(w, http.StatusInternalServerError, "Failed to load accounts")
		return
	}

	tx := parser.Parse(text, accounts, categories)
	if tx == nil {
		writeError(w, http.StatusUnprocessableEntity, "No amount recognized")
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{
		Amount:       json.Number(tx.Amount.String()),
		Type:         string(tx.Direction),
		Description:  tx.Description,
		AccountID:    tx.AccountID,
		CategoryID:   tx.CategoryID,
		AccountName:  matcher.NameOf(tx.AccountID, accounts, ""),
		CategoryName: matcher.NameOf(tx.CategoryID, categories, ""),
		OriginalText: tx.OriginalText,
	})
}

// AddCategory creates a category from the management form
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	h.addEntity(w, r, h.store.CreateCategory)
}

// AddAccount creates an account from the management form
func (h *Handler) AddAccount(w http.ResponseWriter, r *http.Request) {
	h.addEntity(w, r, h.store.CreateAccount)
}

// DeleteCategory removes the category named in the path
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.deleteEntity(w, r, "/delete_category/", h.store.DeleteCategory)
}

// DeleteAccount removes the account named in the path
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	h.deleteEntity(w, r, "/delete_account/", h.store.DeleteAccount)
}

func (h *Handler) addEntity(w http.ResponseWriter, r *http.Request, create func(ctx context.Context, name string) (matcher.Entity, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, err := create(r.Context(), r.FormValue("name"))
	switch {
	case errors.Is(err, store.ErrEmptyName):
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	case errors.Is(err, store.ErrDuplicateName):
		http.Error(w, "Name already exists", http.StatusConflict)
		return
	case err != nil:
		h.serverError(w, r, "Error saving", err)
		return
	}
	http.Redirect(w, r, "/management", http.StatusSeeOther)
}

func (h *Handler) deleteEntity(w http.ResponseWriter, r *http.Request, prefix string, remove func(ctx context.Context, id int64) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Extract id from path
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, prefix), 10, 64)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	if err := remove(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, r, "Error deleting", err)
		return
	}
	http.Redirect(w, r, "/management", http.StatusSeeOther)
}

func (h *Handler) snapshot(r *http.Request) (accounts, categories []matcher.Entity, err error) {
	if accounts, err = h.store.Accounts(r.Context()); err != nil {
		return nil, nil, err
	}
	if categories, err = h.store.Categories(r.Context()); err != nil {
		return nil, nil, err
	}
	return accounts, categories, nil
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log := logger.FromContext(r.Context())
	log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

// parseFilter reads q, type, account_id and category_id from the query string
func parseFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	f := store.Filter{Query: strings.TrimSpace(q.Get("q"))}

	if typ := q.Get("type"); typ != "" {
		f.Type = parser.Direction(typ)
		if !f.Type.Valid() {
			return f, errors.New("type must be income or expense")
		}
	}

	var err error
	if f.AccountID, err = optionalID(q.Get("account_id")); err != nil {
		return f, errors.New("invalid account_id")
	}
	if f.CategoryID, err = optionalID(q.Get("category_id")); err != nil {
		return f, errors.New("invalid category_id")
	}
	return f, nil
}

func optionalID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
