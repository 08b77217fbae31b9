package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/goals"
	"budgeteer/internal/log"
	"budgeteer/internal/notifier"
)

type transactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Currency    string `json:"currency"`
}

type goalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
	Deadline     string `json:"deadline"`
	Currency     string `json:"currency"`
}

type settingsRequest struct {
	Currency               string `json:"currency"`
	BudgetAmount           string `json:"budget_amount"`
	BudgetPeriodStart      string `json:"budget_period_start"`
	BudgetPeriodEnd        string `json:"budget_period_end"`
	LeftoverSavingsEnabled bool   `json:"leftover_savings_enabled"`
	LeftoverSavingsAmount  string `json:"leftover_savings_amount"`
	NotificationsEnabled   bool   `json:"notifications_enabled"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.ComputeSnapshot(r.Context(), s.identity(), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_income":           snap.TotalIncome.Format(),
		"total_expenses":         snap.TotalExpenses.Format(),
		"net_balance":            snap.NetBalance.Format(),
		"total_days":             snap.TotalDays,
		"days_elapsed":           snap.DaysElapsed,
		"daily_budget":           snap.DailyBudget.Format(),
		"total_spent_today":      snap.TotalSpentToday.Format(),
		"savings_pressure_today": snap.SavingsPressureToday.Format(),
		"remaining_budget_today": snap.RemainingBudgetToday.Format(),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.ListTransactions(r.Context(), s.identity())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "malformed JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		s.writeBadRequest(w, "invalid amount")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		s.writeBadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx := core.Transaction{
		Type:        core.TransactionType(req.Type),
		Amount:      core.Money{Cents: cents},
		Description: req.Description,
		Date:        core.Date{Time: date},
		Currency:    req.Currency,
	}
	created, err := s.svc.CreateTransaction(r.Context(), s.identity(), tx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.app.AddTransaction(created)
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	gs, err := s.svc.ListGoals(r.Context(), s.identity())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(gs))
	for _, st := range goals.Statuses(gs, s.now()) {
		out = append(out, map[string]any{
			"goal":                 st.Goal,
			"days_left":            st.DaysLeft,
			"daily_savings_needed": st.DailySavingsNeeded.Format(),
			"active":               st.Active,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "malformed JSON body")
		return
	}

	targetCents, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		s.writeBadRequest(w, "invalid target amount")
		return
	}
	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		s.writeBadRequest(w, "invalid deadline, expected YYYY-MM-DD")
		return
	}

	g := core.SavingsGoal{
		Name:         req.Name,
		TargetAmount: core.Money{Cents: targetCents},
		Deadline:     core.Date{Time: deadline},
		Currency:     req.Currency,
	}
	created, err := s.svc.AddGoal(r.Context(), s.identity(), g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.app.AddGoal(created)
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeBadRequest(w, "invalid goal id")
		return
	}
	if err := s.svc.DeleteGoal(r.Context(), s.identity(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.app.RemoveGoal(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	evs, err := s.svc.ListNotifications(r.Context(), s.identity())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, evs)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeBadRequest(w, "invalid notification id")
		return
	}
	if err := s.svc.RemoveNotification(r.Context(), s.identity(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.app.RemoveNotification(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleTestNotification emits a fixed sample notification so users can
// verify their delivery setup.
func (s *Server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	ev, err := s.svc.AppendNotification(r.Context(), s.identity(),
		notifier.TitleTest, notifier.BodyTest, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.app.AddNotification(ev)
	s.writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.GetSettings(r.Context(), s.identity())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "malformed JSON body")
		return
	}

	settings := core.Settings{
		Currency:               req.Currency,
		LeftoverSavingsEnabled: req.LeftoverSavingsEnabled,
		NotificationsEnabled:   req.NotificationsEnabled,
	}

	var err error
	if settings.BudgetAmount, err = parseOptionalAmount(req.BudgetAmount); err != nil {
		s.writeBadRequest(w, "invalid budget amount")
		return
	}
	if settings.LeftoverSavingsAmount, err = parseOptionalAmount(req.LeftoverSavingsAmount); err != nil {
		s.writeBadRequest(w, "invalid leftover savings amount")
		return
	}
	start, err := time.Parse("2006-01-02", req.BudgetPeriodStart)
	if err != nil {
		s.writeBadRequest(w, "invalid period start, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.BudgetPeriodEnd)
	if err != nil {
		s.writeBadRequest(w, "invalid period end, expected YYYY-MM-DD")
		return
	}
	settings.BudgetPeriodStart = core.Date{Time: start}
	settings.BudgetPeriodEnd = core.Date{Time: end}

	if err := settings.Period().Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.SaveSettings(r.Context(), s.identity(), settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.app.SetSettings(settings)
	s.writeJSON(w, http.StatusOK, settings)
}

// parseOptionalAmount accepts empty and "0" for amounts that may legally be
// zero, unlike transaction amounts which must be positive.
func parseOptionalAmount(s string) (core.Money, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "0" || trimmed == "0.00" || trimmed == "0,00" {
		return core.Money{}, nil
	}
	cents, err := core.ParseDecimalToCents(trimmed)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", log.FieldError, err)
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// writeError maps the error taxonomy onto HTTP statuses: validation 400,
// permission 403, configuration 409, everything else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidationError(err):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case core.IsPermissionError(err):
		s.writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case core.IsConfigurationError(err):
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "budget not configured: " + err.Error()})
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, log.FieldError, err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
