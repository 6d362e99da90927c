package http

import (
	"net/http"
	"strings"

	"ledger/internal/core"
	"ledger/internal/export"
	applog "ledger/internal/log"
)

// expensesResponse is the payload for GET /api/expenses: the filtered list
// plus every derived aggregate, as one consistent view.
type expensesResponse struct {
	Filter           filterPayload      `json:"filter"`
	FilteredExpenses []core.Expense     `json:"filteredExpenses"`
	MonthlyData      []core.MonthlySum  `json:"monthlyData"`
	CategoryData     []core.CategorySum `json:"categoryData"`
	TotalAmountCents int64              `json:"totalAmountCents"`
}

type filterPayload struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category"`
	Search    string `json:"search"`
}

// handleListExpenses applies the filter from the query string and returns
// the snapshot. The filter becomes the engine's active filter, so a later
// CSV export reflects the same view.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	s.engine.SetFilter(filter)
	snap := s.engine.Snapshot()

	writeJSON(w, http.StatusOK, expensesResponse{
		Filter: filterPayload{
			StartDate: filter.StartDate,
			EndDate:   filter.EndDate,
			Category:  filter.Category,
			Search:    filter.Search,
		},
		FilteredExpenses: snap.FilteredExpenses,
		MonthlyData:      snap.MonthlyData,
		CategoryData:     snap.CategoryData,
		TotalAmountCents: snap.TotalAmountCents,
	})
}

func filterFromQuery(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()
	filter := core.Filter{
		StartDate: strings.TrimSpace(q.Get("start")),
		EndDate:   strings.TrimSpace(q.Get("end")),
		Category:  strings.TrimSpace(q.Get("category")),
		Search:    strings.TrimSpace(q.Get("q")),
	}
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := core.ParseDate(d); err != nil {
			return core.Filter{}, err
		}
	}
	return filter, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var form core.ExpenseForm
	if err := decodeJSON(w, r, &form); err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := s.store.Add(r.Context(), form)
	if err != nil {
		errorJSON(w, validationStatus(err), err.Error())
		return
	}

	s.logger.InfoContext(r.Context(), "Expense created",
		applog.FieldExpenseID, expense.ID,
		applog.FieldCategory, expense.Category,
		applog.FieldAmountCents, expense.Amount.Cents)
	writeJSON(w, http.StatusCreated, expense)
}

// handleDeleteExpense always answers 204: deleting an absent id is a
// no-op, not an error.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.store.Delete(r.Context(), id) {
		s.logger.InfoContext(r.Context(), "Expense deleted", applog.FieldExpenseID, id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateExpense merges a partial patch. An absent id answers 204 to
// mirror delete; an invalid patch answers 422 and changes nothing.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch core.ExpensePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, found, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		errorJSON(w, validationStatus(err), err.Error())
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.logger.InfoContext(r.Context(), "Expense updated", applog.FieldExpenseID, id)
	writeJSON(w, http.StatusOK, expense)
}

// handleSummaryCSV exports the aggregates for the engine's active filter.
func (s *Server) handleSummaryCSV(w http.ResponseWriter, r *http.Request) {
	out, err := export.RenderSummary(s.engine.Snapshot())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Summary export failed", applog.FieldError, err)
		errorJSON(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="summary.csv"`)
	_, _ = w.Write([]byte(out))
}

// handleExpensesCSV exports the filtered expense list.
func (s *Server) handleExpensesCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	out, err := export.RenderExpenses(snap.FilteredExpenses)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Expense export failed", applog.FieldError, err)
		errorJSON(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	_, _ = w.Write([]byte(out))
}
