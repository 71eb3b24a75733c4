package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

type (
	budgetForm struct {
		Month  string
		Amount string
	}

	incomeForm struct {
		Date   string
		Amount string
		Source string
	}

	expenseForm struct {
		Date        string
		Category    string
		Amount      string
		Description string
		Categories  []core.Category
	}

	deleteView struct {
		Expenses []core.Transaction
	}

	monthPicker struct {
		Months   []core.Month
		Selected core.Month
	}

	statisticsView struct {
		monthPicker
		Report services.MonthReport
	}

	insightsView struct {
		monthPicker
		Insights services.Insights
		Health   string
		Income   string
	}
)

func (s *Server) newView(r *http.Request, title, active string) view {
	v := view{Title: title, Active: active}
	if n, ok := doneNotice(r.URL.Query()); ok {
		v.Notices = append(v.Notices, n)
	}
	return v
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), msg, log.FieldError, err.Error())
	http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v := s.newView(r, "Dashboard", "dashboard")
	d, err := s.ledger.Dashboard(r.Context(), core.MonthOf(s.now()))
	if err != nil {
		s.serverError(w, r, "Dashboard load failed", err)
		return
	}
	switch {
	case d.Empty():
		v.notify(NoticeInfo, "No data available. Start by adding income and expenses.")
	case d.HasBudget:
		v.Notices = append(v.Notices, budgetNotice(d.Usage, s.money))
	}
	v.Data = d
	s.render(w, r, http.StatusOK, "dashboard", v)
}

func (s *Server) handleBudgetForm(w http.ResponseWriter, r *http.Request) {
	v := s.newView(r, "Set Budget", "budget")
	v.Data = budgetForm{Month: core.MonthOf(s.now()).String()}
	s.render(w, r, http.StatusOK, "budget", v)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := budgetForm{
		Month:  sanitizeInput(r.PostForm.Get("month")),
		Amount: sanitizeInput(r.PostForm.Get("amount")),
	}
	b, err := s.ledger.SetBudget(r.Context(), form.Month, form.Amount)
	if err != nil {
		if !core.IsValidation(err) {
			s.serverError(w, r, "Budget save failed", err)
			return
		}
		v := view{Title: "Set Budget", Active: "budget", Data: form}
		if errors.Is(err, core.ErrInvalidMonth) {
			v.notify(NoticeError, "Please enter month in valid format like 2026-02.")
		} else {
			v.notify(NoticeError, "Budget must be a number of zero or more.")
		}
		s.render(w, r, http.StatusUnprocessableEntity, "budget", v)
		return
	}
	redirectDone(w, r, "/budget", "budget", url.Values{"month": {b.Month.String()}})
}

func (s *Server) handleIncomeForm(w http.ResponseWriter, r *http.Request) {
	v := s.newView(r, "Add Income", "income")
	v.Data = incomeForm{Date: core.FormatDate(s.now())}
	s.render(w, r, http.StatusOK, "income", v)
}

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := incomeForm{
		Date:   sanitizeInput(r.PostForm.Get("date")),
		Amount: sanitizeInput(r.PostForm.Get("amount")),
		Source: sanitizeInput(r.PostForm.Get("source")),
	}
	_, err := s.ledger.AddIncome(r.Context(), services.IncomeInput{
		Date: form.Date, Amount: form.Amount, Source: form.Source,
	})
	if err != nil {
		if !core.IsValidation(err) {
			s.serverError(w, r, "Income save failed", err)
			return
		}
		v := view{Title: "Add Income", Active: "income", Data: form}
		v.notify(NoticeWarning, validationMessage(err, "Income"))
		s.render(w, r, http.StatusUnprocessableEntity, "income", v)
		return
	}
	redirectDone(w, r, "/income", "income", nil)
}

func (s *Server) handleExpenseForm(w http.ResponseWriter, r *http.Request) {
	v := s.newView(r, "Add Expense", "expense")
	v.Data = expenseForm{Date: core.FormatDate(s.now()), Categories: core.ExpenseCategories()}
	s.render(w, r, http.StatusOK, "expense", v)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := expenseForm{
		Date:        sanitizeInput(r.PostForm.Get("date")),
		Category:    sanitizeInput(r.PostForm.Get("category")),
		Amount:      sanitizeInput(r.PostForm.Get("amount")),
		Description: sanitizeInput(r.PostForm.Get("description")),
		Categories:  core.ExpenseCategories(),
	}
	_, err := s.ledger.AddExpense(r.Context(), services.ExpenseInput{
		Date: form.Date, Category: form.Category, Amount: form.Amount, Description: form.Description,
	})
	if err != nil {
		if !core.IsValidation(err) {
			s.serverError(w, r, "Expense save failed", err)
			return
		}
		v := view{Title: "Add Expense", Active: "expense", Data: form}
		v.notify(NoticeWarning, validationMessage(err, "Expense"))
		s.render(w, r, http.StatusUnprocessableEntity, "expense", v)
		return
	}
	redirectDone(w, r, "/expenses", "expense", nil)
}

// validationMessage turns a rejected entry into the text shown on the form.
func validationMessage(err error, what string) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return what + " amount should be greater than 0."
	case errors.Is(err, core.ErrInvalidDate):
		return "Please enter a valid date like 2026-02-15."
	case errors.Is(err, core.ErrIncomeCategory):
		return "Use Add Income to record income."
	case errors.Is(err, core.ErrUnknownCategory):
		return "Please choose a category from the list."
	case errors.Is(err, core.ErrDescriptionTooLong):
		return fmt.Sprintf("Description is too long (max %d characters).", core.MaxDescriptionLength)
	default:
		return err.Error()
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	v := s.newView(r, "Expense History", "history")
	expenses, err := s.ledger.History(r.Context())
	if err != nil {
		s.serverError(w, r, "History load failed", err)
		return
	}
	if len(expenses) == 0 {
		v.notify(NoticeInfo, "No expense records found.")
	}
	v.Data = expenses
	s.render(w, r, http.StatusOK, "history", v)
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	s.renderDelete(w, r, http.StatusOK, s.newView(r, "Delete Expense", "delete"))
}

func (s *Server) renderDelete(w http.ResponseWriter, r *http.Request, status int, v view) {
	expenses, err := s.ledger.History(r.Context())
	if err != nil {
		s.serverError(w, r, "History load failed", err)
		return
	}
	if len(expenses) == 0 {
		v.notify(NoticeInfo, "No expense records available to delete.")
	}
	v.Data = deleteView{Expenses: expenses}
	s.render(w, r, status, "delete", v)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id, err := parseID(r.PostForm.Get("id"))
	if err != nil {
		v := view{Title: "Delete Expense", Active: "delete"}
		v.notify(NoticeError, "Please select an expense to delete.")
		s.renderDelete(w, r, http.StatusUnprocessableEntity, v)
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		s.serverError(w, r, "Expense delete failed", err)
		return
	}
	redirectDone(w, r, "/expenses/delete", "delete", url.Values{"id": {strconv.FormatInt(id, 10)}})
}

func (s *Server) pickMonth(r *http.Request) (monthPicker, bool, error) {
	months, err := s.ledger.AvailableMonths(r.Context())
	if err != nil {
		return monthPicker{}, false, err
	}
	m, ok := selectMonth(r.URL.Query(), months)
	return monthPicker{Months: months, Selected: m}, ok, nil
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	v := s.newView(r, "Statistics", "statistics")
	picker, ok, err := s.pickMonth(r)
	if err != nil {
		s.serverError(w, r, "Month list failed", err)
		return
	}
	if !ok {
		v.notify(NoticeInfo, "No valid dated records to show.")
		v.Data = statisticsView{}
		s.render(w, r, http.StatusOK, "statistics", v)
		return
	}
	report, err := s.ledger.MonthReport(r.Context(), picker.Selected)
	if err != nil {
		s.serverError(w, r, "Month report failed", err)
		return
	}
	v.Data = statisticsView{monthPicker: picker, Report: report}
	s.render(w, r, http.StatusOK, "statistics", v)
}

func (s *Server) handleStatisticsCSV(w http.ResponseWriter, r *http.Request) {
	m, err := core.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, "month must look like 2026-02", http.StatusUnprocessableEntity)
		return
	}
	report, err := s.ledger.MonthReport(r.Context(), m)
	if err != nil {
		s.serverError(w, r, "Month report failed", err)
		return
	}
	body, err := renderCSV(report.Transactions)
	if err != nil {
		s.serverError(w, r, "CSV render failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ledger-%s.csv"`, m))
	_, _ = w.Write(body)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	v := s.newView(r, "Smart Insights & Feedback", "insights")
	picker, ok, err := s.pickMonth(r)
	if err != nil {
		s.serverError(w, r, "Month list failed", err)
		return
	}
	if !ok {
		v.notify(NoticeInfo, "No data available yet. Please add some income and expenses to see insights.")
		v.Data = insightsView{}
		s.render(w, r, http.StatusOK, "insights", v)
		return
	}
	in, err := s.ledger.Insights(r.Context(), picker.Selected)
	if err != nil {
		s.serverError(w, r, "Insights failed", err)
		return
	}
	v.Data = insightsView{
		monthPicker: picker,
		Insights:    in,
		Health:      in.Health.Message(s.money.Func()),
		Income:      in.Income.Message(s.money.Func()),
	}
	s.render(w, r, http.StatusOK, "insights", v)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.ClearAll(r.Context()); err != nil {
		s.serverError(w, r, "Clear failed", err)
		return
	}
	redirectDone(w, r, "/", "clear", nil)
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	AppState{Exited: true}.Encode(w)
	s.renderExit(w, r)
}

func (s *Server) renderExit(w http.ResponseWriter, r *http.Request) {
	v := view{Title: "Exit App", Active: "exit"}
	v.notify(NoticeSuccess, "Thank you for using our expense tracker, visit again!")
	v.notify(NoticeInfo, "You can close this browser tab or stop the server from your terminal.")
	s.render(w, r, http.StatusOK, "exit", v)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	AppState{}.Encode(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
