package http

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"ledger/internal/core"
	"ledger/internal/log"
)

// NoticeKind selects how a notice is styled.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-line message shown above page content.
type Notice struct {
	Kind NoticeKind
	Text string
}

// view is what every page template receives.
type view struct {
	Title   string
	Active  string
	Notices []Notice
	Data    any
}

func (v *view) notify(kind NoticeKind, text string) {
	v.Notices = append(v.Notices, Notice{Kind: kind, Text: text})
}

// render executes a page into a buffer first so a template failure still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	t, ok := s.pages[page]
	if !ok {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Unknown page template", "template", page)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"template", page, log.FieldError, err.Error())
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// redirectDone sends the browser to target with a completion marker that
// the next page turns into a notice.
func redirectDone(w http.ResponseWriter, r *http.Request, target, done string, extra url.Values) {
	q := url.Values{}
	for k, vs := range extra {
		q[k] = vs
	}
	q.Set("done", done)
	http.Redirect(w, r, target+"?"+q.Encode(), http.StatusSeeOther)
}

// doneNotice maps a completion marker back to its message.
func doneNotice(q url.Values) (Notice, bool) {
	switch q.Get("done") {
	case "income":
		return Notice{NoticeSuccess, "Income added successfully!"}, true
	case "expense":
		return Notice{NoticeSuccess, "Expense added successfully!"}, true
	case "budget":
		if m, err := core.ParseMonth(q.Get("month")); err == nil {
			return Notice{NoticeSuccess, fmt.Sprintf("Budget for %s saved successfully!", m)}, true
		}
		return Notice{NoticeSuccess, "Budget saved successfully!"}, true
	case "delete":
		if id, err := parseID(q.Get("id")); err == nil {
			return Notice{NoticeSuccess, fmt.Sprintf("Expense with ID %d deleted successfully!", id)}, true
		}
		return Notice{NoticeSuccess, "Expense deleted successfully!"}, true
	case "clear":
		return Notice{NoticeSuccess, "All data cleared!"}, true
	default:
		return Notice{}, false
	}
}

// budgetNotice is the dashboard alert for the current budget band.
func budgetNotice(u core.BudgetUsage, money MoneyFormatter) Notice {
	switch u.Band {
	case core.BandExceeded:
		return Notice{NoticeError, "BUDGET EXCEEDED! Overspent by " + money.Format(u.Overspend())}
	case core.BandWarning:
		return Notice{NoticeWarning, fmt.Sprintf("%s budget used! Only %s left",
			formatPercent(u.PercentUsed), money.Format(u.Remaining))}
	case core.BandHalfUsed:
		return Notice{NoticeInfo, "Half budget used. " + money.Format(u.Remaining) + " remaining"}
	default:
		return Notice{NoticeSuccess, "Well within budget! Keep it up!"}
	}
}
