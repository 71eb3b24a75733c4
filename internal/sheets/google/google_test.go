package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ledger/internal/core"
)

type fakeSheets struct {
	mu       sync.Mutex
	calls    []string
	bodies   map[string]string
	idColumn [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path
	var op string
	switch {
	case strings.HasSuffix(path, ":append"):
		op = "append"
	case strings.HasSuffix(path, ":clear"):
		op = "clear"
	case strings.HasSuffix(path, ":batchUpdate"):
		op = "batchUpdate"
	case strings.Contains(path, "/values/") && r.Method == http.MethodGet:
		op = "get"
	case strings.Contains(path, "/values/") && r.Method == http.MethodPut:
		op = "update"
	case r.Method == http.MethodGet:
		op = "spreadsheet"
	default:
		op = r.Method + " " + path
	}
	f.calls = append(f.calls, op)
	f.bodies[op] = string(body)

	w.Header().Set("Content-Type", "application/json")
	switch op {
	case "get":
		_ = json.NewEncoder(w).Encode(map[string]any{"values": f.idColumn})
	case "spreadsheet":
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": []any{
			map[string]any{"properties": map[string]any{"title": "Other", "sheetId": 1}},
			map[string]any{"properties": map[string]any{"title": "Transactions", "sheetId": 77}},
		}})
	default:
		_, _ = w.Write([]byte(`{}`))
	}
}

func newFakeClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	f.bodies = map[string]string{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	require.NoError(t, err)

	c, err := NewWithService(svc, "sheet-123", "Transactions")
	require.NoError(t, err)
	return c
}

func TestAppendTransactionSendsRow(t *testing.T) {
	f := &fakeSheets{}
	c := newFakeClient(t, f)

	err := c.AppendTransaction(context.Background(), core.Transaction{
		ID: 5, Date: "2026-03-04", Category: core.Groceries,
		Amount: decimal.RequireFromString("12.3"), Description: "veg",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"append"}, f.calls)
	assert.Contains(t, f.bodies["append"], `["5","2026-03-04","2026-03","Groceries","12.30","veg"]`)
}

func TestRemoveTransactionDeletesMatchingRow(t *testing.T) {
	f := &fakeSheets{idColumn: [][]any{{"ID"}, {"3"}, {"5"}, {"8"}}}
	c := newFakeClient(t, f)

	require.NoError(t, c.RemoveTransaction(context.Background(), 5))
	assert.Equal(t, []string{"get", "spreadsheet", "batchUpdate"}, f.calls)
	assert.Contains(t, f.bodies["batchUpdate"], `"sheetId":77`)
	assert.Contains(t, f.bodies["batchUpdate"], `"startIndex":2`)
	assert.Contains(t, f.bodies["batchUpdate"], `"endIndex":3`)

	f.calls = nil
	require.NoError(t, c.RemoveTransaction(context.Background(), 42))
	assert.Equal(t, []string{"get"}, f.calls, "absent rows are ignored")
}

func TestReplaceAllWritesHeaderAndRows(t *testing.T) {
	f := &fakeSheets{}
	c := newFakeClient(t, f)

	err := c.ReplaceAll(context.Background(), []core.Transaction{
		{ID: 1, Date: "2026-01-01", Category: core.Income, Amount: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"clear", "update"}, f.calls)
	assert.Contains(t, f.bodies["update"], `["ID","Date","Month","Category","Amount","Description"]`)
	assert.Contains(t, f.bodies["update"], `"100.00"`)
}

func TestFindRow(t *testing.T) {
	values := [][]any{{"ID"}, {}, {"12"}, {float64(13)}}
	assert.Equal(t, 2, findRow(values, 12))
	assert.Equal(t, 3, findRow(values, 13))
	assert.Equal(t, -1, findRow(values, 14))
}

func TestNewValidation(t *testing.T) {
	_, err := NewWithService(nil, "", "Transactions")
	assert.Error(t, err)
	_, err = NewWithService(nil, "id", " ")
	assert.Error(t, err)

	_, err = credentials(Config{})
	assert.ErrorContains(t, err, "missing service account credentials")
	_, err = credentials(Config{CredentialsFile: "/does/not/exist.json"})
	assert.ErrorContains(t, err, "read service account file")
	b, err := credentials(Config{CredentialsJSON: `{"type":"service_account"}`})
	require.NoError(t, err)
	assert.Contains(t, string(b), "service_account")

	assert.Equal(t, "'Bob''s tab'", quoteSheet("Bob's tab"))
}
