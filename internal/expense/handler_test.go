package expense

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gigledger/gigledger/internal/shared"
)

type fakeStore struct {
	expenses map[int64]*Expense
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{expenses: map[int64]*Expense{}, nextID: 1}
}

func (f *fakeStore) Create(ctx context.Context, userID int64, input CreateInput) (*Expense, error) {
	exp := &Expense{
		ID:            f.nextID,
		Amount:        input.Amount,
		Date:          input.Date,
		Description:   input.Description,
		ExpenseTypeID: input.ExpenseTypeID,
	}
	f.expenses[f.nextID] = exp
	f.nextID++
	return exp, nil
}

func (f *fakeStore) Get(ctx context.Context, userID, id int64) (*Expense, error) {
	exp, ok := f.expenses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return exp, nil
}

func (f *fakeStore) Count(ctx context.Context, userID int64) (int, error) {
	return len(f.expenses), nil
}

func (f *fakeStore) List(ctx context.Context, userID int64, limit, offset int) ([]Expense, error) {
	out := make([]Expense, 0, len(f.expenses))
	for _, exp := range f.expenses {
		out = append(out, *exp)
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, userID, id int64, input UpdateInput) (*Expense, error) {
	exp, ok := f.expenses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	exp.Amount = input.Amount
	return exp, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, id int64) error {
	if _, ok := f.expenses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

func testHandler() *Handler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewHandler(logger, NewService(newFakeStore(), nil))
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(shared.ContextWithUserID(r.Context(), 7))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleCreateExpense(t *testing.T) {
	h := testHandler()

	body := strings.NewReader(`{"amount":45.5,"date":"2025-03-10T00:00:00Z","description":"fuel","expenseTypeId":3}`)
	rec := httptest.NewRecorder()
	h.handleCreate(rec, authed(httptest.NewRequest(http.MethodPost, "/expenses", body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var exp Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exp))
	require.Equal(t, 45.5, exp.Amount)
	require.Equal(t, time.March, exp.Date.Month())
	require.NotNil(t, exp.ExpenseTypeID)
}

func TestHandleCreateRequiresExpenseType(t *testing.T) {
	h := testHandler()

	body := strings.NewReader(`{"amount":45.5,"date":"2025-03-10T00:00:00Z","description":"fuel"}`)
	rec := httptest.NewRecorder()
	h.handleCreate(rec, authed(httptest.NewRequest(http.MethodPost, "/expenses", body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateRejectsNonPositiveAmount(t *testing.T) {
	h := testHandler()

	body := strings.NewReader(`{"amount":0,"date":"2025-03-10T00:00:00Z"}`)
	rec := httptest.NewRecorder()
	h.handleCreate(rec, authed(httptest.NewRequest(http.MethodPost, "/expenses", body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetMissingExpense(t *testing.T) {
	h := testHandler()

	r := authed(httptest.NewRequest(http.MethodGet, "/expenses/99", nil))
	r = withURLParam(r, "id", "99")
	rec := httptest.NewRecorder()
	h.handleGet(rec, r)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlersRequireAuth(t *testing.T) {
	h := testHandler()

	rec := httptest.NewRecorder()
	h.handleList(rec, httptest.NewRequest(http.MethodGet, "/expenses", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
