package dailyentry

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gigledger/gigledger/internal/expense"
	"github.com/gigledger/gigledger/internal/revenue"
	"github.com/gigledger/gigledger/internal/shared"
)

type stubCreator struct {
	calls  int
	userID int64
	input  Input
}

func (s *stubCreator) Create(ctx context.Context, userID int64, input Input) (*Result, error) {
	s.calls++
	s.userID = userID
	s.input = input
	result := &Result{Revenue: &revenue.Revenue{ID: 1, Amount: input.RevenueAmount, Date: input.Date}}
	if input.ExpenseAmount != nil {
		result.Expense = &expense.Expense{ID: 2, Amount: *input.ExpenseAmount, Date: input.Date}
	}
	return result, nil
}

func newTestHandler(creator Creator) *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(os.Stderr, nil)), creator)
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(shared.ContextWithUserID(r.Context(), 7))
}

func TestDailyEntryWithExpense(t *testing.T) {
	creator := &stubCreator{}
	h := newTestHandler(creator)

	body := strings.NewReader(`{"date":"2025-03-10T00:00:00Z","revenueAmount":250,"expenseAmount":40,"expenseTypeId":5,"platformIds":[1,2]}`)
	rec := httptest.NewRecorder()
	h.handleCreate(rec, authed(httptest.NewRequest(http.MethodPost, "/daily-entries", body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Revenue)
	require.NotNil(t, result.Expense)
	require.Equal(t, 250.0, result.Revenue.Amount)
	require.Equal(t, 40.0, result.Expense.Amount)
	require.Equal(t, []int64{1, 2}, creator.input.PlatformIDs)
	require.Equal(t, int64(7), creator.userID)
}

func TestDailyEntryExpenseRequiresType(t *testing.T) {
	creator := &stubCreator{}
	h := newTestHandler(creator)

	body := strings.NewReader(`{"date":"2025-03-10T00:00:00Z","revenueAmount":250,"expenseAmount":40,"platformIds":[1]}`)
	rec := httptest.NewRecorder()
	h.handleCreate(rec, authed(httptest.NewRequest(http.MethodPost, "/daily-entries", body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, creator.calls)
}

func TestDailyEntryRevenueOnly(t *testing.T) {
	h := newTestHandler(&stubCreator{})

	body := strings.NewReader(`{"date":"2025-03-10T00:00:00Z","revenueAmount":180,"driverId":3}`)
	rec := httptest.NewRecorder()
	h.handleCreate(rec, authed(httptest.NewRequest(http.MethodPost, "/daily-entries", body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Revenue)
	require.Nil(t, result.Expense)
}

func TestDailyEntryRejectsZeroRevenue(t *testing.T) {
	creator := &stubCreator{}
	h := newTestHandler(creator)

	body := strings.NewReader(`{"date":"2025-03-10T00:00:00Z","revenueAmount":0}`)
	rec := httptest.NewRecorder()
	h.handleCreate(rec, authed(httptest.NewRequest(http.MethodPost, "/daily-entries", body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, creator.calls)
}

func TestDailyEntryRequiresAuth(t *testing.T) {
	h := newTestHandler(&stubCreator{})
	rec := httptest.NewRecorder()
	h.handleCreate(rec, httptest.NewRequest(http.MethodPost, "/daily-entries", strings.NewReader("{}")))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
