package ledger

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/gigledger/gigledger/internal/shared"
)

type stubRow struct {
	owned bool
}

func (r stubRow) Scan(dest ...any) error {
	*dest[0].(*bool) = r.owned
	return nil
}

// stubQuerier answers ownership checks from a fixed set of rows keyed
// by "table/id/userID".
type stubQuerier struct {
	rows    map[string]bool
	queries []string
}

func (q *stubQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	table := sql[strings.Index(sql, "FROM ")+len("FROM "):]
	table = table[:strings.Index(table, " ")]
	return stubRow{owned: q.rows[fmt.Sprintf("%s/%v/%v", table, args[0], args[1])]}
}

func TestVerifyRefsAcceptsOwnedRows(t *testing.T) {
	q := &stubQuerier{rows: map[string]bool{
		"drivers/3/7":   true,
		"platforms/1/7": true,
	}}

	refs := RefIf(nil, "drivers", ptr(int64(3)))
	refs = append(refs, Ref{Table: "platforms", ID: 1})
	require.NoError(t, VerifyRefs(context.Background(), q, 7, refs...))

	require.Len(t, q.queries, 2)
	for _, query := range q.queries {
		require.Contains(t, query, "user_id = $2")
	}
}

func TestVerifyRefsRejectsForeignRows(t *testing.T) {
	// driver 3 belongs to user 9, not the writing user 7.
	q := &stubQuerier{rows: map[string]bool{"drivers/3/9": true}}

	err := VerifyRefs(context.Background(), q, 7, Ref{Table: "drivers", ID: 3})
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Contains(t, err.Error(), "drivers 3")
}

func TestRefIfSkipsNilIDs(t *testing.T) {
	refs := RefIf(nil, "drivers", nil)
	require.Empty(t, refs)
	refs = RefIf(refs, "vehicles", ptr(int64(5)))
	require.Equal(t, []Ref{{Table: "vehicles", ID: 5}}, refs)
}

func ptr(v int64) *int64 {
	return &v
}

func TestRevenueOwnerClauseCoversBothRelations(t *testing.T) {
	clause := RevenueOwnerClause("r", 1)
	require.Contains(t, clause, "d.id = r.driver_id")
	require.Contains(t, clause, "rp.revenue_id = r.id")
	require.Contains(t, clause, "p.user_id = $1")
	require.Contains(t, clause, "d.user_id = $1")
	require.Equal(t, 2, strings.Count(clause, "$1"))
}

func TestExpenseOwnerClauseCoversBothRelations(t *testing.T) {
	clause := ExpenseOwnerClause("e", 3)
	require.Contains(t, clause, "d.id = e.driver_id")
	require.Contains(t, clause, "et.id = e.expense_type_id")
	require.Contains(t, clause, "d.user_id = $3")
	require.Contains(t, clause, "et.user_id = $3")
}

func TestWorkLogOwnerClauseCoversBothRelations(t *testing.T) {
	clause := WorkLogOwnerClause("w", 2)
	require.Contains(t, clause, "d.id = w.driver_id")
	require.Contains(t, clause, "v.id = w.vehicle_id")
	require.Contains(t, clause, "d.user_id = $2")
	require.Contains(t, clause, "v.user_id = $2")
}
