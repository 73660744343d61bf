// Package ledger holds helpers shared by the revenue, expense and work
// log modules.
package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gigledger/gigledger/internal/shared"
)

// Ledger rows carry no user_id column; ownership is derived transitively
// through driver, platform, vehicle and expense-type foreign keys. Every
// fetch must scope rows with one of these clauses, and every write must
// run its dimension ids through VerifyRefs; a missing join or an
// unchecked insert here is a cross-tenant leak.

// Querier is satisfied by both the pool and an open transaction.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ref names a lookup row a ledger write wants to reference.
type Ref struct {
	Table string
	ID    int64
}

// RefIf appends a Ref for id when it is set.
func RefIf(refs []Ref, table string, id *int64) []Ref {
	if id == nil {
		return refs
	}
	return append(refs, Ref{Table: table, ID: *id})
}

// VerifyRefs checks that every referenced lookup row belongs to the
// writing user. A row owned by someone else is indistinguishable from a
// missing one, so both come back as shared.ErrNotFound.
func VerifyRefs(ctx context.Context, q Querier, userID int64, refs ...Ref) error {
	for _, ref := range refs {
		query := fmt.Sprintf(
			"SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1 AND user_id = $2)", ref.Table)
		var owned bool
		if err := q.QueryRow(ctx, query, ref.ID, userID).Scan(&owned); err != nil {
			return err
		}
		if !owned {
			return fmt.Errorf("%s %d: %w", ref.Table, ref.ID, shared.ErrNotFound)
		}
	}
	return nil
}

// RevenueOwnerClause scopes revenue rows aliased as alias to the user
// bound at placeholder $argIdx. A revenue belongs to the user owning its
// driver or any of its platforms.
func RevenueOwnerClause(alias string, argIdx int) string {
	return fmt.Sprintf(`(EXISTS (SELECT 1 FROM drivers d WHERE d.id = %[1]s.driver_id AND d.user_id = $%[2]d)
		OR EXISTS (SELECT 1 FROM revenue_platforms rp JOIN platforms p ON p.id = rp.platform_id WHERE rp.revenue_id = %[1]s.id AND p.user_id = $%[2]d))`, alias, argIdx)
}

// ExpenseOwnerClause scopes expense rows aliased as alias to the user
// bound at placeholder $argIdx. An expense belongs to the user owning
// its driver or its expense type.
func ExpenseOwnerClause(alias string, argIdx int) string {
	return fmt.Sprintf(`(EXISTS (SELECT 1 FROM drivers d WHERE d.id = %[1]s.driver_id AND d.user_id = $%[2]d)
		OR EXISTS (SELECT 1 FROM expense_types et WHERE et.id = %[1]s.expense_type_id AND et.user_id = $%[2]d))`, alias, argIdx)
}

// WorkLogOwnerClause scopes work log rows aliased as alias to the user
// bound at placeholder $argIdx. A work log belongs to the user owning
// its driver or its vehicle.
func WorkLogOwnerClause(alias string, argIdx int) string {
	return fmt.Sprintf(`(EXISTS (SELECT 1 FROM drivers d WHERE d.id = %[1]s.driver_id AND d.user_id = $%[2]d)
		OR EXISTS (SELECT 1 FROM vehicles v WHERE v.id = %[1]s.vehicle_id AND v.user_id = $%[2]d))`, alias, argIdx)
}
