// Package catalog manages the user-owned lookup entities every ledger
// record references: drivers, vehicles, platforms, expense types and
// payment methods. All five share the same shape and lifecycle, so one
// kind-parameterised implementation serves them all.
package catalog

import (
	"time"

	"github.com/gigledger/gigledger/internal/cache"
)

// Kind identifies one lookup entity family.
type Kind string

const (
	KindDriver        Kind = "driver"
	KindVehicle       Kind = "vehicle"
	KindPlatform      Kind = "platform"
	KindExpenseType   Kind = "expenseType"
	KindPaymentMethod Kind = "paymentMethod"
)

type kindSpec struct {
	table string
	tag   cache.Tag
}

// Every kind maps to its table and the cache tag its mutations evict.
var kinds = map[Kind]kindSpec{
	KindDriver:        {table: "drivers", tag: cache.TagDrivers},
	KindVehicle:       {table: "vehicles", tag: cache.TagVehicles},
	KindPlatform:      {table: "platforms", tag: cache.TagPlatforms},
	KindExpenseType:   {table: "expense_types", tag: cache.TagExpenseTypes},
	KindPaymentMethod: {table: "payment_methods", tag: cache.TagPaymentMethods},
}

// Valid reports whether k names a known entity family.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Tag returns the cache tag evicted when records of this kind change.
func (k Kind) Tag() cache.Tag {
	return kinds[k].tag
}

// Item is one lookup record. Name is unique per user within a kind.
type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NameInput is the payload for create and rename operations.
type NameInput struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}
