// Package persistence implements the identity-resolution and relational-hydration
// engine sitting in front of the document store: collection-scoped sequence ids,
// dual-mode identifier lookup, write-time existence guards, foreign-key hydration
// with field projection, and the query/pagination builder shared by every
// collection.
package persistence

import (
	"context"
	"errors"
)

// Document is the wire shape of a stored record. Foreign-key fields hold plain
// integers until the hydrator substitutes the referenced (projected) document.
type Document = map[string]any

// NativeKeyField is the store-native primary key field present on every document.
const NativeKeyField = "_id"

// Op identifies a filter clause operator.
type Op string

const (
	// OpEq matches documents whose field equals the clause value.
	OpEq Op = "eq"
	// OpContainsFold matches documents whose string field contains the clause
	// value, case-insensitively.
	OpContainsFold Op = "containsFold"
	// OpIn matches documents whose field equals any of the clause values.
	OpIn Op = "in"
)

// Clause is one field predicate.
type Clause struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of clauses plus an optional OR group. The OR group
// carries the text-search predicate built across a collection's searchable
// fields; a document matches when every clause holds and, if the group is
// non-empty, at least one OR clause holds.
type Filter struct {
	Clauses []Clause
	Or      []Clause
}

// Eq builds a single-equality filter.
func Eq(field string, value any) Filter {
	return Filter{Clauses: []Clause{{Field: field, Op: OpEq, Value: value}}}
}

// In builds a set-membership filter.
func In(field string, values []int64) Filter {
	return Filter{Clauses: []Clause{{Field: field, Op: OpIn, Value: values}}}
}

// AndEq returns a copy of the filter with an extra equality clause.
func (f Filter) AndEq(field string, value any) Filter {
	clauses := make([]Clause, 0, len(f.Clauses)+1)
	clauses = append(clauses, f.Clauses...)
	clauses = append(clauses, Clause{Field: field, Op: OpEq, Value: value})
	return Filter{Clauses: clauses, Or: f.Or}
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return len(f.Clauses) == 0 && len(f.Or) == 0
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort specifies the field and direction applied to a find.
type Sort struct {
	Field string
	Order SortOrder
}

// FindOptions shapes a multi-document read.
type FindOptions struct {
	Filter     Filter
	Sort       Sort
	Skip       int64
	Limit      int64
	Projection []string
}

// ErrNotFound indicates no document matched a single-document lookup.
var ErrNotFound = errors.New("document not found")

// Store is the contract the engine requires from the underlying document
// database. Implementations must treat NextSequence as an atomic
// increment-and-read; "read max and add one" violates the uniqueness invariant
// under concurrent creations.
type Store interface {
	// Insert persists the document and returns it with the generated native key.
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	// FindByNativeKey fetches a document by its store-native primary key.
	FindByNativeKey(ctx context.Context, collection, nativeKey string) (Document, error)
	// FindOne fetches the first document matching the filter, optionally projected.
	FindOne(ctx context.Context, collection string, filter Filter, projection []string) (Document, error)
	// Find fetches documents matching the options.
	Find(ctx context.Context, collection string, opts FindOptions) ([]Document, error)
	// Count returns the number of documents matching the filter.
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	// Update applies the set document to the first match and returns the
	// updated document.
	Update(ctx context.Context, collection string, filter Filter, set Document) (Document, error)
	// NextSequence atomically increments the named counter and returns the new
	// value, starting at 1.
	NextSequence(ctx context.Context, name string) (int64, error)
}
