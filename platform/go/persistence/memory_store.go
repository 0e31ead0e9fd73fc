package persistence

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and ephemeral environments.
// It mirrors the Mongo implementation's observable behavior: hex native keys,
// sequence counters starting at 1, case-insensitive substring matching, and
// update-returning-new-document semantics.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
	counters    map[string]int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Document),
		counters:    make(map[string]int64),
	}
}

// Insert stores a deep copy of the document with a generated native key.
func (s *MemoryStore) Insert(ctx context.Context, collection string, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := copyDocument(doc)
	stored[NativeKeyField] = newNativeKey()

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], stored)
	s.mu.Unlock()

	return copyDocument(stored), nil
}

// FindByNativeKey fetches a document by its generated hex key.
func (s *MemoryStore) FindByNativeKey(ctx context.Context, collection, nativeKey string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := strings.ToLower(nativeKey)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[collection] {
		if doc[NativeKeyField] == key {
			return copyDocument(doc), nil
		}
	}
	return nil, ErrNotFound
}

// FindOne returns the first matching document.
func (s *MemoryStore) FindOne(ctx context.Context, collection string, filter Filter, projection []string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			return project(copyDocument(doc), projection), nil
		}
	}
	return nil, ErrNotFound
}

// Find returns matching documents honoring sort, skip, limit, and projection.
func (s *MemoryStore) Find(ctx context.Context, collection string, opts FindOptions) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Matches are copied under the read lock; sorting and projection below
	// must never touch the live stored maps once the lock is released.
	s.mu.RLock()
	var matched []Document
	for _, doc := range s.collections[collection] {
		if matches(doc, opts.Filter) {
			matched = append(matched, copyDocument(doc))
		}
	}
	s.mu.RUnlock()

	if opts.Sort.Field != "" {
		sortDocuments(matched, opts.Sort)
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	results := make([]Document, 0, len(matched))
	for _, doc := range matched {
		results = append(results, project(doc, opts.Projection))
	}
	return results, nil
}

// Count returns the number of matching documents.
func (s *MemoryStore) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			total++
		}
	}
	return total, nil
}

// Update applies the set fields to the first match and returns the new document.
func (s *MemoryStore) Update(ctx context.Context, collection string, filter Filter, set Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			for field, value := range set {
				doc[field] = copyValue(value)
			}
			return copyDocument(doc), nil
		}
	}
	return nil, ErrNotFound
}

// NextSequence atomically increments the named counter.
func (s *MemoryStore) NextSequence(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	return s.counters[name], nil
}

func newNativeKey() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func matches(doc Document, filter Filter) bool {
	for _, clause := range filter.Clauses {
		if !clauseMatches(doc, clause) {
			return false
		}
	}
	if len(filter.Or) > 0 {
		anyMatch := false
		for _, clause := range filter.Or {
			if clauseMatches(doc, clause) {
				anyMatch = true
				break
			}
		}
		if !anyMatch {
			return false
		}
	}
	return true
}

func clauseMatches(doc Document, clause Clause) bool {
	value, present := doc[clause.Field]
	switch clause.Op {
	case OpEq:
		return present && valuesEqual(value, clause.Value)
	case OpContainsFold:
		if !present {
			return false
		}
		haystack, okH := value.(string)
		needle, okN := clause.Value.(string)
		if !okH || !okN {
			return false
		}
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	case OpIn:
		if !present {
			return false
		}
		ids, ok := clause.Value.([]int64)
		if !ok {
			return false
		}
		for _, id := range ids {
			if valuesEqual(value, id) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func valuesEqual(a, b any) bool {
	if na, okA := toInt64(a); okA {
		if nb, okB := toInt64(b); okB {
			return na == nb
		}
		return false
	}
	return a == b
}

func sortDocuments(docs []Document, s Sort) {
	asc := s.Order != SortDesc
	sort.SliceStable(docs, func(i, j int) bool {
		less := valueLess(docs[i][s.Field], docs[j][s.Field])
		if asc {
			return less
		}
		return valueLess(docs[j][s.Field], docs[i][s.Field])
	})
}

func valueLess(a, b any) bool {
	if na, okA := toInt64(a); okA {
		if nb, okB := toInt64(b); okB {
			return na < nb
		}
	}
	if ta, okA := a.(time.Time); okA {
		if tb, okB := b.(time.Time); okB {
			return ta.Before(tb)
		}
	}
	if sa, okA := a.(string); okA {
		if sb, okB := b.(string); okB {
			return sa < sb
		}
	}
	return false
}

func project(doc Document, projection []string) Document {
	if len(projection) == 0 {
		return doc
	}
	projected := make(Document, len(projection)+1)
	if id, present := doc[NativeKeyField]; present {
		projected[NativeKeyField] = id
	}
	for _, field := range projection {
		if value, present := doc[field]; present {
			projected[field] = value
		}
	}
	return projected
}

func copyDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	copied := make(Document, len(doc))
	for field, value := range doc {
		copied[field] = copyValue(value)
	}
	return copied
}

func copyValue(value any) any {
	switch v := value.(type) {
	case Document:
		return copyDocument(v)
	case []any:
		copied := make([]any, len(v))
		for i, item := range v {
			copied[i] = copyValue(item)
		}
		return copied
	default:
		return v
	}
}
