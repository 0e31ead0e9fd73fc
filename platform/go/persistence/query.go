package persistence

import (
	"math"
	"net/url"
	"strings"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

// Reserved list-endpoint parameter names.
const (
	paramSearch    = "search"
	paramPage      = "page"
	paramLimit     = "limit"
	paramSortBy    = "sortBy"
	paramSortOrder = "sortOrder"
)

const (
	defaultPage  = int64(1)
	defaultLimit = int64(10)
	maxLimit     = int64(100)
)

// Params carries untrusted list-request parameters. Values may be strings
// (query string) or native JSON types (decoded request bodies); coercion
// treats both forms identically.
type Params map[string]any

// ParamsFromURL flattens url.Values into Params, keeping the first value of
// each key.
func ParamsFromURL(values url.Values) Params {
	params := make(Params, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

// ListOptions is the store-facing shape of a list request: a safe filter, an
// allow-listed sort, and a clamped pagination window.
type ListOptions struct {
	Filter Filter
	Sort   Sort
	Page   int64
	Skip   int64
	Limit  int64
}

// FindOptions converts the list options into the store read shape.
func (o ListOptions) FindOptions() FindOptions {
	return FindOptions{
		Filter: o.Filter,
		Sort:   o.Sort,
		Skip:   o.Skip,
		Limit:  o.Limit,
	}
}

// BuildListOptions translates untrusted parameters into a filter, sort, and
// pagination window for the collection. The translation is deliberately
// permissive: unknown parameters are ignored, non-numeric values for declared
// foreign-key filters are dropped rather than rejected, and an unknown sortBy
// falls back to the default sort. Nothing here produces an error a caller
// would see as a 4xx.
func BuildListOptions(params Params, col registry.Collection) ListOptions {
	opts := ListOptions{
		Page:  defaultPage,
		Limit: defaultLimit,
		Sort:  defaultSort(col),
	}

	if raw, present := params[paramPage]; present {
		if page, ok := coerceInt64(raw); ok && page > 1 {
			opts.Page = page
		}
	}
	if raw, present := params[paramLimit]; present {
		if limit, ok := coerceInt64(raw); ok {
			switch {
			case limit < 1:
				opts.Limit = 1
			case limit > maxLimit:
				opts.Limit = maxLimit
			default:
				opts.Limit = limit
			}
		}
	}
	opts.Skip = (opts.Page - 1) * opts.Limit

	if raw, present := params[paramSortBy]; present {
		if field, ok := raw.(string); ok && col.IsSortable(field) {
			opts.Sort.Field = field
		}
	}
	if raw, present := params[paramSortOrder]; present {
		if order, ok := raw.(string); ok && strings.EqualFold(order, string(SortAsc)) {
			opts.Sort.Order = SortAsc
		}
	}

	opts.Filter = buildFilter(params, col)
	return opts
}

func defaultSort(col registry.Collection) Sort {
	field := "createdAt"
	if !col.IsSortable(field) {
		field = col.SequenceField
	}
	return Sort{Field: field, Order: SortDesc}
}

func buildFilter(params Params, col registry.Collection) Filter {
	var filter Filter

	if raw, present := params[paramSearch]; present {
		if term, ok := raw.(string); ok {
			term = strings.TrimSpace(term)
			if term != "" && len(col.Searchable) > 0 {
				for _, field := range col.Searchable {
					filter.Or = append(filter.Or, Clause{Field: field, Op: OpContainsFold, Value: term})
				}
			}
		}
	}

	if raw, active := activeParam(params, col); active {
		if value, ok := CoerceBool(raw); ok {
			filter = filter.AndEq(col.ActiveField, value)
		}
	}

	for _, fk := range col.ForeignKeys {
		raw, present := params[fk.Field]
		if !present {
			continue
		}
		// Unparsable foreign-key filter values are dropped, not rejected.
		if id, ok := coerceInt64(raw); ok {
			filter = filter.AndEq(fk.Field, id)
		}
	}

	return filter
}

// activeParam finds the active-flag parameter under the collection's declared
// field name or the conventional lowercase aliases.
func activeParam(params Params, col registry.Collection) (any, bool) {
	for _, key := range []string{col.ActiveField, "status", "active"} {
		if raw, present := params[key]; present {
			return raw, true
		}
	}
	return nil, false
}

// PaginationMeta is the response-facing pagination contract computed for every
// list endpoint. A page beyond the last one yields an empty list with valid
// metadata, never an error.
type PaginationMeta struct {
	Page        int64 `json:"page"`
	Limit       int64 `json:"limit"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPaginationMeta computes metadata for a filtered total. TotalPages has a
// floor of 1 even when total is 0.
func NewPaginationMeta(page, limit, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	totalPages := int64(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}
	return PaginationMeta{
		Page:        page,
		Limit:       limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
