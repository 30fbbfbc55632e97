// Package query implements search, filtering, sorting and pagination over
// in-memory record slices.
package query

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/vaidashi/backoffice-api/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 1000

	SortAsc  = "asc"
	SortDesc = "desc"
)

// amountFields are compared as currency even when a value lacks the suffix
var amountFields = map[string]bool{
	"price":      true,
	"totalSpent": true,
	"amount":     true,
}

// Record exposes named attributes of an entity
type Record interface {
	Field(name string) (interface{}, bool)
}

// Options controls a single query
type Options struct {
	Search       string
	SearchFields []string
	Filters      map[string]string
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

// Pagination describes the slice of results returned
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one page of results
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ParseOptions reads search, page, limit, sortBy, sortOrder and the given
// filter keys from URL query values. Filter values of "" or "all" are ignored.
func ParseOptions(values url.Values, searchFields []string, filterKeys ...string) Options {
	opts := Options{
		Search:       strings.TrimSpace(values.Get("search")),
		SearchFields: searchFields,
		SortBy:       values.Get("sortBy"),
		SortOrder:    strings.ToLower(values.Get("sortOrder")),
		Page:         atoiOr(values.Get("page"), DefaultPage),
		Limit:        atoiOr(values.Get("limit"), DefaultLimit),
		Filters:      make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := values.Get(key); v != "" && v != "all" {
			opts.Filters[key] = v
		}
	}
	return opts
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Apply filters, sorts and paginates items. The input slice is not modified.
func Apply[T Record](items []T, opts Options) Page[T] {
	result := make([]T, 0, len(items))

	needle := strings.ToLower(opts.Search)
	for _, item := range items {
		if needle != "" && len(opts.SearchFields) > 0 && !matchesSearch(item, opts.SearchFields, needle) {
			continue
		}
		if !matchesFilters(item, opts.Filters) {
			continue
		}
		result = append(result, item)
	}

	if opts.SortBy != "" {
		desc := opts.SortOrder == SortDesc
		sort.SliceStable(result, func(i, j int) bool {
			c := compare(result[i], result[j], opts.SortBy)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	page, limit := opts.Page, opts.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	total := len(result)
	start, end := total, total
	// page-1 is bounded first so huge page numbers cannot overflow the offset
	if page-1 <= total/limit {
		start = (page - 1) * limit
		if start+limit < total {
			end = start + limit
		}
	}

	return Page[T]{
		Items: result[start:end],
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}
}

func render(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func matchesSearch(item Record, fields []string, needle string) bool {
	for _, f := range fields {
		v, ok := item.Field(f)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(render(v)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(item Record, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}
		v, _ := item.Field(key)
		if render(v) != want {
			return false
		}
	}
	return true
}

// compare orders a and b by field: currency strings numerically after
// stripping non-digits, numbers numerically, anything else lexicographically.
func compare(a, b Record, field string) int {
	av, _ := a.Field(field)
	bv, _ := b.Field(field)

	as, aIsStr := av.(string)
	bs, _ := bv.(string)
	if aIsStr && (amountFields[field] || strings.Contains(as, models.CurrencySuffix)) {
		return models.ParseAmount(as).Cmp(models.ParseAmount(bs))
	}

	if an, ok := number(av); ok {
		if bn, ok := number(bv); ok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(render(av), render(bv))
}


func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
