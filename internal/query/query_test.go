package query_test

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
)

func products(n int) []models.Product {
	out := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Product{
			ID:       fmt.Sprintf("P%03d", i),
			Name:     fmt.Sprintf("Item %d", i),
			Category: models.CategoryBooks,
			Price:    models.FormatAmount(decimal.NewFromInt(int64(i * 1000))),
			Stock:    i,
			Status:   models.ProductStatusAvailable,
		})
	}
	return out
}

func TestApply_Pagination(t *testing.T) {
	t.Parallel()

	page := query.Apply(products(25), query.Options{Page: 2, Limit: 10})

	require.Len(t, page.Items, 10)
	assert.Equal(t, "P011", page.Items[0].ID)
	assert.Equal(t, query.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, page.Pagination)

	last := query.Apply(products(25), query.Options{Page: 3, Limit: 10})
	assert.Len(t, last.Items, 5)

	beyond := query.Apply(products(25), query.Options{Page: 9, Limit: 10})
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 25, beyond.Pagination.Total)
}

func TestApply_HugePageIsEmpty(t *testing.T) {
	t.Parallel()

	opts := query.ParseOptions(url.Values{"page": {"922337203685477581"}, "limit": {"10"}}, nil)

	var page query.Page[models.Product]
	require.NotPanics(t, func() { page = query.Apply(products(25), opts) })
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 922337203685477581, page.Pagination.Page)
	assert.Equal(t, 25, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	exact := query.Apply(products(20), query.Options{Page: 3, Limit: 10})
	assert.Empty(t, exact.Items)
}

func TestApply_Defaults(t *testing.T) {
	t.Parallel()

	page := query.Apply(products(3), query.Options{})
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
	assert.Equal(t, 1, page.Pagination.TotalPages)

	empty := query.Apply([]models.Product{}, query.Options{})
	assert.Equal(t, 0, empty.Pagination.TotalPages)
	assert.NotNil(t, empty.Items)

	capped := query.Apply(products(3), query.Options{Limit: 5000})
	assert.Equal(t, query.MaxLimit, capped.Pagination.Limit)
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	items := []models.Customer{
		{ID: "C1", Name: "Alice", Email: "alice@example.com"},
		{ID: "C2", Name: "Bob", Email: "bob@EXAMPLE.com"},
		{ID: "C3", Name: "Carol", Email: "carol@other.org"},
	}

	page := query.Apply(items, query.Options{Search: "example", SearchFields: []string{"name", "email"}})
	assert.Len(t, page.Items, 2)

	page = query.Apply(items, query.Options{Search: "ALI", SearchFields: []string{"name"}})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "C1", page.Items[0].ID)
}

func TestApply_Filters(t *testing.T) {
	t.Parallel()

	items := []models.Review{
		{ID: "R1", Rating: 5, ProductID: "P1"},
		{ID: "R2", Rating: 4, ProductID: "P1"},
		{ID: "R3", Rating: 5, ProductID: "P2"},
	}

	page := query.Apply(items, query.Options{Filters: map[string]string{"rating": "5"}})
	assert.Len(t, page.Items, 2)

	page = query.Apply(items, query.Options{Filters: map[string]string{"rating": "5", "productId": "P2"}})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "R3", page.Items[0].ID)

	page = query.Apply(items, query.Options{Filters: map[string]string{"rating": ""}})
	assert.Len(t, page.Items, 3)
}

func TestApply_SortCurrencyNumerically(t *testing.T) {
	t.Parallel()

	items := []models.Product{
		{ID: "A", Price: "9,000원"},
		{ID: "B", Price: "1,500,000원"},
		{ID: "C", Price: "89,000원"},
	}

	page := query.Apply(items, query.Options{SortBy: "price", SortOrder: "desc"})
	assert.Equal(t, []string{"B", "C", "A"}, ids(page.Items))

	page = query.Apply(items, query.Options{SortBy: "price"})
	assert.Equal(t, []string{"A", "C", "B"}, ids(page.Items))
}

func TestApply_SortStableOnTies(t *testing.T) {
	t.Parallel()

	items := []models.Product{
		{ID: "A", Stock: 2},
		{ID: "B", Stock: 1},
		{ID: "C", Stock: 2},
		{ID: "D", Stock: 1},
	}

	page := query.Apply(items, query.Options{SortBy: "stock"})
	assert.Equal(t, []string{"B", "D", "A", "C"}, ids(page.Items))

	page = query.Apply(items, query.Options{SortBy: "stock", SortOrder: "desc"})
	assert.Equal(t, []string{"A", "C", "B", "D"}, ids(page.Items))
}

func TestApply_SortStrings(t *testing.T) {
	t.Parallel()

	items := []models.Product{{ID: "2", Name: "b"}, {ID: "1", Name: "a"}, {ID: "3", Name: "c"}}
	page := query.Apply(items, query.Options{SortBy: "name"})
	assert.Equal(t, []string{"1", "2", "3"}, ids(page.Items))
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	values := url.Values{
		"search":    {" laptop "},
		"page":      {"3"},
		"limit":     {"abc"},
		"sortBy":    {"price"},
		"sortOrder": {"DESC"},
		"status":    {"AVAILABLE"},
		"category":  {"all"},
	}

	opts := query.ParseOptions(values, []string{"name"}, "status", "category")
	assert.Equal(t, "laptop", opts.Search)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, query.DefaultLimit, opts.Limit)
	assert.Equal(t, "desc", opts.SortOrder)
	assert.Equal(t, map[string]string{"status": "AVAILABLE"}, opts.Filters)
}

func ids(items []models.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}
