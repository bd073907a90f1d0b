package products

import (
	"github.com/shopspring/decimal"

	"github.com/agrisphere/agrisphere-backend/pkg/pagination"
)

// SortOrder names the supported catalog sorts.
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
	SortPopularity SortOrder = "popularity"
	SortRating     SortOrder = "rating"
)

// ParseSortOrder maps raw input onto a sort, defaulting to newest.
func ParseSortOrder(value string) SortOrder {
	switch SortOrder(value) {
	case SortPriceAsc, SortPriceDesc, SortPopularity, SortRating:
		return SortOrder(value)
	default:
		return SortNewest
	}
}

// ListFilters describe the filter knobs of the public browse endpoint.
type ListFilters struct {
	Query    string           `json:"q,omitempty"`
	Category string           `json:"category,omitempty"`
	MinPrice *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Sort       SortOrder
	Pagination pagination.Params
}

// ListResult is one page of the catalog plus the cursor for the next one.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
