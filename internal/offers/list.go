package offers

import (
	"github.com/mvasseur/fripe-backend/pkg/pagination"
)

// Sort directions for the price ordering.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
// All filters present on a request are applied together.
type ListFilters struct {
	Title    string   `json:"title,omitempty"`
	PriceMin *float64 `json:"priceMin,omitempty"`
	PriceMax *float64 `json:"priceMax,omitempty"`
	Sort     string   `json:"sort,omitempty"`
}

// ListInput captures the inputs needed to filter and paginate offers.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// SortDirection normalizes the requested sort, defaulting to ascending.
func (f ListFilters) SortDirection() string {
	if f.Sort == SortDesc {
		return SortDesc
	}
	return SortAsc
}
