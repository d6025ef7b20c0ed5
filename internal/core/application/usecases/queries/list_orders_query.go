package queries

import (
	"errors"
	"time"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListOrdersQuery retrieves a page of order summaries, newest first, with an
// optional status filter.
//
// Paging inputs are normalized rather than rejected: a page below 1 becomes
// 1, a page size below 1 becomes 20, and a page size above 100 is capped at
// 100. A page past the end of the result set yields an empty page, not an
// error.
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	status   order.Status // StatusUnknown means no filter
	page     int
	pageSize int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a list query. statusFilter is the canonical
// status string to filter by, or empty for all orders.
func NewListOrdersQuery(statusFilter string, page int, pageSize int) (ListOrdersQuery, error) {
	query := ListOrdersQuery{
		page:     page,
		pageSize: pageSize,
		guard:    guard.NewConstructorGuard(),
	}

	if statusFilter != "" {
		status, err := order.StatusFromString(statusFilter)
		if err != nil {
			return ListOrdersQuery{}, err
		}
		query.status = status
	}

	if query.page < 1 {
		query.page = defaultPage
	}
	if query.pageSize < 1 {
		query.pageSize = defaultPageSize
	}
	if query.pageSize > maxPageSize {
		query.pageSize = maxPageSize
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrListOrdersQueryIsNotConstructed if validation fails.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Status returns the status filter; StatusUnknown means no filter applies.
func (q ListOrdersQuery) Status() order.Status {
	return q.status
}

// Page returns the normalized 1-based page number.
func (q ListOrdersQuery) Page() int {
	return q.page
}

// PageSize returns the normalized page size.
func (q ListOrdersQuery) PageSize() int {
	return q.pageSize
}

// OrderSummary is the read model of one order in a listing.
type OrderSummary struct {
	ID              kernel.OrderID
	CreatedAt       time.Time
	Status          order.Status
	OriginZone      order.Zone
	DestinationZone order.Zone
	ServiceType     order.ServiceType
	PackageCount    int
	Total           float64
}

// ListOrdersQueryResponse is one page of order summaries plus paging
// metadata. TotalPages is at least 1 even when the result set is empty.
type ListOrdersQueryResponse struct {
	Orders     []OrderSummary
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}
