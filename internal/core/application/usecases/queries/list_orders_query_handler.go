package queries

import (
	"context"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler pages through orders in the database, newest first.
// Ties on created_at break on id so a page boundary never drops or repeats a
// row.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler for order listings.
// Requires a GORM database connection for query execution.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle executes the listing query and returns one page of summaries with
// paging metadata.
func (h ListOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersQuery,
) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	statusFilter := ""
	if query.Status() != order.StatusUnknown {
		statusFilter = query.Status().String()
	}

	total, err := h.count(ctx, statusFilter)
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	summaries, err := h.page(ctx, statusFilter, query.PageSize(), (query.Page()-1)*query.PageSize())
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	totalPages := int((total + int64(query.PageSize()) - 1) / int64(query.PageSize()))
	if totalPages < 1 {
		totalPages = 1
	}

	return ListOrdersQueryResponse{
		Orders:     summaries,
		Total:      total,
		Page:       query.Page(),
		PageSize:   query.PageSize(),
		TotalPages: totalPages,
	}, nil
}

func (h ListOrdersQueryHandler) count(ctx context.Context, statusFilter string) (int64, error) {
	var total int64

	stmt := h.db.WithContext(ctx)
	if statusFilter != "" {
		err := stmt.Raw(`SELECT COUNT(*) FROM orders WHERE status = ?`, statusFilter).Scan(&total).Error
		return total, err
	}

	err := stmt.Raw(`SELECT COUNT(*) FROM orders`).Scan(&total).Error
	return total, err
}

func (h ListOrdersQueryHandler) page(
	ctx context.Context,
	statusFilter string,
	limit int,
	offset int,
) ([]OrderSummary, error) {
	summaries := make([]OrderSummary, 0)

	query := `
		SELECT
			o.id,
			o.created_at,
			o.status,
			o.origin_zone,
			o.destination_zone,
			o.service_type,
			o.total,
			(SELECT COUNT(*) FROM packages p WHERE p.order_id = o.id)
		FROM orders o
	`
	args := make([]any, 0, 3)
	if statusFilter != "" {
		query += ` WHERE o.status = ?`
		args = append(args, statusFilter)
	}
	query += `
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := h.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			summary     OrderSummary
			id          uuid.UUID
			status      string
			originZone  string
			destZone    string
			serviceType string
		)

		err = rows.Scan(
			&id,
			&summary.CreatedAt,
			&status,
			&originZone,
			&destZone,
			&serviceType,
			&summary.Total,
			&summary.PackageCount,
		)
		if err != nil {
			return nil, err
		}

		summary.ID, err = kernel.OrderIDFromUUID(id)
		if err != nil {
			return nil, err
		}
		if summary.Status, err = order.StatusFromString(status); err != nil {
			return nil, err
		}
		if summary.OriginZone, err = order.ZoneFromString(originZone); err != nil {
			return nil, err
		}
		if summary.DestinationZone, err = order.ZoneFromString(destZone); err != nil {
			return nil, err
		}
		if summary.ServiceType, err = order.ServiceTypeFromString(serviceType); err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
