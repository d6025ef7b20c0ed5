// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"sort"
	"time"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The pricing breakdown is embedded in the row because it is frozen at
// creation time and always read together with the order.
type OrderDTO struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey"`
	CreatedAt        time.Time    `gorm:"index:idx_orders_created_at"`
	OriginZone       string       `gorm:"type:varchar(16)"`
	DestinationZone  string       `gorm:"type:varchar(16)"`
	ServiceType      string       `gorm:"type:varchar(16)"`
	DiscountKind     string       `gorm:"type:varchar(16)"`
	DiscountValue    float64      ``
	InsuranceEnabled bool         ``
	Status           string       `gorm:"type:varchar(16);index"`
	Breakdown        BreakdownDTO `gorm:"embedded"`
	Total            float64      ``
	CancelledAt      *time.Time   ``
	Packages         []PackageDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// BreakdownDTO represents the embedded pricing breakdown columns within the
// orders table. Column names are fixed because the query side reads them by
// raw SQL.
type BreakdownDTO struct {
	BillableKg             float64 `gorm:"column:billable_kg"`
	BaseSubtotal           float64 `gorm:"column:base_subtotal"`
	ServiceSubtotal        float64 `gorm:"column:service_subtotal"`
	FragileSurcharge       float64 `gorm:"column:fragile_surcharge"`
	InsuranceSurcharge     float64 `gorm:"column:insurance_surcharge"`
	SubtotalWithSurcharges float64 `gorm:"column:subtotal_with_surcharges"`
	DiscountAmount         float64 `gorm:"column:discount_amount"`
}

// PackageDTO represents one parcel row. Seq preserves the order packages
// arrived in; the payload fingerprint treats package order as significant, so
// reads must reproduce it.
type PackageDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	Seq           int       ``
	WeightKg      float64   ``
	HeightCm      float64   ``
	WidthCm       float64   ``
	LengthCm      float64   ``
	Fragile       bool      ``
	DeclaredValue float64   ``
}

// TableName specifies the database table name for package entities.
func (PackageDTO) TableName() string {
	return "packages"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	packages := aggregate.Packages()
	packageDTOs := make([]PackageDTO, 0, len(packages))
	for i, pkg := range packages {
		packageDTOs = append(packageDTOs, PackageDTO{
			ID:            uuid.New(),
			OrderID:       aggregate.ID().UUID(),
			Seq:           i,
			WeightKg:      pkg.WeightKg(),
			HeightCm:      pkg.HeightCm(),
			WidthCm:       pkg.WidthCm(),
			LengthCm:      pkg.LengthCm(),
			Fragile:       pkg.Fragile(),
			DeclaredValue: pkg.DeclaredValue(),
		})
	}

	breakdown := aggregate.Breakdown()

	return OrderDTO{
		ID:               aggregate.ID().UUID(),
		CreatedAt:        aggregate.CreatedAt(),
		OriginZone:       aggregate.OriginZone().String(),
		DestinationZone:  aggregate.DestinationZone().String(),
		ServiceType:      aggregate.ServiceType().String(),
		DiscountKind:     aggregate.Discount().Kind().String(),
		DiscountValue:    aggregate.Discount().Value(),
		InsuranceEnabled: aggregate.InsuranceEnabled(),
		Status:           aggregate.Status().String(),
		Breakdown: BreakdownDTO{
			BillableKg:             breakdown.OrderBillableKg,
			BaseSubtotal:           breakdown.BaseSubtotal,
			ServiceSubtotal:        breakdown.ServiceSubtotal,
			FragileSurcharge:       breakdown.FragileSurcharge,
			InsuranceSurcharge:     breakdown.InsuranceSurcharge,
			SubtotalWithSurcharges: breakdown.SubtotalWithSurcharges,
			DiscountAmount:         breakdown.DiscountAmount,
		},
		Total:       aggregate.Total(),
		CancelledAt: aggregate.CancelledAt(),
		Packages:    packageDTOs,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and cancellation
// timestamp using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.OrderIDFromUUID(dto.ID)
	if err != nil {
		return nil, err
	}

	originZone, err := order.ZoneFromString(dto.OriginZone)
	if err != nil {
		return nil, err
	}

	destinationZone, err := order.ZoneFromString(dto.DestinationZone)
	if err != nil {
		return nil, err
	}

	serviceType, err := order.ServiceTypeFromString(dto.ServiceType)
	if err != nil {
		return nil, err
	}

	discountKind, err := order.DiscountKindFromString(dto.DiscountKind)
	if err != nil {
		return nil, err
	}

	discount, err := order.NewDiscount(discountKind, dto.DiscountValue)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	sort.Slice(dto.Packages, func(i, j int) bool {
		return dto.Packages[i].Seq < dto.Packages[j].Seq
	})

	packages := make([]order.Package, 0, len(dto.Packages))
	for _, pkgDTO := range dto.Packages {
		pkg, pkgErr := order.NewPackage(
			pkgDTO.WeightKg,
			pkgDTO.HeightCm,
			pkgDTO.WidthCm,
			pkgDTO.LengthCm,
			pkgDTO.Fragile,
			pkgDTO.DeclaredValue,
		)
		if pkgErr != nil {
			return nil, pkgErr
		}
		packages = append(packages, pkg)
	}

	return order.RestoreOrder(
		id,
		dto.CreatedAt,
		originZone,
		destinationZone,
		serviceType,
		packages,
		discount,
		dto.InsuranceEnabled,
		order.Breakdown{
			OrderBillableKg:        dto.Breakdown.BillableKg,
			BaseSubtotal:           dto.Breakdown.BaseSubtotal,
			ServiceSubtotal:        dto.Breakdown.ServiceSubtotal,
			FragileSurcharge:       dto.Breakdown.FragileSurcharge,
			InsuranceSurcharge:     dto.Breakdown.InsuranceSurcharge,
			SubtotalWithSurcharges: dto.Breakdown.SubtotalWithSurcharges,
			DiscountAmount:         dto.Breakdown.DiscountAmount,
			Total:                  dto.Total,
		},
		status,
		dto.CancelledAt,
	)
}
