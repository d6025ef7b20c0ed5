package commands

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"quetzalship/internal/core/domain/model/order"
	"quetzalship/internal/pkg/errs"
	"quetzalship/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to create a new shipment order.
// It carries the optional client-supplied idempotency token together with
// the already validated value objects describing the shipment. Without a
// token the creation is not replay-protected.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(token, origin, destination, serviceType, packages, discount, true)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, engine, publisher)
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	idempotencyToken string
	originZone       order.Zone
	destinationZone  order.Zone
	serviceType      order.ServiceType
	packages         []order.Package
	discount         order.Discount
	insuranceEnabled bool

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new shipment order.
// Validates that the zones and service type are valid, at least one
// validated package is supplied, and the discount was properly constructed.
// The idempotency token may be empty, in which case the request is processed
// without replay protection. Returns an error if any validation fails.
func NewCreateOrderCommand(
	idempotencyToken string,
	originZone order.Zone,
	destinationZone order.Zone,
	serviceType order.ServiceType,
	packages []order.Package,
	discount order.Discount,
	insuranceEnabled bool,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		idempotencyToken: idempotencyToken,
		insuranceEnabled: insuranceEnabled,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOriginZone(originZone),
		cmd.setDestinationZone(destinationZone),
		cmd.setServiceType(serviceType),
		cmd.setPackages(packages),
		cmd.setDiscount(discount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// IdempotencyToken returns the client-supplied idempotency key, empty when
// the client did not send one.
func (c CreateOrderCommand) IdempotencyToken() string {
	return c.idempotencyToken
}

// HasIdempotencyToken reports whether the request carried an idempotency
// token. Token-less requests skip the ledger entirely.
func (c CreateOrderCommand) HasIdempotencyToken() bool {
	return c.idempotencyToken != ""
}

// OriginZone returns the zone the shipment departs from.
func (c CreateOrderCommand) OriginZone() order.Zone {
	return c.originZone
}

// DestinationZone returns the zone the shipment is delivered to.
func (c CreateOrderCommand) DestinationZone() order.Zone {
	return c.destinationZone
}

// ServiceType returns the selected delivery speed tier.
func (c CreateOrderCommand) ServiceType() order.ServiceType {
	return c.serviceType
}

// Packages returns the shipment's packages.
func (c CreateOrderCommand) Packages() []order.Package {
	return c.packages
}

// Discount returns the requested discount (kind NONE when absent).
func (c CreateOrderCommand) Discount() order.Discount {
	return c.discount
}

// InsuranceEnabled reports whether insurance was requested.
func (c CreateOrderCommand) InsuranceEnabled() bool {
	return c.insuranceEnabled
}

// payloadFingerprint is the canonical serialization the payload hash is
// computed over. Field order is fixed; changing it changes every hash and
// breaks replay detection for in-flight tokens.
type payloadFingerprint struct {
	OriginZone       string               `json:"originZone"`
	DestinationZone  string               `json:"destinationZone"`
	ServiceType      string               `json:"serviceType"`
	Packages         []packageFingerprint `json:"packages"`
	DiscountKind     string               `json:"discountKind"`
	DiscountValue    float64              `json:"discountValue"`
	InsuranceEnabled bool                 `json:"insuranceEnabled"`
}

type packageFingerprint struct {
	WeightKg      float64 `json:"weightKg"`
	HeightCm      float64 `json:"heightCm"`
	WidthCm       float64 `json:"widthCm"`
	LengthCm      float64 `json:"lengthCm"`
	Fragile       bool    `json:"fragile"`
	DeclaredValue float64 `json:"declaredValue"`
}

// PayloadHash returns the hex-encoded SHA-256 of the canonical payload
// serialization. Two commands with the same shipment attributes always hash
// identically regardless of how the request arrived; package order is
// significant.
func (c CreateOrderCommand) PayloadHash() string {
	packages := make([]packageFingerprint, 0, len(c.packages))
	for _, pkg := range c.packages {
		packages = append(packages, packageFingerprint{
			WeightKg:      pkg.WeightKg(),
			HeightCm:      pkg.HeightCm(),
			WidthCm:       pkg.WidthCm(),
			LengthCm:      pkg.LengthCm(),
			Fragile:       pkg.Fragile(),
			DeclaredValue: pkg.DeclaredValue(),
		})
	}

	payload, _ := json.Marshal(payloadFingerprint{
		OriginZone:       c.originZone.String(),
		DestinationZone:  c.destinationZone.String(),
		ServiceType:      c.serviceType.String(),
		Packages:         packages,
		DiscountKind:     c.discount.Kind().String(),
		DiscountValue:    c.discount.Value(),
		InsuranceEnabled: c.insuranceEnabled,
	})

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (c *CreateOrderCommand) setOriginZone(zone order.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}

	c.originZone = zone
	return nil
}

func (c *CreateOrderCommand) setDestinationZone(zone order.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}

	c.destinationZone = zone
	return nil
}

func (c *CreateOrderCommand) setServiceType(serviceType order.ServiceType) error {
	if err := serviceType.Validate(); err != nil {
		return err
	}

	c.serviceType = serviceType
	return nil
}

func (c *CreateOrderCommand) setPackages(packages []order.Package) error {
	if len(packages) == 0 {
		return errs.NewValueIsRequiredError("packages")
	}

	for i, pkg := range packages {
		if err := pkg.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("packages[%d]", i), err)
		}
	}

	c.packages = make([]order.Package, len(packages))
	copy(c.packages, packages)
	return nil
}

func (c *CreateOrderCommand) setDiscount(discount order.Discount) error {
	if err := discount.Validate(); err != nil {
		return err
	}

	c.discount = discount
	return nil
}
