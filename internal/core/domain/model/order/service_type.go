package order

import (
	"fmt"

	"quetzalship/internal/pkg/errs"
)

// ServiceType represents the delivery speed tier selected for an order.
// The service type determines the multiplier applied to the base subtotal.
type ServiceType int

const (
	// ServiceTypeUnknown represents an invalid or undefined service type.
	ServiceTypeUnknown ServiceType = iota

	// ServiceTypeStandard is regular delivery.
	ServiceTypeStandard

	// ServiceTypeExpress is accelerated delivery.
	ServiceTypeExpress

	// ServiceTypeSameDay is same-day delivery.
	ServiceTypeSameDay
)

// getServiceTypeStrings returns a map of ServiceType values to their string representations.
func getServiceTypeStrings() map[ServiceType]string {
	return map[ServiceType]string{
		ServiceTypeUnknown:  "UNKNOWN",
		ServiceTypeStandard: "STANDARD",
		ServiceTypeExpress:  "EXPRESS",
		ServiceTypeSameDay:  "SAME_DAY",
	}
}

// getValidServiceTypeStrings returns a map of only valid ServiceType values.
func getValidServiceTypeStrings() map[ServiceType]string {
	//nolint:exhaustive // ServiceTypeUnknown is intentionally excluded as it's invalid
	return map[ServiceType]string{
		ServiceTypeStandard: "STANDARD",
		ServiceTypeExpress:  "EXPRESS",
		ServiceTypeSameDay:  "SAME_DAY",
	}
}

// ServiceTypeFromString parses a canonical service type string ("STANDARD",
// "EXPRESS", "SAME_DAY") into a ServiceType.
func ServiceTypeFromString(s string) (ServiceType, error) {
	for st, str := range getValidServiceTypeStrings() {
		if str == s {
			return st, nil
		}
	}
	return ServiceTypeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"serviceType",
		fmt.Errorf("%q is not a known service type", s),
	)
}

// Validate checks if the ServiceType value is valid.
func (s ServiceType) Validate() error {
	if _, ok := getValidServiceTypeStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("serviceType", fmt.Errorf("%d is not a valid service type", s))
	}
	return nil
}

// String returns the canonical name of the service type.
func (s ServiceType) String() string {
	if str, ok := getServiceTypeStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}
