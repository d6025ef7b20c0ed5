package order

import (
	"fmt"

	"quetzalship/internal/pkg/errs"
)

// Zone represents a coarse geographic pricing tier. The destination zone
// determines the per-kilogram base rate used by pricing.
//
// Zone is the single canonical representation inside the core; transport
// adapters convert to and from wire strings with ZoneFromString and String.
type Zone int

const (
	// ZoneUnknown represents an invalid or undefined zone.
	// This value (0) helps catch uninitialized Zone values.
	ZoneUnknown Zone = iota

	// ZoneMetro is the metropolitan tier.
	ZoneMetro

	// ZoneInterior is the inland tier.
	ZoneInterior

	// ZoneFrontera is the border tier.
	ZoneFrontera
)

// getZoneStrings returns a map of Zone values to their string representations.
func getZoneStrings() map[Zone]string {
	return map[Zone]string{
		ZoneUnknown:  "UNKNOWN",
		ZoneMetro:    "METRO",
		ZoneInterior: "INTERIOR",
		ZoneFrontera: "FRONTERA",
	}
}

// getValidZoneStrings returns a map of only valid Zone values.
func getValidZoneStrings() map[Zone]string {
	//nolint:exhaustive // ZoneUnknown is intentionally excluded as it's invalid
	return map[Zone]string{
		ZoneMetro:    "METRO",
		ZoneInterior: "INTERIOR",
		ZoneFrontera: "FRONTERA",
	}
}

// ZoneFromString parses a canonical zone string ("METRO", "INTERIOR",
// "FRONTERA") into a Zone. Unmapped values fail with an invalid-value error.
func ZoneFromString(s string) (Zone, error) {
	for zone, str := range getValidZoneStrings() {
		if str == s {
			return zone, nil
		}
	}
	return ZoneUnknown, errs.NewValueIsInvalidErrorWithCause("zone", fmt.Errorf("%q is not a known zone", s))
}

// Validate checks if the Zone value is valid.
// Valid zones are: ZoneMetro, ZoneInterior, ZoneFrontera.
func (z Zone) Validate() error {
	if _, ok := getValidZoneStrings()[z]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("zone", fmt.Errorf("%d is not a valid zone", z))
	}
	return nil
}

// String returns the canonical name of the zone.
// This method implements the fmt.Stringer interface and is safe to call on
// any Zone value, including invalid ones.
func (z Zone) String() string {
	if str, ok := getZoneStrings()[z]; ok {
		return str
	}
	return "UNKNOWN"
}
