package order

import (
	"errors"
	"fmt"

	"quetzalship/internal/pkg/errs"
	"quetzalship/internal/pkg/guard"
)

// ErrPackageIsNotConstructed is returned when a Package instance was not created
// through the NewPackage constructor.
var ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage constructor")

// volumetricDivisor converts a package's volume in cubic centimetres into the
// industry-standard volumetric weight in kilograms.
const volumetricDivisor = 5000.0

// Package is a value object describing a single parcel within an order:
// its physical dimensions, weight, fragility, and declared value.
// Packages are immutable once attached to an order.
//
// Example:
//
//	pkg, err := order.NewPackage(2.5, 30, 20, 40, true, 500)
//	if err != nil {
//	    // a dimension or the weight was not positive
//	}
//	pkg.BillableWeightKg() // max(2.5, 30*20*40/5000) = 4.8
type Package struct {
	weightKg      float64
	heightCm      float64
	widthCm       float64
	lengthCm      float64
	fragile       bool
	declaredValue float64

	guard guard.ConstructorGuard
}

// NewPackage creates a validated Package.
//
// Validation rules:
//   - weight, height, width and length must each be > 0
//   - declared value must be >= 0
func NewPackage(weightKg, heightCm, widthCm, lengthCm float64, fragile bool, declaredValue float64) (Package, error) {
	pkg := Package{
		fragile: fragile,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		pkg.setWeightKg(weightKg),
		pkg.setHeightCm(heightCm),
		pkg.setWidthCm(widthCm),
		pkg.setLengthCm(lengthCm),
		pkg.setDeclaredValue(declaredValue),
	); err != nil {
		return Package{}, err
	}

	return pkg, nil
}

// WeightKg returns the actual weight in kilograms.
func (p Package) WeightKg() float64 {
	return p.weightKg
}

// HeightCm returns the height in centimetres.
func (p Package) HeightCm() float64 {
	return p.heightCm
}

// WidthCm returns the width in centimetres.
func (p Package) WidthCm() float64 {
	return p.widthCm
}

// LengthCm returns the length in centimetres.
func (p Package) LengthCm() float64 {
	return p.lengthCm
}

// Fragile reports whether the package requires fragile handling.
func (p Package) Fragile() bool {
	return p.fragile
}

// DeclaredValue returns the declared value in currency units.
func (p Package) DeclaredValue() float64 {
	return p.declaredValue
}

// VolumetricWeightKg returns height x width x length / 5000, the
// shipping-industry approximation of weight from package dimensions.
func (p Package) VolumetricWeightKg() float64 {
	return p.heightCm * p.widthCm * p.lengthCm / volumetricDivisor
}

// BillableWeightKg returns the greater of the actual weight and the
// volumetric weight; it is the basis for base pricing.
func (p Package) BillableWeightKg() float64 {
	if v := p.VolumetricWeightKg(); v > p.weightKg {
		return v
	}
	return p.weightKg
}

// Validate ensures the Package was created through NewPackage.
func (p Package) Validate() error {
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

func (p *Package) setWeightKg(weightKg float64) error {
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg", fmt.Errorf("%v is not greater than 0", weightKg))
	}
	p.weightKg = weightKg
	return nil
}

func (p *Package) setHeightCm(heightCm float64) error {
	if heightCm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("heightCm", fmt.Errorf("%v is not greater than 0", heightCm))
	}
	p.heightCm = heightCm
	return nil
}

func (p *Package) setWidthCm(widthCm float64) error {
	if widthCm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("widthCm", fmt.Errorf("%v is not greater than 0", widthCm))
	}
	p.widthCm = widthCm
	return nil
}

func (p *Package) setLengthCm(lengthCm float64) error {
	if lengthCm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("lengthCm", fmt.Errorf("%v is not greater than 0", lengthCm))
	}
	p.lengthCm = lengthCm
	return nil
}

func (p *Package) setDeclaredValue(declaredValue float64) error {
	if declaredValue < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"declaredValue",
			fmt.Errorf("%v is not greater than or equal to 0", declaredValue),
		)
	}
	p.declaredValue = declaredValue
	return nil
}
