package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	decimalThousand = decimal.NewFromInt(1000)
)

// NormalizeToKg converts a quantity to kilograms: gm/ml divide by 1000,
// kg/L pass through. Pcs is a unit count, not a mass, and yields zero.
// Unrecognized units are treated as already-kilograms.
// Zero or negative quantities collapse to zero, never an error.
func NormalizeToKg(quantity decimal.Decimal, unit QuantityUnit) decimal.Decimal {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	switch unit {
	case UnitGram, UnitMilliliter:
		return quantity.Div(decimalThousand)
	case UnitKilogram, UnitLiter:
		return quantity
	case UnitPieces:
		return decimal.Zero
	default:
		return quantity
	}
}

// NormalizeToGrams converts a quantity to grams with the same unit semantics
// as NormalizeToKg. Used for recipe weight accumulation.
func NormalizeToGrams(quantity decimal.Decimal, unit QuantityUnit) decimal.Decimal {
	return NormalizeToKg(quantity, unit).Mul(decimalThousand)
}

// CalculateUnits returns how many whole units a batch line yields: the batch
// total divided by the variant's single-unit size, floored (partial units
// cannot be produced). Returns zero when the variant size is zero or either
// quantity is non-convertible.
func CalculateUnits(variantFillQty decimal.Decimal, variantFillUnit QuantityUnit, batchFillQty decimal.Decimal, batchFillUnit QuantityUnit) int64 {
	variantKg := NormalizeToKg(variantFillQty, variantFillUnit)
	batchKg := NormalizeToKg(batchFillQty, batchFillUnit)
	if variantKg.LessThanOrEqual(decimal.Zero) || batchKg.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return batchKg.Div(variantKg).Floor().IntPart()
}

// ToDisplayUnit chooses the more readable unit for a quantity: 1500 gm is
// promoted to 1.5 kg, 1500 ml to 1.5 L. Presentation only; never used in
// cost math.
func ToDisplayUnit(quantity decimal.Decimal, unit QuantityUnit) (decimal.Decimal, QuantityUnit) {
	if quantity.LessThan(decimal.Zero) {
		quantity = decimal.Zero
	}
	switch unit {
	case UnitGram:
		if quantity.GreaterThanOrEqual(decimalThousand) {
			return quantity.Div(decimalThousand), UnitKilogram
		}
	case UnitMilliliter:
		if quantity.GreaterThanOrEqual(decimalThousand) {
			return quantity.Div(decimalThousand), UnitLiter
		}
	}
	return quantity, unit
}

// FormatQuantity renders a quantity in its best display unit with two
// decimal places, e.g. "2.50 kg".
func FormatQuantity(quantity decimal.Decimal, unit QuantityUnit) string {
	displayQty, displayUnit := ToDisplayUnit(quantity, unit)
	return fmt.Sprintf("%s %s", displayQty.StringFixed(2), displayUnit)
}
