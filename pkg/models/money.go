package models

import "math"

// All currency arithmetic happens in minor units (cents / tetri), which is
// equivalent to rounding to two decimals. Exchange rates convert USD -> GEL by
// multiplication and GEL -> USD by division; rates are frozen on the listing
// or trade at the moment the price is agreed.

// DeriveGEL converts a USD amount in cents to GEL tetri at the given rate.
func DeriveGEL(priceUSD int64, rate float64) int64 {
	return roundToUnit(float64(priceUSD) * rate)
}

// DeriveUSD converts a GEL amount in tetri to USD cents at the given rate.
func DeriveUSD(priceGEL int64, rate float64) int64 {
	if rate == 0 {
		return 0
	}
	return roundToUnit(float64(priceGEL) / rate)
}

// PlatformFee computes the marketplace fee on a price, rounded to the
// nearest minor unit.
func PlatformFee(price int64, feeRate float64) int64 {
	return roundToUnit(float64(price) * feeRate)
}

func roundToUnit(v float64) int64 {
	return int64(math.Round(v))
}
