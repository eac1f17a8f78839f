package availability

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Nights rounds partial days up: a 22h stay is one night.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	n := int(d / day)
	if d%day != 0 {
		n++
	}
	return n
}

// TotalPrice is the nightly rate times the number of nights.
func TotalPrice(pricePerNight float64, nights int) float64 {
	return pricePerNight * float64(nights)
}

// ToMinorUnits converts a currency amount to the provider's smallest unit
// (cents for USD).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
