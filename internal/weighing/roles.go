package weighing

import (
	"math"

	"github.com/ironaxle/weighstation/internal/domain"
)

// ResolveRoles maps the two weighings of a transaction onto gross and tare
// according to its direction:
//
//	inbound:  vehicle arrives loaded: gross = first, tare = second
//	outbound: vehicle arrives empty:  gross = second, tare = first
//
// This is the single place the convention is encoded; display, persistence
// and reporting must delegate here rather than re-derive it.
func ResolveRoles(direction domain.TransactionDirection, firstWeight, secondWeight float64) (gross, tare float64) {
	if direction == domain.DirectionInbound {
		return firstWeight, secondWeight
	}
	return secondWeight, firstWeight
}

// NetWeight is the cargo weight, always the absolute difference of gross and
// tare.
func NetWeight(gross, tare float64) float64 {
	return math.Abs(gross - tare)
}
