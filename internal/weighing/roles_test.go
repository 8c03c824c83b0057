package weighing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironaxle/weighstation/internal/domain"
)

func TestResolveRoles(t *testing.T) {
	tests := []struct {
		name      string
		direction domain.TransactionDirection
		first     float64
		second    float64
		wantGross float64
		wantTare  float64
	}{
		{"inbound: first weighing is gross", domain.DirectionInbound, 12000, 4000, 12000, 4000},
		{"outbound: second weighing is gross", domain.DirectionOutbound, 4000, 12000, 12000, 4000},
		{"inbound with lighter exit", domain.DirectionInbound, 800, 300, 800, 300},
		{"outbound with equal weights", domain.DirectionOutbound, 500, 500, 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross, tare := ResolveRoles(tt.direction, tt.first, tt.second)
			assert.Equal(t, tt.wantGross, gross)
			assert.Equal(t, tt.wantTare, tare)
		})
	}
}

func TestNetWeight(t *testing.T) {
	assert.Equal(t, 800.0, NetWeight(1200, 400))
	// Net weight is an absolute difference regardless of argument order.
	assert.Equal(t, 800.0, NetWeight(400, 1200))
	assert.Equal(t, 0.0, NetWeight(500, 500))
}
