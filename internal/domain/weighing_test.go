package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionDirection_IsValid(t *testing.T) {
	assert.True(t, DirectionInbound.IsValid())
	assert.True(t, DirectionOutbound.IsValid())
	assert.False(t, TransactionDirection("sideways").IsValid())
	assert.False(t, TransactionDirection("").IsValid())
}

func TestStabilityConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StabilityConfig
		wantErr bool
	}{
		{"defaults", DefaultStabilityConfig(), false},
		{"window of one", StabilityConfig{WindowSize: 1}, false},
		{"zero window", StabilityConfig{WindowSize: 0, ToleranceKg: 2}, true},
		{"negative tolerance", StabilityConfig{WindowSize: 5, ToleranceKg: -0.1}, true},
		{"negative minimum", StabilityConfig{WindowSize: 5, MinimumWeightKg: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, EINVALID, ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPhaseName(t *testing.T) {
	tests := []struct {
		state WeighingState
		want  string
	}{
		{Idle{}, "idle"},
		{WeighingIn{}, "weighing_in"},
		{WeighingOut{}, "weighing_out"},
		{Completed{}, "completed"},
		{Faulted{}, "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseName(tt.state))
	}
}

func TestWeighInRequest_Validate(t *testing.T) {
	valid := WeighInRequest{
		VehicleID: uuid.New(),
		DriverID:  uuid.New(),
		ProductID: uuid.New(),
		Direction: DirectionInbound,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*WeighInRequest)
	}{
		{"missing vehicle", func(r *WeighInRequest) { r.VehicleID = uuid.Nil }},
		{"missing driver", func(r *WeighInRequest) { r.DriverID = uuid.Nil }},
		{"missing product", func(r *WeighInRequest) { r.ProductID = uuid.Nil }},
		{"bad direction", func(r *WeighInRequest) { r.Direction = "diagonal" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.Equal(t, EBUSINESSRULE, ErrorCode(err))
		})
	}
}

func TestWeighOutRequest_Validate(t *testing.T) {
	valid := WeighOutRequest{
		TicketNumber: "WB-20260314-0001",
		FirstWeight:  32500,
		Direction:    DirectionInbound,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*WeighOutRequest)
	}{
		{"missing ticket", func(r *WeighOutRequest) { r.TicketNumber = "" }},
		{"negative first weight", func(r *WeighOutRequest) { r.FirstWeight = -1 }},
		{"bad direction", func(r *WeighOutRequest) { r.Direction = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.Equal(t, EBUSINESSRULE, ErrorCode(err))
		})
	}
}
