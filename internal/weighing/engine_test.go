package weighing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/i18n"
)

// fakeRecorder captures persistence calls and can be primed to fail.
type fakeRecorder struct {
	createCalls []domain.CreateWeighInParams
	updateCalls []domain.UpdateWeighOutParams
	createErr   error
	updateErr   error
}

func (r *fakeRecorder) CreateWeighIn(_ context.Context, params domain.CreateWeighInParams) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.createCalls = append(r.createCalls, params)
	return nil
}

func (r *fakeRecorder) UpdateWeighOut(_ context.Context, params domain.UpdateWeighOutParams) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updateCalls = append(r.updateCalls, params)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, cfg domain.StabilityConfig, rec TransactionRecorder) *Engine {
	t.Helper()
	clock := newFakeClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	e, err := NewEngine(cfg, rec, NewTicketGenerator(clock), clock, i18n.Default(), testLogger())
	require.NoError(t, err)
	return e
}

func inboundRequest() domain.WeighInRequest {
	return domain.WeighInRequest{
		VehicleID: uuid.New(),
		DriverID:  uuid.New(),
		ProductID: uuid.New(),
		Direction: domain.DirectionInbound,
	}
}

func outboundTicket(first float64) domain.WeighOutRequest {
	return domain.WeighOutRequest{
		TicketNumber: "WB-20260314-0007",
		FirstWeight:  first,
		Direction:    domain.DirectionOutbound,
		VehicleID:    uuid.New(),
		DriverID:     uuid.New(),
		ProductID:    uuid.New(),
	}
}

// =============================================================================
// Scenario Tests
// =============================================================================

func TestEngine_InboundHappyPath(t *testing.T) {
	rec := &fakeRecorder{}
	e := newTestEngine(t, domain.DefaultStabilityConfig(), rec)

	req := inboundRequest()
	e.SetManualMode(true)
	require.NoError(t, e.StartWeighIn(req))
	require.NoError(t, e.SetManualWeight(1000))

	ticket, err := e.CaptureWeighIn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "WB-20260314-0001", ticket)

	require.Len(t, rec.createCalls, 1)
	call := rec.createCalls[0]
	assert.Equal(t, ticket, call.TicketNumber)
	assert.Equal(t, req.VehicleID, call.VehicleID)
	assert.Equal(t, req.DriverID, call.DriverID)
	assert.Equal(t, req.ProductID, call.ProductID)
	assert.Equal(t, 1000.0, call.WeightKg)
	assert.True(t, call.Manual)
	assert.Equal(t, domain.DirectionInbound, call.Direction)

	assert.IsType(t, domain.Idle{}, e.State())
	assert.Contains(t, e.Snapshot().LastMessage, ticket)
}

func TestEngine_OutboundFullCycle(t *testing.T) {
	rec := &fakeRecorder{}
	e := newTestEngine(t, domain.DefaultStabilityConfig(), rec)

	e.SetManualMode(true)
	req := outboundTicket(400)
	require.NoError(t, e.StartWeighOut(req))
	require.NoError(t, e.SetManualWeight(1200))

	completed, err := e.CaptureWeighOut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200.0, completed.GrossWeight)
	assert.Equal(t, 400.0, completed.TareWeight)
	assert.Equal(t, 800.0, completed.NetWeight)
	assert.Equal(t, req.TicketNumber, completed.TicketNumber)

	require.Len(t, rec.updateCalls, 1)
	assert.Equal(t, 1200.0, rec.updateCalls[0].ExitWeightKg)
	assert.Equal(t, 800.0, rec.updateCalls[0].NetWeightKg)

	state, ok := e.State().(domain.Completed)
	require.True(t, ok)
	assert.Equal(t, 800.0, state.NetWeight)

	// Completed must be acknowledged to return to Idle.
	e.AcknowledgeCompletion()
	assert.IsType(t, domain.Idle{}, e.State())
}

func TestEngine_UnstableRejection(t *testing.T) {
	rec := &fakeRecorder{}
	e := newTestEngine(t, domain.DefaultStabilityConfig(), rec)

	require.NoError(t, e.StartWeighIn(inboundRequest()))

	// Fewer samples than the window can never be stable.
	require.NoError(t, e.UpdateWeight(1000))
	require.NoError(t, e.UpdateWeight(1000))

	_, err := e.CaptureWeighIn(context.Background())
	assert.Equal(t, domain.EUNSTABLEWEIGHT, domain.ErrorCode(err))
	assert.IsType(t, domain.WeighingIn{}, e.State(), "session must survive the rejection")
	assert.Empty(t, rec.createCalls, "no persistence call for invalid input")
}

func TestEngine_StabilityThroughDetector(t *testing.T) {
	cfg := domain.StabilityConfig{WindowSize: 3, ToleranceKg: 2.0, MinimumWeightKg: 50}
	rec := &fakeRecorder{}
	e := newTestEngine(t, cfg, rec)

	require.NoError(t, e.StartWeighIn(inboundRequest()))
	require.NoError(t, e.UpdateWeight(999))
	require.NoError(t, e.UpdateWeight(1000))
	assert.False(t, e.IsStable())
	require.NoError(t, e.UpdateWeight(1001))
	assert.True(t, e.IsStable())

	ticket, err := e.CaptureWeighIn(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ticket)
	require.Len(t, rec.createCalls, 1)
	assert.Equal(t, 1001.0, rec.createCalls[0].WeightKg, "capture uses the last published weight")
	assert.False(t, rec.createCalls[0].Manual)
}

// =============================================================================
// Guard Tests
// =============================================================================

func TestEngine_MinimumWeightGate(t *testing.T) {
	tests := []struct {
		name    string
		weight  float64
		wantErr bool
	}{
		{"below minimum", 49.9, true},
		{"exactly at minimum", 50.0, false},
		{"above minimum", 50.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			e := newTestEngine(t, domain.DefaultStabilityConfig(), rec)

			e.SetManualMode(true)
			require.NoError(t, e.StartWeighIn(inboundRequest()))
			require.NoError(t, e.SetManualWeight(tt.weight))

			_, err := e.CaptureWeighIn(context.Background())
			if tt.wantErr {
				assert.Equal(t, domain.EBUSINESSRULE, domain.ErrorCode(err))
				assert.Empty(t, rec.createCalls)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEngine_NetWeightPositivity(t *testing.T) {
	rec := &fakeRecorder{}
	e := newTestEngine(t, domain.DefaultStabilityConfig(), rec)

	e.SetManualMode(true)
	require.NoError(t, e.StartWeighOut(outboundTicket(400)))
	require.NoError(t, e.SetManualWeight(400))

	_, err := e.CaptureWeighOut(context.Background())
	assert.Equal(t, domain.EBUSINESSRULE, domain.ErrorCode(err))
	assert.Empty(t, rec.updateCalls)
	assert.IsType(t, domain.WeighingOut{}, e.State())
}

func TestEngine_TransitionLegality(t *testing.T) {
	t.Run("weigh-in blocked during weigh-out", func(t *testing.T) {
		e := newTestEngine(t, domain.DefaultStabilityConfig(), &fakeRecorder{})
		require.NoError(t, e.StartWeighOut(outboundTicket(400)))

		err := e.StartWeighIn(inboundRequest())
		assert.Equal(t, domain.EBUSINESSRULE, domain.ErrorCode(err))
		assert.IsType(t, domain.WeighingOut{}, e.State())
	})

	t.Run("weigh-out blocked during weigh-in", func(t *testing.T) {
		e := newTestEngine(t, domain.DefaultStabilityConfig(), &fakeRecorder{})
		require.NoError(t, e.StartWeighIn(inboundRequest()))

		err := e.StartWeighOut(outboundTicket(400))
		assert.Equal(t, domain.EBUSINESSRULE, domain.ErrorCode(err))
		assert.IsType(t, domain.WeighingIn{}, e.State())
	})

	t.Run("weigh-in re-entry is idempotent", func(t *testing.T) {
		e := newTestEngine(t, domain.DefaultStabilityConfig(), &fakeRecorder{})
		require.NoError(t, e.StartWeighIn(inboundRequest()))
		second := inboundRequest()
		require.NoError(t, e.StartWeighIn(second))

		state, ok := e.State().(domain.WeighingIn)
		require.True(t, ok)
		assert.Equal(t, second.VehicleID, state.VehicleID)
	})
}

func TestEngine_CancelAlwaysReturnsToIdle(t *testing.T) {
	cfg := domain.StabilityConfig{WindowSize: 2, ToleranceKg: 2.0, MinimumWeightKg: 50}
	e := newTestEngine(t, cfg, &fakeRecorder{})

	require.NoError(t, e.StartWeighOut(outboundTicket(400)))
	require.NoError(t, e.UpdateWeight(1000))
	require.NoError(t, e.UpdateWeight(1000))
	assert.True(t, e.IsStable())

	e.CancelOperation()
	assert.IsType(t, domain.Idle{}, e.State())
	assert.False(t, e.IsStable(), "cancel must reset the detector")
}

func TestEngine_ManualWeightRequiresManualMode(t *testing.T) {
	e := newTestEngine(t, domain.DefaultStabilityConfig(), &fakeRecorder{})
	require.NoError(t, e.StartWeighIn(inboundRequest()))

	err := e.SetManualWeight(1000)
	assert.Equal(t, domain.EBUSINESSRULE, domain.ErrorCode(err))
	assert.Equal(t, 0.0, e.CurrentWeight())
}

func TestEngine_ModeToggleDiscardsStabilityEvidence(t *testing.T) {
	cfg := domain.StabilityConfig{WindowSize: 2, ToleranceKg: 2.0, MinimumWeightKg: 50}
	e := newTestEngine(t, cfg, &fakeRecorder{})

	require.NoError(t, e.StartWeighIn(inboundRequest()))
	require.NoError(t, e.UpdateWeight(1000))
	require.NoError(t, e.UpdateWeight(1000))
	assert.True(t, e.IsStable())

	e.SetManualMode(true)
	assert.False(t, e.IsStable())
	e.SetManualMode(false)
	assert.False(t, e.IsStable())
	// Fresh evidence is required after the toggle.
	require.NoError(t, e.UpdateWeight(1000))
	assert.False(t, e.IsStable())
}

func TestEngine_NegativeSampleRejected(t *testing.T) {
	e := newTestEngine(t, domain.DefaultStabilityConfig(), &fakeRecorder{})

	err := e.UpdateWeight(-5)
	assert.Equal(t, domain.EINVALIDDATA, domain.ErrorCode(err))
	assert.Equal(t, 0.0, e.CurrentWeight())
}

// =============================================================================
// Failure Semantics
// =============================================================================

func TestEngine_PersistenceFailureKeepsSession(t *testing.T) {
	rec := &fakeRecorder{createErr: errors.New("connection refused")}
	e := newTestEngine(t, domain.DefaultStabilityConfig(), rec)

	e.SetManualMode(true)
	require.NoError(t, e.StartWeighIn(inboundRequest()))
	require.NoError(t, e.SetManualWeight(1000))

	_, err := e.CaptureWeighIn(context.Background())
	assert.Equal(t, domain.EUNKNOWN, domain.ErrorCode(err))
	assert.IsType(t, domain.WeighingIn{}, e.State(), "session must survive a persistence failure")
	assert.NotEmpty(t, e.Snapshot().LastError)

	// The operator retries once the collaborator recovers.
	rec.createErr = nil
	ticket, err := e.CaptureWeighIn(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, ticket)
	assert.IsType(t, domain.Idle{}, e.State())
}

func TestEngine_MissingOpenTicketIsBusinessRule(t *testing.T) {
	rec := &fakeRecorder{updateErr: domain.NotFound("transaction.update_weigh_out", "transaction", "WB-20260314-0007")}
	e := newTestEngine(t, domain.DefaultStabilityConfig(), rec)

	e.SetManualMode(true)
	require.NoError(t, e.StartWeighOut(outboundTicket(400)))
	require.NoError(t, e.SetManualWeight(1200))

	_, err := e.CaptureWeighOut(context.Background())
	assert.Equal(t, domain.EBUSINESSRULE, domain.ErrorCode(err))
	assert.IsType(t, domain.WeighingOut{}, e.State())
}

func TestEngine_DeviceDisconnectAndClearError(t *testing.T) {
	e := newTestEngine(t, domain.DefaultStabilityConfig(), &fakeRecorder{})

	req := inboundRequest()
	require.NoError(t, e.StartWeighIn(req))
	e.ReportDeviceDisconnected("read timeout")

	faulted, ok := e.State().(domain.Faulted)
	require.True(t, ok)
	assert.Equal(t, domain.EDEVICEDISCONNECTED, faulted.Kind)

	// A second disconnect keeps the original pre-fault state.
	e.ReportDeviceDisconnected("still down")
	faulted, ok = e.State().(domain.Faulted)
	require.True(t, ok)
	assert.IsType(t, domain.WeighingIn{}, faulted.Previous)

	e.ClearError()
	restored, ok := e.State().(domain.WeighingIn)
	require.True(t, ok)
	assert.Equal(t, req.VehicleID, restored.VehicleID)
	assert.False(t, restored.Stable, "stability evidence does not survive a disconnect")
}

func TestEngine_AcknowledgeOutsideCompletedIsNoOp(t *testing.T) {
	e := newTestEngine(t, domain.DefaultStabilityConfig(), &fakeRecorder{})
	require.NoError(t, e.StartWeighIn(inboundRequest()))

	e.AcknowledgeCompletion()
	assert.IsType(t, domain.WeighingIn{}, e.State())
}

// =============================================================================
// Observable Surface
// =============================================================================

func TestEngine_SnapshotMirrorsSession(t *testing.T) {
	cfg := domain.StabilityConfig{WindowSize: 2, ToleranceKg: 2.0, MinimumWeightKg: 50}
	e := newTestEngine(t, cfg, &fakeRecorder{})

	require.NoError(t, e.StartWeighIn(inboundRequest()))
	require.NoError(t, e.UpdateWeight(750))
	require.NoError(t, e.UpdateWeight(750))

	snap := e.Snapshot()
	assert.Equal(t, 750.0, snap.CurrentWeight)
	assert.True(t, snap.Stable)

	session, ok := snap.State.(domain.WeighingIn)
	require.True(t, ok)
	assert.Equal(t, 750.0, session.CurrentWeight, "session payload mirrors the published weight")
	assert.True(t, session.Stable)
}

func TestEngine_SubscribeReceivesSnapshots(t *testing.T) {
	e := newTestEngine(t, domain.DefaultStabilityConfig(), &fakeRecorder{})

	ch, cancel := e.Subscribe(8)
	defer cancel()

	require.NoError(t, e.UpdateWeight(123))

	select {
	case snap := <-ch:
		assert.Equal(t, 123.0, snap.CurrentWeight)
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}
}
