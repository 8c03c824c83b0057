// Package weighing implements the weighbridge transaction lifecycle: the
// stability detector, the gross/tare role convention, ticket numbering, and
// the state machine that ties them together.
//
// The Engine is the single authority over the weighing state. It ingests raw
// weight samples, decides when a reading is trustworthy, enforces the
// transition rules, and issues persistence commands to the transaction
// recorder collaborator. One Engine instance exists per weighing station.
package weighing

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/text/message"

	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/i18n"
	"github.com/ironaxle/weighstation/internal/metrics"
)

// TransactionRecorder is the persistence collaborator the engine issues
// commands to. Implementations must key weigh-out updates by ticket number
// and fail with a domain error when the ticket is not an open transaction.
type TransactionRecorder interface {
	CreateWeighIn(ctx context.Context, params domain.CreateWeighInParams) error
	UpdateWeighOut(ctx context.Context, params domain.UpdateWeighOutParams) error
}

// Engine owns the weighing state machine. All commands serialize on an
// internal mutex, so concurrent capture calls against one instance are safe:
// the second caller blocks and then fails the state guard instead of racing.
type Engine struct {
	cfg      domain.StabilityConfig
	recorder TransactionRecorder
	tickets  *TicketGenerator
	clock    Clock
	printer  *message.Printer
	logger   *slog.Logger

	mu            sync.Mutex
	state         domain.WeighingState
	detector      *StabilityDetector
	currentWeight float64
	stable        bool
	manual        bool
	lastError     string
	lastMessage   string

	bus *broadcaster
}

// NewEngine creates an engine with the given stability configuration and
// collaborators. The printer localizes operator-facing messages; pass
// i18n.Default() for English.
func NewEngine(
	cfg domain.StabilityConfig,
	recorder TransactionRecorder,
	tickets *TicketGenerator,
	clock Clock,
	printer *message.Printer,
	logger *slog.Logger,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if printer == nil {
		printer = i18n.Default()
	}
	return &Engine{
		cfg:      cfg,
		recorder: recorder,
		tickets:  tickets,
		clock:    clock,
		printer:  printer,
		logger:   logger,
		state:    domain.Idle{},
		detector: NewStabilityDetector(cfg.WindowSize, cfg.ToleranceKg),
		bus:      newBroadcaster(),
	}, nil
}

// =============================================================================
// Session Commands
// =============================================================================

// StartWeighIn opens a first-weighing session. Re-entry from an existing
// WeighingIn session is allowed and replaces the selection; starting while a
// weigh-out is in progress is rejected.
func (e *Engine) StartWeighIn(req domain.WeighInRequest) error {
	const op = "weighing.start_weigh_in"

	if err := req.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state.(type) {
	case domain.WeighingOut:
		return e.failLocked(domain.BusinessRule(op, e.printer.Sprintf(i18n.MsgSessionInProgress)))
	case domain.Idle, domain.Completed, domain.Faulted, domain.WeighingIn:
		// Allowed entry states.
	}

	e.beginSessionLocked()
	e.state = domain.WeighingIn{
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		ProductID:     req.ProductID,
		PartnerID:     req.PartnerID,
		Direction:     req.Direction,
		CurrentWeight: e.currentWeight,
		Manual:        e.manual,
	}
	e.logger.Info("weigh-in session started",
		"vehicle_id", req.VehicleID,
		"direction", req.Direction,
		"manual", e.manual,
	)
	e.publishLocked()
	return nil
}

// StartWeighOut opens a second-weighing session bound to an open transaction.
// Starting while a weigh-in is in progress is rejected.
func (e *Engine) StartWeighOut(req domain.WeighOutRequest) error {
	const op = "weighing.start_weigh_out"

	if err := req.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state.(type) {
	case domain.WeighingIn:
		return e.failLocked(domain.BusinessRule(op, e.printer.Sprintf(i18n.MsgSessionInProgress)))
	case domain.Idle, domain.Completed, domain.Faulted, domain.WeighingOut:
		// Allowed entry states.
	}

	e.beginSessionLocked()
	e.state = domain.WeighingOut{
		TicketNumber:  req.TicketNumber,
		FirstWeight:   req.FirstWeight,
		Direction:     req.Direction,
		CurrentWeight: e.currentWeight,
		Manual:        e.manual,
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		ProductID:     req.ProductID,
		PartnerID:     req.PartnerID,
	}
	e.logger.Info("weigh-out session started",
		"ticket", req.TicketNumber,
		"first_weight_kg", req.FirstWeight,
		"direction", req.Direction,
	)
	e.publishLocked()
	return nil
}

// CancelOperation unconditionally returns the engine to Idle and resets the
// stability detector. It always succeeds, regardless of the previous state.
func (e *Engine) CancelOperation() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.beginSessionLocked()
	e.state = domain.Idle{}
	e.lastMessage = e.printer.Sprintf(i18n.MsgOperationCancelled)
	e.publishLocked()
}

// AcknowledgeCompletion dismisses the Completed display state. A no-op in any
// other state.
func (e *Engine) AcknowledgeCompletion() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.state.(domain.Completed); !ok {
		return
	}
	e.state = domain.Idle{}
	e.publishLocked()
}

// ClearError leaves the Faulted state, restoring the state that was active
// when the fault occurred (or Idle if none was carried).
func (e *Engine) ClearError() {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, ok := e.state.(domain.Faulted)
	if !ok {
		return
	}
	if f.Previous != nil {
		e.state = f.Previous
	} else {
		e.state = domain.Idle{}
	}
	e.lastError = ""
	e.mirrorLocked()
	e.publishLocked()
}

// =============================================================================
// Weight Ingestion
// =============================================================================

// UpdateWeight ingests a raw sample from the weight source. Unless manual
// mode is active the sample feeds the stability detector; the published
// weight and stability flag are mirrored into the active session payload so
// observers always see a consistent snapshot.
func (e *Engine) UpdateWeight(sample float64) error {
	const op = "weighing.update_weight"

	if sample < 0 {
		return domain.InvalidData(op, "weight sample must not be negative")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.currentWeight = sample
	if !e.manual {
		was := e.stable
		e.stable = e.detector.AddReading(sample)
		if was != e.stable {
			if e.stable {
				metrics.StabilityTransitions.WithLabelValues("stable").Inc()
			} else {
				metrics.StabilityTransitions.WithLabelValues("unstable").Inc()
			}
		}
	}
	metrics.SamplesIngested.Inc()
	e.mirrorLocked()
	e.publishLocked()
	return nil
}

// SetManualWeight sets the current weight directly. Only honored while manual
// mode is on; manual entry is definitionally settled, so stability is forced
// true.
func (e *Engine) SetManualWeight(sample float64) error {
	const op = "weighing.set_manual_weight"

	if sample < 0 {
		return domain.InvalidData(op, "weight sample must not be negative")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.manual {
		return e.failLocked(domain.BusinessRule(op, e.printer.Sprintf(i18n.MsgManualModeRequired)))
	}
	e.currentWeight = sample
	e.stable = true
	e.mirrorLocked()
	e.publishLocked()
	return nil
}

// SetManualMode toggles manual entry. Switching modes mid-session discards
// any partial stability evidence rather than carrying it across semantics.
func (e *Engine) SetManualMode(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.manual = enabled
	e.detector.Reset()
	e.stable = false
	e.mirrorLocked()
	e.publishLocked()
}

// ReportDeviceDisconnected suspends normal operation until acknowledged.
// Called by the weight source collaborator on connection loss; the previous
// state is carried so ClearError can restore the session.
func (e *Engine) ReportDeviceDisconnected(reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	msg := e.printer.Sprintf(i18n.MsgScaleDisconnected)
	if reason != "" {
		msg = msg + ": " + reason
	}

	// Keep the original pre-fault state if a fault is already showing.
	previous := e.state
	if f, ok := e.state.(domain.Faulted); ok {
		previous = f.Previous
	}

	e.state = domain.Faulted{
		Message:  msg,
		Kind:     domain.EDEVICEDISCONNECTED,
		Previous: previous,
	}
	e.detector.Reset()
	e.stable = false
	e.lastError = msg
	metrics.ScaleDisconnects.Inc()
	e.logger.Warn("scale disconnected", "reason", reason)
	e.publishLocked()
}

// =============================================================================
// Capture
// =============================================================================

// CaptureWeighIn validates the first weighing, generates a ticket, and asks
// the recorder to open the transaction. On success the engine returns to
// Idle and the ticket number is returned. Every business-rule check runs
// before the persistence call; a recorder failure keeps the session so the
// operator can retry.
func (e *Engine) CaptureWeighIn(ctx context.Context) (string, error) {
	const op = "weighing.capture_weigh_in"

	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.state.(domain.WeighingIn)
	if !ok {
		return "", e.failLocked(domain.BusinessRule(op, e.printer.Sprintf(i18n.MsgNoSessionInProgress)))
	}
	if err := e.checkCapturableLocked(op); err != nil {
		return "", err
	}

	ticket := e.tickets.Generate()
	err := e.recorder.CreateWeighIn(ctx, domain.CreateWeighInParams{
		TicketNumber: ticket,
		VehicleID:    session.VehicleID,
		DriverID:     session.DriverID,
		ProductID:    session.ProductID,
		PartnerID:    session.PartnerID,
		WeightKg:     e.currentWeight,
		Manual:       e.manual,
		Direction:    session.Direction,
		WeighedInAt:  e.clock.Now(),
	})
	if err != nil {
		return "", e.failLocked(e.remapRecorderError(op, ticket, err))
	}

	e.beginSessionLocked()
	e.state = domain.Idle{}
	e.lastError = ""
	e.lastMessage = e.printer.Sprintf(i18n.MsgWeighInCaptured, ticket)
	e.logger.Info("weigh-in captured",
		"ticket", ticket,
		"vehicle_id", session.VehicleID,
		"weight_kg", e.currentWeight,
		"direction", session.Direction,
		"manual", e.manual,
	)
	metrics.WeighCaptures.WithLabelValues("in", session.Direction.String()).Inc()
	e.publishLocked()
	return ticket, nil
}

// CaptureWeighOut validates the second weighing, resolves gross/tare from
// the transaction direction, and asks the recorder to close the transaction.
// On success the engine shows the Completed state until acknowledged.
func (e *Engine) CaptureWeighOut(ctx context.Context) (*domain.CompletedTransaction, error) {
	const op = "weighing.capture_weigh_out"

	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.state.(domain.WeighingOut)
	if !ok {
		return nil, e.failLocked(domain.BusinessRule(op, e.printer.Sprintf(i18n.MsgNoSessionInProgress)))
	}
	if err := e.checkCapturableLocked(op); err != nil {
		return nil, err
	}

	gross, tare := ResolveRoles(session.Direction, session.FirstWeight, e.currentWeight)
	net := NetWeight(gross, tare)
	if net <= 0 {
		return nil, e.failLocked(domain.BusinessRule(op, e.printer.Sprintf(i18n.MsgNonPositiveNet)))
	}

	now := e.clock.Now()
	err := e.recorder.UpdateWeighOut(ctx, domain.UpdateWeighOutParams{
		TicketNumber: session.TicketNumber,
		ExitWeightKg: e.currentWeight,
		NetWeightKg:  net,
		WeighedOutAt: now,
	})
	if err != nil {
		return nil, e.failLocked(e.remapRecorderError(op, session.TicketNumber, err))
	}

	completed := &domain.CompletedTransaction{
		TicketNumber: session.TicketNumber,
		VehicleID:    session.VehicleID,
		DriverID:     session.DriverID,
		ProductID:    session.ProductID,
		PartnerID:    session.PartnerID,
		GrossWeight:  gross,
		TareWeight:   tare,
		NetWeight:    net,
		Direction:    session.Direction,
		Manual:       e.manual,
		CompletedAt:  now,
	}

	e.detector.Reset()
	e.stable = false
	e.state = domain.Completed{
		TicketNumber: completed.TicketNumber,
		GrossWeight:  gross,
		TareWeight:   tare,
		NetWeight:    net,
		Direction:    session.Direction,
		CompletedAt:  now,
	}
	e.lastError = ""
	e.lastMessage = e.printer.Sprintf(i18n.MsgWeighOutCaptured, completed.TicketNumber, net)
	e.logger.Info("weigh-out captured",
		"ticket", completed.TicketNumber,
		"gross_kg", gross,
		"tare_kg", tare,
		"net_kg", net,
		"direction", session.Direction,
	)
	metrics.WeighCaptures.WithLabelValues("out", session.Direction.String()).Inc()
	metrics.TransactionsCompleted.Inc()
	metrics.NetWeightKg.Observe(net)
	e.publishLocked()
	return completed, nil
}

// checkCapturableLocked applies the guards shared by both captures:
// stability-or-manual, then the minimum-weight gate. Capture at exactly the
// minimum weight succeeds.
func (e *Engine) checkCapturableLocked(op string) error {
	if !e.stable && !e.manual {
		return e.failLocked(domain.UnstableWeight(op, e.printer.Sprintf(i18n.MsgUnstableWeight)))
	}
	if e.currentWeight < e.cfg.MinimumWeightKg {
		return e.failLocked(domain.BusinessRule(op,
			e.printer.Sprintf(i18n.MsgBelowMinimumWeight, e.currentWeight, e.cfg.MinimumWeightKg)))
	}
	return nil
}

// remapRecorderError converts recorder failures into the weighing failure
// taxonomy: a missing open ticket is a business-rule violation, everything
// else is tagged unknown.
func (e *Engine) remapRecorderError(op, ticket string, err error) error {
	if domain.ErrorCode(err) == domain.ENOTFOUND {
		return domain.BusinessRule(op, e.printer.Sprintf("Ticket %s is not an open transaction", ticket))
	}
	return domain.Unknown(err, op, e.printer.Sprintf(i18n.MsgPersistenceFailed))
}

// =============================================================================
// Observable Surface
// =============================================================================

// Snapshot returns the current observable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers a buffered channel that receives a snapshot after every
// published change, in command order. Slow subscribers miss intermediate
// snapshots instead of blocking the engine. The cancel function must be
// called when done.
func (e *Engine) Subscribe(buffer int) (<-chan Snapshot, func()) {
	return e.bus.subscribe(buffer)
}

// State returns the active state variant.
func (e *Engine) State() domain.WeighingState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentWeight returns the last published weight.
func (e *Engine) CurrentWeight() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentWeight
}

// IsStable returns the published stability flag.
func (e *Engine) IsStable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stable
}

// ManualMode returns whether manual entry is active.
func (e *Engine) ManualMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.manual
}

// =============================================================================
// Internal Helpers
// =============================================================================

// beginSessionLocked resets the per-session stability evidence.
func (e *Engine) beginSessionLocked() {
	e.detector.Reset()
	e.stable = false
}

// failLocked records a command failure on the observable surface and counts
// it, without transitioning state. The caller returns the error directly so
// the operator can retry without losing session context.
func (e *Engine) failLocked(err error) error {
	e.lastError = domain.ErrorMessage(err)
	metrics.CommandFailures.WithLabelValues(domain.ErrorCode(err)).Inc()
	e.publishLocked()
	return err
}

// mirrorLocked copies the live weight/stability/mode flags into the active
// session payload so observers see one consistent snapshot.
func (e *Engine) mirrorLocked() {
	switch s := e.state.(type) {
	case domain.WeighingIn:
		s.CurrentWeight = e.currentWeight
		s.Stable = e.stable
		s.Manual = e.manual
		e.state = s
	case domain.WeighingOut:
		s.CurrentWeight = e.currentWeight
		s.Stable = e.stable
		s.Manual = e.manual
		e.state = s
	case domain.Idle, domain.Completed, domain.Faulted:
		// No live payload to mirror.
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:         e.state,
		CurrentWeight: e.currentWeight,
		Stable:        e.stable,
		Manual:        e.manual,
		LastError:     e.lastError,
		LastMessage:   e.lastMessage,
		UpdatedAt:     e.clock.Now(),
	}
}

func (e *Engine) publishLocked() {
	e.bus.publish(e.snapshotLocked())
}
