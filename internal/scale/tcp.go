package scale

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/ironaxle/weighstation/internal/domain"
)

// TCPConfig holds connection settings for a network-attached indicator.
type TCPConfig struct {
	Address        string        // host:port of the serial-to-ethernet bridge
	DialTimeout    time.Duration // per-attempt connect timeout
	ReadTimeout    time.Duration // max silence before the link is declared dead
	ReconnectDelay time.Duration // pause between reconnect attempts
}

// TCPSource reads indicator frames over TCP and feeds parsed samples to the
// sink. The indicator streams continuously; any read stall beyond ReadTimeout
// is treated as a disconnect.
type TCPSource struct {
	cfg    TCPConfig
	sink   Sink
	logger *slog.Logger
}

// NewTCPSource creates a TCP scale source.
func NewTCPSource(cfg TCPConfig, sink Sink, logger *slog.Logger) *TCPSource {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 2 * time.Second
	}
	return &TCPSource{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
	}
}

// Run connects to the indicator and streams samples until the context is
// cancelled. Connection loss is reported to the sink and followed by a
// reconnect loop; Run only returns on context cancellation.
func (s *TCPSource) Run(ctx context.Context) error {
	for {
		if err := s.readLoop(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("scale connection lost", "address", s.cfg.Address, "error", err)
			// The sink counts the disconnect.
			s.sink.ReportDeviceDisconnected(err.Error())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.ReconnectDelay):
		}
	}
}

// readLoop holds one connection open and pumps frames until it fails.
func (s *TCPSource) readLoop(ctx context.Context) error {
	dialer := net.Dialer{Timeout: s.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock the blocking read when the context is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	s.logger.Info("scale connected", "address", s.cfg.Address)

	scanner := bufio.NewScanner(conn)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return net.ErrClosed
		}

		weight, err := ParseFrame(scanner.Text())
		if err != nil {
			// Malformed frames happen on reconnect mid-frame. Log and skip;
			// only sustained silence kills the link.
			s.logger.Debug("discarding malformed frame",
				"frame", scanner.Text(), "error", domain.ErrorMessage(err))
			continue
		}

		if err := s.sink.UpdateWeight(weight); err != nil {
			s.logger.Debug("sample rejected", "weight_kg", weight, "error", domain.ErrorMessage(err))
		}
	}
}
