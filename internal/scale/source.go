// Package scale reads weight samples from a scale indicator and feeds them
// into the weighing engine. Indicators stream a continuous output frame over
// a serial-to-ethernet bridge; the package also ships a simulator for
// development without hardware.
package scale

import "context"

// Sink receives parsed weight samples. The weighing engine satisfies this.
type Sink interface {
	// UpdateWeight ingests one parsed sample in kilograms.
	UpdateWeight(sample float64) error

	// ReportDeviceDisconnected signals loss of the indicator connection.
	ReportDeviceDisconnected(reason string)
}

// Source streams weight samples into a Sink until the context is cancelled.
type Source interface {
	Run(ctx context.Context) error
}
