package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironaxle/weighstation/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	weighedIn := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	weighedOut := weighedIn.Add(45 * time.Minute)
	exit := 8200.0
	net := 24300.0

	transactions := []domain.Transaction{
		{
			ID:            uuid.New(),
			TicketNumber:  "WB-20260314-0001",
			Direction:     domain.DirectionInbound,
			Status:        domain.TransactionStatusCompleted,
			EntryWeightKg: 32500,
			ExitWeightKg:  &exit,
			NetWeightKg:   &net,
			WeighedInAt:   weighedIn,
			WeighedOutAt:  &weighedOut,
			VehiclePlate:  "ABC-123",
			DriverName:    "Maria Flores",
			ProductName:   "Crushed Gravel",
			PartnerName:   "Northside Aggregates",
		},
		{
			ID:            uuid.New(),
			TicketNumber:  "WB-20260314-0002",
			Direction:     domain.DirectionOutbound,
			Status:        domain.TransactionStatusOpen,
			EntryWeightKg: 7950.5,
			Manual:        true,
			WeighedInAt:   weighedIn.Add(time.Hour),
			VehiclePlate:  "XYZ-987",
			DriverName:    "Tom Reed",
			ProductName:   "Sand",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, transactions))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])

	completed := records[1]
	assert.Equal(t, "WB-20260314-0001", completed[0])
	assert.Equal(t, "completed", completed[1])
	assert.Equal(t, "inbound", completed[2])
	assert.Equal(t, "ABC-123", completed[3])
	assert.Equal(t, "32500.0", completed[7])
	assert.Equal(t, "8200.0", completed[8])
	assert.Equal(t, "24300.0", completed[9])
	assert.Equal(t, "false", completed[10])
	assert.Equal(t, "2026-03-14 09:15:00", completed[12])

	open := records[2]
	assert.Equal(t, "open", open[1])
	assert.Equal(t, "7950.5", open[7])
	// Open transactions have no exit or net weight yet.
	assert.Equal(t, "", open[8])
	assert.Equal(t, "", open[9])
	assert.Equal(t, "true", open[10])
	assert.Equal(t, "", open[12])
}

func TestWriteCSV_EmptyDay(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}
