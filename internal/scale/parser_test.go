package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironaxle/weighstation/internal/domain"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    float64
		wantErr bool
	}{
		{
			name: "status prefixed frame with kg unit",
			line: "ST,GS,+  1234.5kg",
			want: 1234.5,
		},
		{
			name: "unstable flag with zero weight",
			line: "US,GS,-     0.0kg",
			want: 0,
		},
		{
			name: "negative value",
			line: "ST,NT,-   12.5kg",
			want: -12.5,
		},
		{
			name: "bare integer frame",
			line: "12480",
			want: 12480,
		},
		{
			name: "bare decimal with surrounding whitespace",
			line: "  745.25  ",
			want: 745.25,
		},
		{
			name: "grams converted to kilograms",
			line: "ST,GS,+500g",
			want: 0.5,
		},
		{
			name: "tonnes converted to kilograms",
			line: "ST,GS,+12.5t",
			want: 12500,
		},
		{
			name: "uppercase unit",
			line: "ST,GS,+100KG",
			want: 100,
		},
		{
			name:    "empty frame",
			line:    "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			line:    "   ",
			wantErr: true,
		},
		{
			name:    "status fields without value",
			line:    "ST,GS,",
			wantErr: true,
		},
		{
			name:    "garbage payload",
			line:    "ST,GS,ERRkg",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFrame(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.EINVALIDDATA, domain.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestParseFrame_PoundsConversion(t *testing.T) {
	got, err := ParseFrame("ST,GS,+100lb")
	require.NoError(t, err)
	assert.InDelta(t, 45.359, got, 0.001)
}
