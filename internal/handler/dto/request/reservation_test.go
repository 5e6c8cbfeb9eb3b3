//go:build unit

package request_test

import (
	"testing"
	"time"

	"turf-reservation/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReservationRequest_ToInput(t *testing.T) {
	resourceID := uuid.New()
	note := func(s string) *string { return &s }

	tests := []struct {
		name     string
		date     string
		note     *string
		wantNote *string
		wantErr  bool
	}{
		{name: "date parsed as UTC day", date: "2025-01-06"},
		{name: "note is trimmed", date: "2025-01-06", note: note("  bring bibs "), wantNote: note("bring bibs")},
		{name: "blank note dropped", date: "2025-01-06", note: note("   ")},
		{name: "wrong date layout", date: "06/01/2025", wantErr: true},
		{name: "impossible date", date: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request.CreateReservationRequest{
				ResourceID: resourceID,
				Date:       tt.date,
				StartTime:  "10:00",
				EndTime:    "12:00",
				Note:       tt.note,
			}

			input, err := req.ToInput()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, input.Date.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)))
			assert.Equal(t, resourceID, input.ResourceID)
			assert.Equal(t, tt.wantNote, input.Note)
		})
	}
}
