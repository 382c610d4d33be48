package booking

import (
	"testing"
	"time"

	"github.com/abdelmaha121/sas/pkg/db/models"
)

func TestIntervalsOverlap(t *testing.T) {
	base := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	cases := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"identical", at(0), at(60), at(0), at(60), true},
		{"partial overlap", at(0), at(60), at(30), at(90), true},
		{"contained", at(0), at(60), at(15), at(45), true},
		{"touching endpoints", at(0), at(60), at(60), at(120), false},
		{"touching endpoints reversed", at(60), at(120), at(0), at(60), false},
		{"disjoint", at(0), at(60), at(90), at(150), false},
		{"one minute overlap", at(0), at(60), at(59), at(119), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := intervalsOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("intervalsOverlap(%v, %v, %v, %v) = %v, want %v", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}

func TestBookingEnd(t *testing.T) {
	start := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	withService := models.Booking{
		ScheduledAt: start,
		Service:     &models.Service{DurationMinutes: 90},
	}
	if got := bookingEnd(withService); !got.Equal(start.Add(90 * time.Minute)) {
		t.Errorf("bookingEnd with service duration = %v, want %v", got, start.Add(90*time.Minute))
	}

	orphaned := models.Booking{ScheduledAt: start}
	if got := bookingEnd(orphaned); !got.Equal(start.Add(60 * time.Minute)) {
		t.Errorf("bookingEnd fallback = %v, want %v", got, start.Add(60*time.Minute))
	}

	zeroDuration := models.Booking{ScheduledAt: start, Service: &models.Service{}}
	if got := bookingEnd(zeroDuration); !got.Equal(start.Add(60 * time.Minute)) {
		t.Errorf("bookingEnd zero duration = %v, want %v", got, start.Add(60*time.Minute))
	}
}
