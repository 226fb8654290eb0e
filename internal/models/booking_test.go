package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBookingStatusTerminal(t *testing.T) {
	require.True(t, BookingCompleted.Terminal())
	require.True(t, BookingCancelled.Terminal())
	require.False(t, BookingPending.Terminal())
	require.False(t, BookingConfirmed.Terminal())
	require.False(t, BookingInProgress.Terminal())
}

func TestBookingStatusCanTransition(t *testing.T) {
	open := []BookingStatus{BookingPending, BookingConfirmed, BookingInProgress}
	for _, from := range open {
		require.True(t, from.CanTransition(BookingInProgress))
		require.True(t, from.CanTransition(BookingCompleted))
		require.True(t, from.CanTransition(BookingCancelled))
		require.False(t, from.CanTransition("paused"))
	}

	for _, closed := range []BookingStatus{BookingCompleted, BookingCancelled} {
		for _, next := range []BookingStatus{BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled} {
			require.False(t, closed.CanTransition(next))
		}
	}
}

func TestAvailabilityStateRankPriority(t *testing.T) {
	require.Equal(t, 1, StateAvailable.RankPriority())
	require.Equal(t, 2, StateUnavailable.RankPriority())
	require.Equal(t, 3, StateBooked.RankPriority())
	require.Equal(t, 4, AvailabilityState("mystery").RankPriority())
}

func TestWeekdayOf(t *testing.T) {
	day, err := WeekdayOf("2026-09-07")
	require.NoError(t, err)
	require.Equal(t, "Monday", day)

	_, err = WeekdayOf("07-09-2026")
	require.Error(t, err)
}

func TestOverrideCoversHalfOpenInterval(t *testing.T) {
	o := UnavailabilityOverride{StartTime: "09:00", EndTime: "11:00"}
	require.True(t, o.Covers("09:00"))
	require.True(t, o.Covers("10:59"))
	require.False(t, o.Covers("11:00"))
	require.False(t, o.Covers("08:59"))
}
