package domain

import "testing"

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingConfirmed, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingCancelled, false},
		{BookingPending, BookingCompleted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleTourist, RoleVendor, RoleAdmin} {
		if !ValidRole(role) {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	if ValidRole("superuser") {
		t.Fatalf("unknown role must be invalid")
	}
}
