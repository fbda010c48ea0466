package models

import "testing"

func TestAssignment(t *testing.T) {
	floating := Reservation{Status: ReservationPending}
	if a := floating.Assignment(); a.Assigned {
		t.Fatal("floating reservation must be unassigned")
	}

	unitID := uint(7)
	pinned := Reservation{Status: ReservationConfirmed, AssignedUnitID: &unitID}
	a := pinned.Assignment()
	if !a.Assigned || a.UnitID != 7 {
		t.Fatalf("expected assignment to unit 7, got %+v", a)
	}

	if AssignedTo(7) != a {
		t.Fatal("AssignedTo must match reservation assignment")
	}
	if Unassigned() != floating.Assignment() {
		t.Fatal("Unassigned must match floating assignment")
	}
}

func TestOccupies(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{ReservationPending, true},
		{ReservationConfirmed, true},
		{ReservationCancelled, false},
	}
	for _, tc := range cases {
		r := Reservation{Status: tc.status}
		if got := r.Occupies(); got != tc.want {
			t.Fatalf("status %s: expected %v, got %v", tc.status, tc.want, got)
		}
	}
}
