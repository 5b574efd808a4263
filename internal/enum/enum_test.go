package enum

import "testing"

func TestIsValid(t *testing.T) {
	for _, s := range All() {
		if !s.IsValid() {
			t.Errorf("%v should be valid", s)
		}
	}
	for _, s := range []Status{0, 6, 7, -1} {
		if s.IsValid() {
			t.Errorf("%d should not be valid", s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusInPreparation, false},
		{StatusReady, false},
		{StatusCancelled, true},
		{StatusDelivered, true},
		{StatusBilled, true},
	}
	for _, c := range cases {
		if got := c.status.IsTerminal(); got != c.want {
			t.Errorf("IsTerminal(%v) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestIsPayableTerminal(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusInPreparation, false},
		{StatusReady, false},
		{StatusCancelled, true},
		{StatusDelivered, true},
		{StatusBilled, false},
	}
	for _, c := range cases {
		if got := c.status.IsPayableTerminal(); got != c.want {
			t.Errorf("IsPayableTerminal(%v) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestString(t *testing.T) {
	if StatusDelivered.String() != "Delivered" {
		t.Errorf("got %q", StatusDelivered.String())
	}
	if Status(99).String() != "Unknown" {
		t.Errorf("got %q", Status(99).String())
	}
}
