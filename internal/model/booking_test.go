package model

import "testing"

func TestCanTransition(t *testing.T) {
    cases := []struct {
        from, to string
        want     bool
    }{
        {BookingPending, BookingPaid, true},
        {BookingPending, BookingCancelled, true},
        {BookingPending, BookingPending, false},
        {BookingPaid, BookingCancelled, false},
        {BookingPaid, BookingPending, false},
        {BookingPaid, BookingPaid, false},
        {BookingCancelled, BookingPaid, false},
        {BookingCancelled, BookingPending, false},
        {"", BookingPaid, false},
        {"UNKNOWN", BookingPaid, false},
    }
    for _, c := range cases {
        if got := CanTransition(c.from, c.to); got != c.want {
            t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
        }
    }
}

func TestBookingIsActive(t *testing.T) {
    for status, want := range map[string]bool{
        BookingPending:   true,
        BookingPaid:      true,
        BookingCancelled: false,
    } {
        b := Booking{Status: status}
        if got := b.IsActive(); got != want {
            t.Errorf("IsActive() with status %q = %v, want %v", status, got, want)
        }
    }
}

func TestBookingIsTerminal(t *testing.T) {
    for status, want := range map[string]bool{
        BookingPending:   false,
        BookingPaid:      true,
        BookingCancelled: true,
    } {
        b := Booking{Status: status}
        if got := b.IsTerminal(); got != want {
            t.Errorf("IsTerminal() with status %q = %v, want %v", status, got, want)
        }
    }
}
