package game

import (
	"errors"
	"strings"
	"testing"
)

// newConfig builds a config with the usual form sequence: name, total, free.
func newConfig(t *testing.T, total, free int) *Config {
	t.Helper()
	c := NewConfig()
	c.GameName = "Friday Draw"
	if !c.SetTotalSeats(total) {
		t.Fatalf("SetTotalSeats(%d) rejected", total)
	}
	if !c.SetFreeSeats(free) {
		t.Fatalf("SetFreeSeats(%d) rejected", free)
	}
	return c
}

func TestSetTotalSeatsResetsSplitAndInventory(t *testing.T) {
	c := newConfig(t, 10, 4)
	if err := c.SetSeatPaid(0, true); err != nil {
		t.Fatalf("SetSeatPaid: %v", err)
	}

	if !c.SetTotalSeats(8) {
		t.Fatalf("SetTotalSeats(8) rejected")
	}
	if c.FreeSeats != Unset || c.PaidSeats != Unset {
		t.Fatalf("split not reset: free=%d paid=%d", c.FreeSeats, c.PaidSeats)
	}
	if len(c.Seats) != 8 {
		t.Fatalf("inventory not regenerated: %d seats", len(c.Seats))
	}
	for _, s := range c.Seats {
		if s.IsPaid || s.Price != 0 {
			t.Fatalf("seat %d survived regeneration: %+v", s.SeatNumber, s)
		}
	}
}

func TestSetTotalSeatsBounds(t *testing.T) {
	c := NewConfig()
	if c.SetTotalSeats(MaxSeats + 1) {
		t.Fatalf("accepted total above cap")
	}
	if c.SetTotalSeats(-3) {
		t.Fatalf("accepted negative total")
	}
	if c.TotalSeats != Unset {
		t.Fatalf("rejected edit mutated state: %d", c.TotalSeats)
	}
}

func TestFreeSeatEditDerivesPaidAndWipesSeats(t *testing.T) {
	// totalSeats=5, freeSeats=2 -> paidSeats auto-computed to 3 and all
	// five seats reset to free/unpriced.
	c := newConfig(t, 5, 2)
	if c.PaidSeats != 3 {
		t.Fatalf("paid seats: want 3, got %d", c.PaidSeats)
	}

	if err := c.SetSeatPaid(0, true); err != nil {
		t.Fatalf("SetSeatPaid: %v", err)
	}
	if err := c.SetSeatPrice(0, 50); err != nil {
		t.Fatalf("SetSeatPrice: %v", err)
	}

	if !c.SetFreeSeats(4) {
		t.Fatalf("SetFreeSeats(4) rejected")
	}
	if c.PaidSeats != 1 {
		t.Fatalf("paid seats after re-edit: want 1, got %d", c.PaidSeats)
	}
	for _, s := range c.Seats {
		if s.IsPaid || s.Price != 0 {
			t.Fatalf("stale seat config survived free-seat edit: %+v", s)
		}
	}
}

func TestPaidSeatEditDoesNotCascade(t *testing.T) {
	c := newConfig(t, 10, 4)
	if err := c.SetSeatPaid(0, true); err != nil {
		t.Fatalf("SetSeatPaid: %v", err)
	}

	if !c.SetPaidSeats(5) {
		t.Fatalf("SetPaidSeats(5) rejected")
	}
	if c.FreeSeats != 4 {
		t.Fatalf("free seats changed by paid edit: %d", c.FreeSeats)
	}
	if !c.Seats[0].IsPaid {
		t.Fatalf("seat flags wiped by paid edit")
	}
	// The resulting 4+5 != 10 mismatch is the admin's to resolve; Validate
	// must refuse it.
	if errs := c.Validate(); !containsMessage(errs, "must equal sum of free") {
		t.Fatalf("expected count-mismatch violation, got %v", errs)
	}
}

func TestSetSeatPaidQuotaRejection(t *testing.T) {
	c := newConfig(t, 10, 7) // paid quota 3
	c.ApplyUniversalPrice(100)

	for i := 0; i < 3; i++ {
		if err := c.SetSeatPaid(i, true); err != nil {
			t.Fatalf("marking seat %d: %v", i+1, err)
		}
	}
	for i := 0; i < 3; i++ {
		if c.Seats[i].Price != 100 {
			t.Fatalf("seat %d price: want 100, got %d", i+1, c.Seats[i].Price)
		}
	}

	// Fourth mark must be rejected and leave the seat untouched.
	err := c.SetSeatPaid(3, true)
	if !errors.Is(err, ErrPaidQuotaFull) {
		t.Fatalf("want ErrPaidQuotaFull, got %v", err)
	}
	if c.Seats[3].IsPaid || c.Seats[3].Price != 0 {
		t.Fatalf("rejected mark mutated seat: %+v", c.Seats[3])
	}
	// Rejection is idempotent.
	if err := c.SetSeatPaid(3, true); !errors.Is(err, ErrPaidQuotaFull) {
		t.Fatalf("second attempt: want ErrPaidQuotaFull, got %v", err)
	}

	// Re-marking an already-paid seat stays legal at quota.
	if err := c.SetSeatPaid(0, true); err != nil {
		t.Fatalf("re-marking paid seat: %v", err)
	}
}

func TestApplyUniversalPrice(t *testing.T) {
	c := newConfig(t, 6, 3)
	for i := 0; i < 3; i++ {
		if err := c.SetSeatPaid(i, true); err != nil {
			t.Fatalf("SetSeatPaid(%d): %v", i, err)
		}
	}
	c.ApplyUniversalPrice(250)

	for i, s := range c.Seats {
		if s.IsPaid && s.Price != 250 {
			t.Fatalf("paid seat %d price: want 250, got %d", i+1, s.Price)
		}
		if !s.IsPaid && s.Price != 0 {
			t.Fatalf("free seat %d price: want 0, got %d", i+1, s.Price)
		}
	}

	// Negative universal prices are swallowed.
	c.ApplyUniversalPrice(-5)
	if c.Seats[0].Price != 250 {
		t.Fatalf("negative universal price applied: %d", c.Seats[0].Price)
	}
}

func TestSetSeatPriceIgnoresNegative(t *testing.T) {
	c := newConfig(t, 4, 2)
	if err := c.SetSeatPaid(0, true); err != nil {
		t.Fatalf("SetSeatPaid: %v", err)
	}
	if err := c.SetSeatPrice(0, 75); err != nil {
		t.Fatalf("SetSeatPrice: %v", err)
	}
	if err := c.SetSeatPrice(0, -10); err != nil {
		t.Fatalf("SetSeatPrice(-10): %v", err)
	}
	if c.Seats[0].Price != 75 {
		t.Fatalf("negative price updated state: %d", c.Seats[0].Price)
	}
	if err := c.SetSeatPrice(9, 10); !errors.Is(err, ErrNoSuchSeat) {
		t.Fatalf("out-of-range index: want ErrNoSuchSeat, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		build   func(t *testing.T) *Config
		wantErr string // substring of one violation; "" means valid
	}{
		{
			name: "valid 4 free 6 paid of 10",
			build: func(t *testing.T) *Config {
				c := newConfig(t, 10, 4)
				c.ApplyUniversalPrice(100)
				for i := 0; i < 6; i++ {
					if err := c.SetSeatPaid(i, true); err != nil {
						t.Fatalf("SetSeatPaid: %v", err)
					}
				}
				return c
			},
		},
		{
			name: "count mismatch 4+5 of 10",
			build: func(t *testing.T) *Config {
				c := newConfig(t, 10, 4)
				c.SetPaidSeats(5)
				return c
			},
			wantErr: "must equal sum of free",
		},
		{
			name: "missing game name",
			build: func(t *testing.T) *Config {
				c := newConfig(t, 5, 5)
				c.GameName = "   "
				return c
			},
			wantErr: "Game name is required",
		},
		{
			name: "missing total seats",
			build: func(t *testing.T) *Config {
				c := NewConfig()
				c.GameName = "x"
				return c
			},
			wantErr: "Total seats is required",
		},
		{
			name: "paid seat without price",
			build: func(t *testing.T) *Config {
				c := newConfig(t, 5, 4)
				if err := c.SetSeatPaid(0, true); err != nil {
					t.Fatalf("SetSeatPaid: %v", err)
				}
				return c
			},
			wantErr: "must have a price set",
		},
		{
			name: "marked count below quota",
			build: func(t *testing.T) *Config {
				// quota 3 but nothing marked
				return newConfig(t, 10, 7)
			},
			wantErr: "must match the specified paid seats count",
		},
		{
			name: "paid seat priced zero is legal",
			build: func(t *testing.T) *Config {
				c := newConfig(t, 3, 2)
				if err := c.SetSeatPaid(0, true); err != nil {
					t.Fatalf("SetSeatPaid: %v", err)
				}
				if err := c.SetSeatPrice(0, 0); err != nil {
					t.Fatalf("SetSeatPrice: %v", err)
				}
				return c
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.build(t).Validate()
			if tc.wantErr == "" {
				if len(errs) != 0 {
					t.Fatalf("want valid, got %v", errs)
				}
				return
			}
			if !containsMessage(errs, tc.wantErr) {
				t.Fatalf("want violation containing %q, got %v", tc.wantErr, errs)
			}
		})
	}
}

func TestNormalizedForcesFreePricesToZero(t *testing.T) {
	c := newConfig(t, 4, 2)
	if err := c.SetSeatPaid(0, true); err != nil {
		t.Fatalf("SetSeatPaid: %v", err)
	}
	if err := c.SetSeatPrice(0, 30); err != nil {
		t.Fatalf("SetSeatPrice: %v", err)
	}
	if err := c.SetSeatPaid(1, true); err != nil {
		t.Fatalf("SetSeatPaid: %v", err)
	}
	// seat 2 paid but never priced: Unset collapses to 0

	for _, s := range c.Normalized() {
		if s.Price < 0 {
			t.Fatalf("normalized seat %d has negative price %d", s.SeatNumber, s.Price)
		}
		if !s.IsPaid && s.Price != 0 {
			t.Fatalf("free seat %d priced %d after normalization", s.SeatNumber, s.Price)
		}
	}
}

func containsMessage(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
