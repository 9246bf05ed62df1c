package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPaidQuotaFull is returned by SetSeatPaid when marking one more seat
// paid would exceed the configured paid seat count.  The seat is left
// untouched so the caller can surface a warning and carry on.
var ErrPaidQuotaFull = errors.New("paid seat quota reached")

// ErrNoSuchSeat is returned for seat indexes outside the inventory.
var ErrNoSuchSeat = errors.New("no such seat")

// Config is the admin-side game configuration being edited before
// submission.  TotalSeats, FreeSeats, PaidSeats and UniversalPrice start as
// Unset and track the form fields; Seats always has length TotalSeats (or
// is empty while TotalSeats is Unset).
//
// The reducer is deliberately asymmetric: editing FreeSeats re-derives
// PaidSeats and wipes per-seat paid/price flags, while editing PaidSeats
// adjusts nothing else.  Free-seat edits are authoritative over the split;
// paid-seat edits let the admin fine-tune without cascading resets, at the
// cost of a mismatch Validate will catch before submission.
type Config struct {
	GameName       string
	Description    string
	AdditionalInfo string
	UniversalGift  string
	ImageURL       string

	TotalSeats     int
	FreeSeats      int
	PaidSeats      int
	UniversalPrice int
	Seats          []Seat
}

// NewConfig returns an empty configuration with all numeric fields Unset.
func NewConfig() *Config {
	return &Config{
		TotalSeats:     Unset,
		FreeSeats:      Unset,
		PaidSeats:      Unset,
		UniversalPrice: Unset,
	}
}

// SetTotalSeats handles an edit of the total seat count.  Values outside
// [0, MaxSeats] are ignored and the method reports false.  A valid edit
// resets the free/paid split to Unset and regenerates the inventory,
// discarding any per-seat pricing from the previous count.
func (c *Config) SetTotalSeats(n int) bool {
	if n < 0 || n > MaxSeats {
		return false
	}
	c.TotalSeats = n
	c.FreeSeats = Unset
	c.PaidSeats = Unset
	c.UniversalPrice = Unset
	c.Seats = Regenerate(n)
	return true
}

// SetFreeSeats handles an edit of the free seat count.  Values outside
// [0, TotalSeats] are ignored.  A valid edit derives
// PaidSeats = TotalSeats - FreeSeats and clears every seat back to free and
// unpriced, so a stale paid/free split cannot leak into the new one.
func (c *Config) SetFreeSeats(n int) bool {
	total := c.TotalSeats
	if total == Unset {
		total = 0
	}
	if n < 0 || n > total {
		return false
	}
	c.FreeSeats = n
	c.PaidSeats = total - n
	for i := range c.Seats {
		c.Seats[i].IsPaid = false
		c.Seats[i].Price = 0
	}
	return true
}

// SetPaidSeats handles a direct edit of the paid seat count.  Values outside
// [0, TotalSeats] are ignored.  FreeSeats and the seat flags are left alone;
// see the Config doc for why this does not cascade.
func (c *Config) SetPaidSeats(n int) bool {
	total := c.TotalSeats
	if total == Unset {
		total = 0
	}
	if n < 0 || n > total {
		return false
	}
	c.PaidSeats = n
	return true
}

// SetSeatPaid flips the paid flag on the seat at index i.  Marking a seat
// paid fails with ErrPaidQuotaFull when the paid quota is already met; the
// seat is left unchanged.  Marking paid assigns the universal price when one
// has been applied, otherwise the price becomes Unset and must be filled in.
// Unmarking resets the price to 0.
func (c *Config) SetSeatPaid(i int, paid bool) error {
	if i < 0 || i >= len(c.Seats) {
		return ErrNoSuchSeat
	}
	if paid && !c.Seats[i].IsPaid {
		quota := c.PaidSeats
		if quota == Unset {
			quota = 0
		}
		if c.PaidSeatCount()+1 > quota {
			return ErrPaidQuotaFull
		}
	}
	c.Seats[i].IsPaid = paid
	if paid {
		if c.UniversalPrice != Unset {
			c.Seats[i].Price = c.UniversalPrice
		} else {
			c.Seats[i].Price = Unset
		}
	} else {
		c.Seats[i].Price = 0
	}
	return nil
}

// SetSeatPrice assigns a price to the seat at index i.  Negative input is
// ignored without error, mirroring how the form swallows bad keystrokes.
func (c *Config) SetSeatPrice(i, price int) error {
	if i < 0 || i >= len(c.Seats) {
		return ErrNoSuchSeat
	}
	if price < 0 {
		return nil
	}
	c.Seats[i].Price = price
	return nil
}

// ApplyUniversalPrice sets the given price on every seat currently marked
// paid and remembers it for seats marked paid later.  Free seats stay at 0.
// Negative input is ignored.
func (c *Config) ApplyUniversalPrice(price int) {
	if price < 0 {
		return
	}
	c.UniversalPrice = price
	for i := range c.Seats {
		if c.Seats[i].IsPaid {
			c.Seats[i].Price = price
		}
	}
}

// PaidSeatCount reports how many seats are currently marked paid.
func (c *Config) PaidSeatCount() int {
	n := 0
	for i := range c.Seats {
		if c.Seats[i].IsPaid {
			n++
		}
	}
	return n
}

// Validate runs the full submission invariant set and returns human-readable
// violation messages.  It has no side effects; an empty result means the
// configuration may be submitted.
func (c *Config) Validate() []string {
	var errs []string

	if strings.TrimSpace(c.GameName) == "" {
		errs = append(errs, "Game name is required")
	}
	if c.TotalSeats == Unset {
		errs = append(errs, "Total seats is required")
	} else if c.TotalSeats < 1 || c.TotalSeats > MaxSeats {
		errs = append(errs, fmt.Sprintf("Total seats must be between 1 and %d", MaxSeats))
	}

	free := c.FreeSeats
	paid := c.PaidSeats
	if free == Unset {
		free = 0
	}
	if paid == Unset {
		paid = 0
	}
	if total := c.TotalSeats; total != Unset && free+paid != total {
		errs = append(errs, fmt.Sprintf(
			"Total seats (%d) must equal sum of free (%d) and paid seats (%d)", total, free, paid))
	}

	unpriced := 0
	for i := range c.Seats {
		if c.Seats[i].IsPaid && c.Seats[i].Price == Unset {
			unpriced++
		}
	}
	if unpriced > 0 {
		errs = append(errs, "All paid seats must have a price set")
	}

	if marked := c.PaidSeatCount(); marked != paid {
		errs = append(errs, fmt.Sprintf(
			"Number of selected paid seats (%d) must match the specified paid seats count (%d)", marked, paid))
	}

	return errs
}

// Normalized returns the seat inventory ready for persistence: free seats
// are forced to price 0 and any lingering Unset price collapses to 0.
func (c *Config) Normalized() []Seat {
	out := make([]Seat, len(c.Seats))
	for i, s := range c.Seats {
		if !s.IsPaid || s.Price == Unset {
			s.Price = 0
		}
		out[i] = s
	}
	return out
}
