package service

import (
	"errors"
	"testing"
)

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name string
		card CardDetails
		ok   bool
	}{
		{"valid", CardDetails{Number: "4242424242424242", Expiry: "1227", CVC: "123"}, true},
		{"valid with spaces and slash", CardDetails{Number: "4242 4242 4242 4242", Expiry: "12/27", CVC: "1234"}, true},
		{"short number", CardDetails{Number: "4242", Expiry: "1227", CVC: "123"}, false},
		{"letters in number", CardDetails{Number: "4242abcd42424242", Expiry: "1227", CVC: "123"}, false},
		{"bad expiry", CardDetails{Number: "4242424242424242", Expiry: "12-27", CVC: "123"}, false},
		{"short cvc", CardDetails{Number: "4242424242424242", Expiry: "1227", CVC: "12"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCard(tt.card)
			if tt.ok && err != nil {
				t.Errorf("validateCard: %v, want ok", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("validateCard accepted invalid card")
				}
				if !errors.Is(err, ErrCardDeclined) {
					t.Errorf("error = %v, want ErrCardDeclined", err)
				}
			}
		})
	}
}
