package domain

import (
	"errors"
	"testing"
)

func TestMaskNumber(t *testing.T) {
	masked, err := MaskNumber("1111222233334444")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if masked != "**** **** **** 4444" {
		t.Errorf("masked = %q, want %q", masked, "**** **** **** 4444")
	}
}

func TestMaskNumberTooShort(t *testing.T) {
	for _, num := range []string{"", "1234", "12345678901"} {
		if _, err := MaskNumber(num); !errors.Is(err, ErrInvalidCardNumber) {
			t.Errorf("MaskNumber(%q) error = %v, want ErrInvalidCardNumber", num, err)
		}
	}
}

func TestMaskNumberMinimumLength(t *testing.T) {
	masked, err := MaskNumber("123456789012")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if masked != "**** **** **** 9012" {
		t.Errorf("masked = %q, want %q", masked, "**** **** **** 9012")
	}
}

func TestValidCardNumber(t *testing.T) {
	cases := []struct {
		num  string
		want bool
	}{
		{"1111222233334444", true},
		{"0000000000000000", true},
		{"1111 2222 3333 4444", false},
		{"1111-2222-3333-4444", false},
		{"111122223333444a", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidCardNumber(tc.num); got != tc.want {
			t.Errorf("ValidCardNumber(%q) = %v, want %v", tc.num, got, tc.want)
		}
	}
}

func TestCardStatusValid(t *testing.T) {
	for _, s := range []CardStatus{StatusActive, StatusBlocked, StatusExpired} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if CardStatus("FROZEN").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestCardIsActive(t *testing.T) {
	c := Card{Status: StatusActive}
	if !c.IsActive() {
		t.Error("ACTIVE card should allow money operations")
	}
	for _, s := range []CardStatus{StatusBlocked, StatusExpired} {
		c.Status = s
		if c.IsActive() {
			t.Errorf("%s card should not allow money operations", s)
		}
	}
}
