package domain

import "testing"

func TestParsePriceDigitsOnly(t *testing.T) {
	got := ParsePrice("15500000")
	if got == nil || *got != 15500000 {
		t.Fatalf("expected 15500000, got %v", got)
	}
}

func TestParsePriceWithSingleDot(t *testing.T) {
	got := ParsePrice("2.5")
	if got == nil || *got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
}

func TestParsePriceRejectsNonNumeric(t *testing.T) {
	cases := []string{"", "—", "Договорная", "1 500 000", "1.2.3", ".", "15000тг"}
	for _, text := range cases {
		if got := ParsePrice(text); got != nil {
			t.Fatalf("ParsePrice(%q): expected nil, got %v", text, *got)
		}
	}
}
