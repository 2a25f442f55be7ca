package domain

import "testing"

func TestMapOptionEmptyInput(t *testing.T) {
	if got := MapOption("", []string{"Центр", "Подгора"}); got != "" {
		t.Fatalf("expected empty string for empty input, got %q", got)
	}
}

func TestMapOptionSubstringMatchIsCaseInsensitive(t *testing.T) {
	options := []string{"Центр", "Подгора"}

	if got := MapOption("2-комнатная, ПОДГОРА, кирпичный дом", options); got != "Подгора" {
		t.Fatalf("expected %q, got %q", "Подгора", got)
	}
	if got := MapOption("квартира в центре города", options); got != "Центр" {
		t.Fatalf("expected %q, got %q", "Центр", got)
	}
}

func TestMapOptionFirstMatchWins(t *testing.T) {
	// Оба термина входят в строку: побеждает более ранний в справочнике.
	options := []string{"Балкон", "Балкон и лоджия"}
	if got := MapOption("балкон и лоджия застеклены", options); got != "Балкон" {
		t.Fatalf("expected first option to win, got %q", got)
	}
}

func TestMapOptionPassthroughWhenNoMatch(t *testing.T) {
	got := MapOption("район аэропорта", []string{"Центр", "Подгора"})
	if got != "район аэропорта" {
		t.Fatalf("expected raw value back, got %q", got)
	}
}

func TestMapOptionEmptyVocabulary(t *testing.T) {
	if got := MapOption("Центр", nil); got != "Центр" {
		t.Fatalf("expected passthrough with empty vocabulary, got %q", got)
	}
}

func TestMapOptionSkipsEmptyTerms(t *testing.T) {
	// Пустой термин совпал бы с чем угодно - он должен игнорироваться.
	if got := MapOption("что угодно", []string{"", "Центр"}); got != "что угодно" {
		t.Fatalf("expected empty terms to be skipped, got %q", got)
	}
}
