package tui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFitText_ShortValueUntouched(t *testing.T) {
	if got := fitText("crash", 10); got != "crash" {
		t.Fatalf("expected value to pass through, got %q", got)
	}
}

func TestFitText_TruncatesWithEllipsis(t *testing.T) {
	got := fitText("a very long incident title", 10)
	if got != "a very ..." {
		t.Fatalf("expected %q, got %q", "a very ...", got)
	}
}

func TestFitText_MultibyteTitleStaysValid(t *testing.T) {
	title := "Сбой при входе в систему"

	got := fitText(title, 10)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated value is not valid UTF-8: %q", got)
	}
	if strings.ContainsRune(got, utf8.RuneError) {
		t.Fatalf("truncated value contains a replacement character: %q", got)
	}
	if runeCount := utf8.RuneCountInString(got); runeCount != 10 {
		t.Fatalf("expected 10 runes, got %d (%q)", runeCount, got)
	}
}

func TestFitText_TinyBudget(t *testing.T) {
	if got := fitText("пример", 2); got != "пр" {
		t.Fatalf("expected %q, got %q", "пр", got)
	}
}
