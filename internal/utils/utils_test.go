package utils

import (
	"strings"
	"testing"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 150)
	if got := Excerpt(long, 100); got != strings.Repeat("x", 100) {
		t.Fatalf("expected 100 characters, got %d", len(got))
	}

	if got := Excerpt("  keep spaces ", 100); got != "  keep spaces " {
		t.Fatalf("excerpt must not trim, got %q", got)
	}

	if got := Excerpt("ошибка сервера", 6); got != "ошибка" {
		t.Fatalf("expected rune-aware cut, got %q", got)
	}

	if got := Excerpt("anything", 0); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
}

func TestHumanSize(t *testing.T) {
	t.Parallel()

	if got := HumanSize(2048); got != "2.00 KB" {
		t.Fatalf("unexpected size: %q", got)
	}
	if got := HumanSize(1536); got != "1.50 KB" {
		t.Fatalf("unexpected size: %q", got)
	}
}
