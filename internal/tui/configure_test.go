package tui

import (
	"strings"
	"testing"
)

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"short", "*****"},
		{"sk-proj-1234567890abcdef", "sk-p...cdef"},
	}

	for _, tt := range tests {
		if got := MaskKey(tt.key); got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestMaskKey_NeverRevealsMiddle(t *testing.T) {
	key := "sk-proj-secret-middle-part-xyz"
	masked := MaskKey(key)
	if strings.Contains(masked, "secret") {
		t.Errorf("MaskKey leaked key material: %q", masked)
	}
}

func TestFormatKeyLabel(t *testing.T) {
	if got := FormatKeyLabel("openai", ""); got != "not configured" {
		t.Errorf("FormatKeyLabel empty = %q", got)
	}
	if got := FormatKeyLabel("openai", "sk-proj-1234567890abcdef"); !strings.Contains(got, "configured") {
		t.Errorf("FormatKeyLabel = %q", got)
	}
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"http://localhost:5173", []string{"http://localhost:5173"}},
		{"http://a.example, http://b.example", []string{"http://a.example", "http://b.example"}},
		{" , , *", []string{"*"}},
	}

	for _, tt := range tests {
		got := SplitOrigins(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitOrigins(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitOrigins(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
