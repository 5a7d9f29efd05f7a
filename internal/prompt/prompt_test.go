// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"strings"
	"testing"
)

// ============================================================================
// LANGUAGE MATCHING
// ============================================================================

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"english name", "Hindi", "Hindi", true},
		{"english name lowercase", "tamil", "Tamil", true},
		{"native name", "हिन्दी", "Hindi", true},
		{"bcp47 tag", "bn", "Bengali", true},
		{"bcp47 region variant", "pa-IN", "Punjabi", true},
		{"odia tag", "or", "Odia", true},
		{"unsupported language", "fr", "", false},
		{"garbage", "not-a-language", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := Match(tt.input)
			if ok != tt.ok {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && l.EnglishName != tt.want {
				t.Errorf("Match(%q) = %s, want %s", tt.input, l.EnglishName, tt.want)
			}
		})
	}
}

func TestByNameResolvesBothForms(t *testing.T) {
	// Saved conversations record the English name; the picker uses the
	// native one. Both must round-trip to the same language.
	tests := []struct {
		input string
		want  string
	}{
		{"Hindi", "Hindi"},
		{"हिन्दी", "Hindi"},
		{"Gujarati", "Gujarati"},
		{"ગુજરાતી", "Gujarati"},
	}
	for _, tt := range tests {
		if l := ByName(tt.input); l.EnglishName != tt.want {
			t.Errorf("ByName(%q) = %s, want %s", tt.input, l.EnglishName, tt.want)
		}
	}
}

func TestByNameFallsBackToDefault(t *testing.T) {
	l := ByName("Klingon")
	if l.EnglishName != Default().EnglishName {
		t.Errorf("ByName fallback = %s, want %s", l.EnglishName, Default().EnglishName)
	}
}

func TestSupportedCount(t *testing.T) {
	if len(Supported) != 11 {
		t.Fatalf("len(Supported) = %d, want 11", len(Supported))
	}
	seen := map[string]bool{}
	for _, l := range Supported {
		if l.Greeting == "" {
			t.Errorf("%s has no greeting", l.EnglishName)
		}
		if seen[l.EnglishName] {
			t.Errorf("duplicate language %s", l.EnglishName)
		}
		seen[l.EnglishName] = true
	}
}

func TestWelcomeMessageStartsWithGreeting(t *testing.T) {
	for _, l := range Supported {
		msg := WelcomeMessage(l)
		if !strings.HasPrefix(msg, l.Greeting) {
			t.Errorf("%s welcome does not start with greeting: %q", l.EnglishName, msg)
		}
		if !strings.Contains(msg, "NeerAI") {
			t.Errorf("%s welcome missing assistant name", l.EnglishName)
		}
	}
}

// ============================================================================
// SYSTEM INSTRUCTION
// ============================================================================

func TestSystemInstructionLocksLanguage(t *testing.T) {
	hi := ByName("Hindi")
	inst := SystemInstruction(hi)
	if !strings.Contains(inst, "You must respond exclusively in हिन्दी.") {
		t.Error("instruction missing language lock for Hindi")
	}
	for _, want := range []string{
		"chartData",
		"comparisonStates",
		"suggestions",
		"mbgl",
		"```json",
	} {
		if !strings.Contains(inst, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
}

func TestSystemInstructionDiffersPerLanguage(t *testing.T) {
	a := SystemInstruction(ByName("English"))
	b := SystemInstruction(ByName("Tamil"))
	if a == b {
		t.Error("instruction identical across languages")
	}
}

// ============================================================================
// STATES
// ============================================================================

func TestStates(t *testing.T) {
	if len(States) != 36 {
		t.Fatalf("len(States) = %d, want 36", len(States))
	}
	if !IsState("punjab") || !IsState("Tamil Nadu") {
		t.Error("IsState rejected known state")
	}
	if IsState("Atlantis") {
		t.Error("IsState accepted unknown state")
	}
}

func TestStateQuery(t *testing.T) {
	got := StateQuery("Kerala")
	want := "Provide a detailed summary of groundwater levels in Kerala."
	if got != want {
		t.Errorf("StateQuery = %q, want %q", got, want)
	}
}
