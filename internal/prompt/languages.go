// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"strings"

	"golang.org/x/text/language"
)

// =============================================================================
// LANGUAGE TYPE
// =============================================================================

// Language is one of the response languages the assistant supports.
type Language struct {
	// Name is the native-script name, and the exact token interpolated into
	// the system instruction ("respond exclusively in {Name}").
	Name string

	// EnglishName is the Latin-script name, accepted on the command line.
	EnglishName string

	// Tag is the BCP-47 tag used for matching user-supplied language codes.
	Tag language.Tag

	// Greeting opens the seeded welcome message.
	Greeting string
}

// Supported lists the eleven response languages, English first.
var Supported = []Language{
	{Name: "English", EnglishName: "English", Tag: language.English, Greeting: "Hello"},
	{Name: "हिन्दी", EnglishName: "Hindi", Tag: language.Hindi, Greeting: "नमस्ते"},
	{Name: "বাংলা", EnglishName: "Bengali", Tag: language.Bengali, Greeting: "নমস্কার"},
	{Name: "తెలుగు", EnglishName: "Telugu", Tag: language.Telugu, Greeting: "నమస్కారం"},
	{Name: "मराठी", EnglishName: "Marathi", Tag: language.Marathi, Greeting: "नमस्कार"},
	{Name: "தமிழ்", EnglishName: "Tamil", Tag: language.Tamil, Greeting: "வணக்கம்"},
	{Name: "ગુજરાતી", EnglishName: "Gujarati", Tag: language.Gujarati, Greeting: "નમસ્તે"},
	{Name: "ಕನ್ನಡ", EnglishName: "Kannada", Tag: language.Kannada, Greeting: "ನಮಸ್ಕಾರ"},
	{Name: "ଓଡ଼ିଆ", EnglishName: "Odia", Tag: language.MustParse("or"), Greeting: "ନମସ୍କାର"},
	{Name: "മലയാളം", EnglishName: "Malayalam", Tag: language.Malayalam, Greeting: "നമസ്കാരം"},
	{Name: "ਪੰਜਾਬੀ", EnglishName: "Punjabi", Tag: language.Punjabi, Greeting: "ਸਤ ਸ੍ਰੀ ਅਕਾਲ"},
}

// matcher resolves arbitrary BCP-47 input against the supported set.
var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(Supported))
	for i, l := range Supported {
		tags[i] = l.Tag
	}
	return language.NewMatcher(tags)
}()

// Default returns the default response language (English).
func Default() Language {
	return Supported[0]
}

// =============================================================================
// LOOKUP
// =============================================================================

// Match resolves a user-supplied language selector to a supported language.
// It accepts native names ("हिन्दी"), English names ("Hindi", case
// insensitive) and BCP-47 tags ("hi", "pa-IN"). The second return value is
// false when nothing matched.
func Match(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Language{}, false
	}

	for _, l := range Supported {
		if s == l.Name || strings.EqualFold(s, l.EnglishName) {
			return l, true
		}
	}

	tag, err := language.Parse(s)
	if err != nil {
		return Language{}, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Language{}, false
	}
	return Supported[idx], true
}

// ByName returns the supported language with the given native or English
// name, falling back to the default when the name is unknown. Saved
// conversations record the English name, so this must resolve both forms.
func ByName(name string) Language {
	if l, ok := Match(name); ok {
		return l
	}
	return Default()
}

// WelcomeMessage returns the localized greeting that seeds a fresh session.
func WelcomeMessage(l Language) string {
	return l.Greeting + "! I am NeerAI. Ask me about India's groundwater to see a 5-year trend.\n\n" +
		"You can also ask about regions (e.g., 'North India') or compare states (e.g., 'Compare groundwater in Punjab and Haryana')."
}
