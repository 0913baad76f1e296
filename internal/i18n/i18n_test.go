// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import "testing"

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	av := GetAvailableLocales()
	for _, k := range []string{"en", "de"} {
		if _, ok := av[k]; !ok {
			t.Fatalf("expected available locale %q to be present", k)
		}
	}
	if av["de"] != "Deutsch" {
		t.Fatalf("unexpected display name for de: %q", av["de"])
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")

	if got := T("summary.success_title"); got != "SUCCESS!" {
		t.Fatalf("expected 'SUCCESS!', got %q", got)
	}
	if got := T("prompt.accepted", 12); got != "Password set (12 characters)" {
		t.Fatalf("unexpected formatted translation: %q", got)
	}
}

func TestT_MissingIDFallsBack(t *testing.T) {
	Init("en")
	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("expected id fallback, got %q", got)
	}
}

func TestSetLang_German(t *testing.T) {
	SetLang("de")
	defer SetLang("en")

	if got := T("summary.failure_title"); got != "FEHLGESCHLAGEN!" {
		t.Fatalf("expected german translation, got %q", got)
	}
}

func TestLocaleTags_Sorted(t *testing.T) {
	tags := LocaleTags()
	if len(tags) < 2 || tags[0] != "de" || tags[1] != "en" {
		t.Fatalf("unexpected tags: %v", tags)
	}
}
