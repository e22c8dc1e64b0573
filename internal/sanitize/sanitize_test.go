package sanitize

import "testing"

func TestStripTags(t *testing.T) {
	in := "<command-name>clear</command-name> <system-reminder>note</system-reminder> keep this"
	got := StripTags(in)
	if got != "clear note keep this" {
		t.Errorf("StripTags = %q", got)
	}
}

func TestStripTags_Plain(t *testing.T) {
	if got := StripTags("  fix the bug  "); got != "fix the bug" {
		t.Errorf("StripTags = %q, want trimmed passthrough", got)
	}
}

func TestCleanPrompt_CollapsesWhitespace(t *testing.T) {
	got := CleanPrompt("fix    the\t\tbug")
	if got != "fix the bug" {
		t.Errorf("CleanPrompt = %q", got)
	}
}

func TestCleanPrompt_DropsCaveat(t *testing.T) {
	got := CleanPrompt("Caveat: the messages below were generated by the user")
	if got != "" {
		t.Errorf("CleanPrompt = %q, want empty for caveat banner", got)
	}
}

func TestCleanPrompt_Empty(t *testing.T) {
	if got := CleanPrompt("<system-reminder></system-reminder>"); got != "" {
		t.Errorf("CleanPrompt = %q, want empty", got)
	}
}
