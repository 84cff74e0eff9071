package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("WEBSHOP_TEST_KNOB", "plain")
	if got := Get("WEBSHOP_TEST_KNOB", "fallback"); got != "plain" {
		t.Fatalf("expected set value, got %q", got)
	}

	t.Setenv("WEBSHOP_TEST_KNOB", "   ")
	if got := Get("WEBSHOP_TEST_KNOB", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}

	if got := Get("WEBSHOP_TEST_KNOB_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for unset key, got %q", got)
	}
}
