package env

import "testing"

func TestGetFallsBack(t *testing.T) {
	t.Setenv("TIMERAPP_TEST_VALUE", "  ")
	if got := Get("TIMERAPP_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("TIMERAPP_TEST_VALUE", "console")
	if got := Get("TIMERAPP_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", "on"} {
		t.Setenv("TIMERAPP_TEST_FLAG", v)
		if !Bool("TIMERAPP_TEST_FLAG") {
			t.Fatalf("expected %q to be truthy", v)
		}
	}
	t.Setenv("TIMERAPP_TEST_FLAG", "nope")
	if Bool("TIMERAPP_TEST_FLAG") {
		t.Fatal("expected falsy value")
	}
}
