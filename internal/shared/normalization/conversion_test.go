package normalization

import "testing"

func TestAsID(t *testing.T) {
	cases := []struct {
		input    any
		expected string
	}{
		{" 42 ", "42"},
		{float64(42), "42"},
		{float64(4.5), "4.5"},
		{7, "7"},
		{int64(9), "9"},
		{map[string]any{"id": "abc"}, "abc"},
		{map[string]any{"_id": float64(3)}, "3"},
		{nil, ""},
		{true, ""},
	}
	for _, tc := range cases {
		if got := AsID(tc.input); got != tc.expected {
			t.Fatalf("AsID(%#v) expected %q got %q", tc.input, tc.expected, got)
		}
	}
}

func TestNormalizeEntity(t *testing.T) {
	cases := map[string]string{
		"":                    "",
		"Questions":           "question",
		" answer ":            "answer",
		"MENTORSHIP_MESSAGES": "mentorship-message",
		"chats":               "chat-message",
		"custom-entity":       "custom-entity",
	}
	for input, expected := range cases {
		if actual := NormalizeEntity(input); actual != expected {
			t.Fatalf("NormalizeEntity(%q) expected %q got %q", input, expected, actual)
		}
	}
}

func TestNormalizeAction(t *testing.T) {
	cases := map[string]string{
		"Create":   "created",
		"edited":   "updated",
		" REMOVE ": "deleted",
		"sent":     "appended",
		"request":  "requested",
		"liked":    "liked",
	}
	for input, expected := range cases {
		if actual := NormalizeAction(input); actual != expected {
			t.Fatalf("NormalizeAction(%q) expected %q got %q", input, expected, actual)
		}
	}
}
