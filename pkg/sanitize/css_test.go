package sanitize

import (
	"testing"
)

func TestStyle(t *testing.T) {
	testCases := []struct {
		input, want string
	}{
		{"", ""},
		{
			"color: red",
			"color: red;",
		},
		{
			"color: red;",
			"color: red;",
		},
		{
			"COLOR: red",
			"COLOR: red;",
		},
		{
			"background-color: black; color: white",
			"background-color: black;color: white;",
		},
		{
			"background-color: black; position: fixed; color: white",
			"background-color: black;color: white;",
		},
		{
			"position: absolute",
			"",
		},
		{
			"background: url(http://evil.example/x)",
			"",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := Style(tc.input)
			if got != tc.want {
				t.Errorf("got: %q, want: %q, input: %q", got, tc.want, tc.input)
			}
		})
	}
}
