// ABOUTME: Tests for sensitive-content masking and the contact allow-list
package core

import "testing"

func TestMaskSensitiveContent(t *testing.T) {
	f := NewPrivacyFilter(nil)

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"card number", "my card is 4111111111111111 ok", "my card is [REDACTED] ok"},
		{"ssn", "ssn 123456789 here", "ssn [REDACTED] here"},
		{"email", "mail me at dana@example.com", "mail me at [REDACTED]"},
		{"clean text", "see you at the cabin", "see you at the cabin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Mask(tc.input); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestContactAllowList(t *testing.T) {
	open := NewPrivacyFilter(nil)
	if !open.ContactAllowed("Anyone") {
		t.Error("empty allow-list should permit every contact")
	}

	restricted := NewPrivacyFilter([]string{"Dana"})
	if !restricted.ContactAllowed("Dana") {
		t.Error("listed contact should be allowed")
	}
	if restricted.ContactAllowed("Sam") {
		t.Error("unlisted contact should be denied")
	}
}
