// ABOUTME: Privacy filter masking sensitive content before indexing
// ABOUTME: Pattern-based redaction plus a contact allow-list check
package core

import "regexp"

// PrivacyFilter masks sensitive substrings and gates contact access.
// The zero allow-list permits every contact.
type PrivacyFilter struct {
	patterns        []*regexp.Regexp
	allowedContacts map[string]bool
}

var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{16}\b`),                                         // credit card numbers
	regexp.MustCompile(`\b\d{9}\b`),                                          // SSNs
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), // emails
}

// NewPrivacyFilter creates a filter. allowedContacts nil or empty means
// no contact restriction.
func NewPrivacyFilter(allowedContacts []string) *PrivacyFilter {
	f := &PrivacyFilter{patterns: sensitivePatterns}
	if len(allowedContacts) > 0 {
		f.allowedContacts = make(map[string]bool, len(allowedContacts))
		for _, c := range allowedContacts {
			f.allowedContacts[c] = true
		}
	}
	return f
}

// Mask replaces sensitive substrings with a redaction marker.
func (f *PrivacyFilter) Mask(text string) string {
	for _, p := range f.patterns {
		text = p.ReplaceAllString(text, "[REDACTED]")
	}
	return text
}

// ContactAllowed reports whether the contact's content may be surfaced.
func (f *PrivacyFilter) ContactAllowed(contact string) bool {
	if f.allowedContacts == nil {
		return true
	}
	return f.allowedContacts[contact]
}
