// Package redact scrubs personally identifiable information from free-form
// query text before it is persisted to the audit log.
package redact

import "regexp"

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// Phone numbers with at least 7 digits, tolerating separators and a
	// leading country code.
	phoneRe = regexp.MustCompile(`\+?\d[\d\-\s().]{6,}\d`)

	// Card-like digit runs: 13-19 digits with optional separators.
	cardRe = regexp.MustCompile(`\b(?:\d[ \-]?){13,19}\b`)

	ipRe = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
)

const (
	emailMask = "[email]"
	phoneMask = "[phone]"
	cardMask  = "[card]"
	ipMask    = "[ip]"
)

// Query replaces emails, phone numbers, card-like digit runs and IP
// addresses with placeholder tokens. The result is safe to persist.
// Order matters: the looser phone pattern runs last so it cannot swallow
// card numbers or IP addresses.
func Query(text string) string {
	if text == "" {
		return text
	}

	text = emailRe.ReplaceAllString(text, emailMask)
	text = cardRe.ReplaceAllString(text, cardMask)
	text = ipRe.ReplaceAllString(text, ipMask)
	text = phoneRe.ReplaceAllString(text, phoneMask)
	return text
}
