package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all HTML from user-entered catalog text. Policies are
// safe for concurrent use once constructed.
var strictPolicy = bluemonday.StrictPolicy()

func sanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
