package env

import "strings"

// simpleAtob parses the handful of truthy/falsy spellings the host
// VCS itself accepts for boolean config/env values, falling back to dv
// for anything else.
func simpleAtob(s string, dv bool) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	return dv
}
