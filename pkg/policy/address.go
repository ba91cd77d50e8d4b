// Package policy implements addressing and inbox lifecycle rules.
package policy

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/easytempinbox/easytempinbox/pkg/config"
)

// ExtractInboxID derives the inbox identifier from a To header: the local
// part of the first address, lower-cased, with enclosing angle brackets
// stripped. A header with no @ is treated as a bare inbox ID.
func ExtractInboxID(toHeader string) string {
	candidate := toHeader
	if addrs, err := mail.ParseAddressList(toHeader); err == nil && len(addrs) > 0 {
		candidate = addrs[0].Address
	}
	if i := strings.IndexByte(candidate, '@'); i >= 0 {
		candidate = candidate[:i]
	}
	candidate = strings.Trim(candidate, "<> ")
	return strings.ToLower(candidate)
}

// ResolveTTL validates a requested inbox lifetime against the configured
// bounds. A zero request selects the default; out of range is rejected.
func ResolveTTL(requested time.Duration, cfg config.Inbox) (time.Duration, error) {
	if requested == 0 {
		return cfg.DefaultTTL, nil
	}
	if requested < cfg.MinTTL || requested > cfg.MaxTTL {
		return 0, fmt.Errorf("ttl must be between %v and %v seconds",
			int64(cfg.MinTTL.Seconds()), int64(cfg.MaxTTL.Seconds()))
	}
	return requested, nil
}
