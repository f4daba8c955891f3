// Package format holds the fixed set of string format predicates referenced
// by the "format" keyword. The set is closed: there is no registration API,
// and an unknown format name is a no-op for validation.
package format

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Predicate reports whether s satisfies a format.
type Predicate func(s string) bool

// Format names.
const (
	Email    = "email"
	UUID     = "uuid"
	IPv4     = "ipv4"
	URI      = "uri"
	DateTime = "date-time"
	Emoji    = "emoji"
)

var registry = map[string]Predicate{
	Email:    IsEmail,
	UUID:     IsUUID,
	IPv4:     IsIPv4,
	URI:      IsURI,
	DateTime: IsDateTime,
	Emoji:    IsEmoji,
}

// Lookup returns the predicate registered under name.
func Lookup(name string) (Predicate, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names lists the known format names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Check applies the named format to s. Unknown names always pass.
func Check(name, s string) bool {
	p, ok := registry[name]
	if !ok {
		return true
	}
	return p(s)
}

// Pragmatic, not RFC 5322. Unanchored: a local@domain.tld run anywhere in s
// matches, so "name <a@b.co>" and "a b@c.d" both pass.
var emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)

// IsEmail reports whether s contains something shaped like local@domain.tld.
func IsEmail(s string) bool { return emailRe.MatchString(s) }

// IsUUID accepts the canonical 8-4-4-4-12 hex form in either case.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsIPv4 accepts four dot-separated decimal octets in 0..255. Leading zeros
// are not rejected.
func IsIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return false
		}
		for i := 0; i < len(p); i++ {
			if p[i] < '0' || p[i] > '9' {
				return false
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// IsURI accepts absolute URIs (a scheme is required).
func IsURI(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// IsDateTime accepts anything that parses as a calendar date or timestamp,
// including bare dates such as 2024-01-31.
func IsDateTime(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := cast.ToTimeE(s)
	return err == nil
}

// IsEmoji reports whether s is one or more Extended_Pictographic code points
// and nothing else. Mixed content, modifiers and variation selectors fail.
func IsEmoji(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.Is(ExtendedPictographic, r) {
			return false
		}
	}
	return true
}
