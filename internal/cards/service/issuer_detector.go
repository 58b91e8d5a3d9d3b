// Package service provides card-domain services that need no persistence.
package service

import "regexp"

// detectionRule pairs a card network name with its IIN/BIN prefix pattern.
// Rules are ordered: the more specific test-range prefixes come before the
// generic network ranges that contain them.
type detectionRule struct {
	network string
	pattern *regexp.Regexp
}

// Card network detection rules based on IIN/BIN ranges.
// https://docs.stripe.com/testing#cards
var detectionRules = []detectionRule{
	{"Visa (debit)", regexp.MustCompile(`^400005`)},
	{"Visa", regexp.MustCompile(`^4\d{12,18}$`)},

	{"Mastercard (prepaid)", regexp.MustCompile(`^510510`)},
	{"Mastercard (debit)", regexp.MustCompile(`^520082`)},
	{"Mastercard (2-series)", regexp.MustCompile(`^2(?:2[2-9][0-9]|[3-6][0-9]{2}|7[01][0-9]|720)`)},
	{"Mastercard", regexp.MustCompile(`^5[1-5]`)},

	{"American Express", regexp.MustCompile(`^3[47]`)},

	{"BCcard and DinaCard", regexp.MustCompile(`^6555`)},

	{"Discover (debit)", regexp.MustCompile(`^601198`)},
	{"Discover", regexp.MustCompile(`^(?:6011|65|64[4-9])`)},

	{"Diners Club (14-digit card)", regexp.MustCompile(`^36\d{12}$`)},
	{"Diners Club", regexp.MustCompile(`^3(?:0[0-5]|[68]\d)`)},

	{"JCB", regexp.MustCompile(`^(?:2131|1800)\d{11}$|^35\d{14}$`)},

	{"UnionPay (19-digit card)", regexp.MustCompile(`^62\d{17}$`)},
	{"UnionPay (debit)", regexp.MustCompile(`^620000`)},
	{"UnionPay", regexp.MustCompile(`^62`)},
}

var nonDigits = regexp.MustCompile(`\D`)

// DetectCardNetwork returns the card network name for a card number based on
// its IIN/BIN prefix, or "Unknown" when no rule matches. Non-digit characters
// are stripped before matching.
func DetectCardNetwork(raw string) string {
	num := nonDigits.ReplaceAllString(raw, "")
	if num == "" {
		return "Unknown"
	}

	for _, rule := range detectionRules {
		if rule.pattern.MatchString(num) {
			return rule.network
		}
	}

	return "Unknown"
}
