package chat

import (
	"regexp"
	"strings"
)

// Phrase-pattern sets for intent classification. Matching is case
// insensitive keyword/phrase membership, not full NLP.
var (
	noPolicyPatterns = compileAll(
		`\bno policy\b`,
		`\bdon'?t have (a )?policy\b`,
		`\bhaven'?t (got )?(a )?policy\b`,
		`\bneed (a )?new policy\b`,
		`\bbook (a )?policy\b`,
	)

	planDiscoveryPatterns = compileAll(
		`\b(show|list|view).*(plans|products|policies)\b`,
		`\bavailable (plans|products|insurance)\b`,
		`\b(plan|product) options\b`,
	)

	purchasePatterns = compileAll(
		`\bbuy\b`,
		`\bpurchase\b`,
		`\bbook\b`,
		`\bget me\b`,
	)

	addonPatterns = compileAll(
		`\badd[- ]?ons?\b`,
		`\briders?\b`,
		`\bupgrade\b`,
		`\bextra cover\b`,
	)

	policyTokenPattern = regexp.MustCompile(`\b[A-Za-z]{2,6}[0-9]{3,12}\b`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, message string) bool {
	lowered := strings.ToLower(message)
	for _, p := range patterns {
		if p.MatchString(lowered) {
			return true
		}
	}
	return false
}

func isBookingIntent(message string) bool  { return matchesAny(noPolicyPatterns, message) }
func isPlanDiscovery(message string) bool  { return matchesAny(planDiscoveryPatterns, message) }
func isPurchaseIntent(message string) bool { return matchesAny(purchasePatterns, message) }
func isAddonQuery(message string) bool     { return matchesAny(addonPatterns, message) }

// extractPolicyToken pulls the first policy-number-shaped token (2-6 letters
// followed by 3-12 digits) out of the message, normalized to uppercase.
func extractPolicyToken(message string) string {
	match := policyTokenPattern.FindString(message)
	if match == "" {
		return ""
	}
	return strings.ToUpper(match)
}
