package chat

import "testing"

func TestIntentClassification(t *testing.T) {
	cases := []struct {
		message  string
		booking  bool
		plans    bool
		purchase bool
		addon    bool
	}{
		{message: "I have no policy", booking: true},
		{message: "I don't have a policy", booking: true},
		{message: "need a new policy for my car", booking: true},
		{message: "book a policy for me", booking: true, purchase: true},
		{message: "show available plans", plans: true},
		{message: "list your products", plans: true},
		{message: "what plan options do you have", plans: true},
		{message: "buy HLT_CORE", purchase: true},
		{message: "I want to purchase vehicle insurance", purchase: true},
		{message: "get me the family plan", purchase: true},
		{message: "what add-ons are available", addon: true},
		{message: "any riders for my policy", addon: true},
		{message: "can I upgrade my cover", addon: true},
		{message: "do I get extra cover for dental", addon: true},
		{message: "what is my deductible"},
		{message: "is hospitalization covered"},
	}

	for _, tc := range cases {
		if got := isBookingIntent(tc.message); got != tc.booking {
			t.Errorf("isBookingIntent(%q) = %v, want %v", tc.message, got, tc.booking)
		}
		if got := isPlanDiscovery(tc.message); got != tc.plans {
			t.Errorf("isPlanDiscovery(%q) = %v, want %v", tc.message, got, tc.plans)
		}
		if got := isPurchaseIntent(tc.message); got != tc.purchase {
			t.Errorf("isPurchaseIntent(%q) = %v, want %v", tc.message, got, tc.purchase)
		}
		if got := isAddonQuery(tc.message); got != tc.addon {
			t.Errorf("isAddonQuery(%q) = %v, want %v", tc.message, got, tc.addon)
		}
	}
}

func TestExtractPolicyToken(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"my policy is HLT123456", "HLT123456"},
		{"check veh987654 status", "VEH987654"},
		{"POL123 works too", "POL123"},
		{"first HLT111111 then VEH222222", "HLT111111"},
		{"just numbers 123456", ""},
		{"just letters ABCDEF", ""},
		{"A1 is too short", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := extractPolicyToken(tc.message); got != tc.want {
			t.Errorf("extractPolicyToken(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}
