package policy

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// today returns the current UTC calendar date. Expiry is always compared
// against UTC, not the server's local zone.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// IsExpired derives expiry on every call: either the stored status says so
// or the end date has passed. Never cached on the entity.
func IsExpired(p *Policy) bool {
	if strings.EqualFold(p.Status, "expired") {
		return true
	}
	if p.EndDate.IsZero() {
		return false
	}
	return p.EndDate.Before(today())
}

type SerializedCoverage struct {
	CoverageItems string  `json:"coverage_items"`
	Exclusions    string  `json:"exclusions"`
	Deductible    float64 `json:"deductible"`
}

type SerializedAddon struct {
	AddonCode     string  `json:"addon_code"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	AddonPremium  float64 `json:"addon_premium"`
	CoverageBoost float64 `json:"coverage_boost"`
}

type SerializedPolicy struct {
	PolicyNumber    string             `json:"policy_number"`
	UserID          uint64             `json:"user_id"`
	UserName        string             `json:"user_name,omitempty"`
	InsuranceType   string             `json:"insurance_type"`
	CoverageLimit   float64            `json:"coverage_limit"`
	Premium         float64            `json:"premium"`
	Status          string             `json:"status"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	IsExpired       bool               `json:"is_expired"`
	CoverageDetails SerializedCoverage `json:"coverage_details"`
	Addons          []SerializedAddon  `json:"addons"`
}

// Serialize flattens a policy with its children into the API shape. The
// status field reflects derived expiry, not just the stored column.
func Serialize(p *Policy) SerializedPolicy {
	expired := IsExpired(p)
	status := p.Status
	if expired {
		status = "expired"
	}

	out := SerializedPolicy{
		PolicyNumber:  p.PolicyNumber,
		UserID:        p.UserID,
		InsuranceType: p.InsuranceType,
		CoverageLimit: p.CoverageLimit,
		Premium:       p.Premium,
		Status:        status,
		IsExpired:     expired,
		Addons:        []SerializedAddon{},
	}
	if p.User != nil {
		out.UserName = p.User.Name
	}
	if !p.StartDate.IsZero() {
		out.StartDate = p.StartDate.Format(dateLayout)
	}
	if !p.EndDate.IsZero() {
		out.EndDate = p.EndDate.Format(dateLayout)
	}
	if p.Coverage != nil {
		out.CoverageDetails = SerializedCoverage{
			CoverageItems: p.Coverage.CoverageItems,
			Exclusions:    p.Coverage.Exclusions,
			Deductible:    p.Coverage.Deductible,
		}
	}
	for _, link := range p.Addons {
		if link.Addon == nil {
			continue
		}
		out.Addons = append(out.Addons, SerializedAddon{
			AddonCode:     link.Addon.AddonCode,
			Name:          link.Addon.Name,
			Description:   link.Addon.Description,
			AddonPremium:  link.AddonPremium,
			CoverageBoost: link.Addon.CoverageBoost,
		})
	}
	return out
}

// FormatForPrompt renders the serialized policy as the fixed-format text
// block embedded in the generation prompt.
func FormatForPrompt(sp SerializedPolicy) string {
	addonsText := "None"
	if len(sp.Addons) > 0 {
		parts := make([]string, 0, len(sp.Addons))
		for _, a := range sp.Addons {
			parts = append(parts, fmt.Sprintf("%s (%s)", a.Name, a.AddonCode))
		}
		addonsText = strings.Join(parts, "; ")
	}

	return fmt.Sprintf(
		"Policy Number: %s\n"+
			"Insurance Type: %s\n"+
			"Coverage Limit: %g\n"+
			"Premium: %g\n"+
			"Status: %s\n"+
			"Policy Start Date: %s\n"+
			"Policy End Date: %s\n"+
			"Coverage Items: %s\n"+
			"Exclusions: %s\n"+
			"Deductible: %g\n"+
			"Add-on Packs: %s",
		sp.PolicyNumber,
		sp.InsuranceType,
		sp.CoverageLimit,
		sp.Premium,
		sp.Status,
		sp.StartDate,
		sp.EndDate,
		sp.CoverageDetails.CoverageItems,
		sp.CoverageDetails.Exclusions,
		sp.CoverageDetails.Deductible,
		addonsText,
	)
}
