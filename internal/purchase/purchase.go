package purchase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/insure-assist/insure-assist/internal/catalog"
	"github.com/insure-assist/insure-assist/internal/policy"
)

// ErrInvalidProduct rejects a purchase whose product code matches no active
// product.
var ErrInvalidProduct = errors.New("invalid product code")

// ErrNumberExhausted means policy number generation ran out of attempts.
// This is a systemic failure, not bad user input.
var ErrNumberExhausted = errors.New("unable to generate a unique policy number")

// InvalidAddonError names every requested addon code that is not an active
// addon of the product's insurance type. All missing codes are reported
// together; partial addon application is not allowed.
type InvalidAddonError struct {
	Codes []string
}

func (e *InvalidAddonError) Error() string {
	return fmt.Sprintf("invalid add-on code(s): %s", strings.Join(e.Codes, ", "))
}

// Engine validates a product plus addon selection against the catalog and
// materializes a new policy as one atomic unit.
type Engine struct {
	policies    *policy.Repo
	catalog     *catalog.Repo
	maxAttempts int
}

func NewEngine(policies *policy.Repo, catalogRepo *catalog.Repo, maxAttempts int) *Engine {
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	return &Engine{policies: policies, catalog: catalogRepo, maxAttempts: maxAttempts}
}

func policyPrefix(insuranceType string) string {
	switch strings.ToLower(insuranceType) {
	case "health":
		return "HLT"
	case "vehicle":
		return "VEH"
	case "life":
		return "LIF"
	default:
		return "POL"
	}
}

func defaultCoverageTemplate(insuranceType string) (items, exclusions string, deductible float64) {
	switch strings.ToLower(strings.TrimSpace(insuranceType)) {
	case "health":
		return "Hospitalization; ICU; Diagnostics; Daycare procedures",
			"Cosmetic and experimental procedures",
			5000
	case "vehicle":
		return "Own damage; Third-party liability; Personal accident",
			"Drunk driving; Illegal modifications",
			2000
	case "life":
		return "Natural death; Accidental death support",
			"Fraud declaration; Suicide waiting period",
			0
	default:
		return "Core insurance coverage", "Policy-specific exclusions", 0
	}
}

func (e *Engine) generatePolicyNumber(ctx context.Context, insuranceType string) (string, error) {
	prefix := policyPrefix(insuranceType)
	for i := 0; i < e.maxAttempts; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s%d", prefix, 100000+n.Int64())
		exists, err := e.policies.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrNumberExhausted
}

// Buy purchases a product with optional addon packs for a user and returns
// the fully reloaded, serialized policy.
func (e *Engine) Buy(ctx context.Context, userID uint64, productCode string, addonCodes []string) (policy.SerializedPolicy, error) {
	var zero policy.SerializedPolicy

	product, err := e.catalog.FindProduct(ctx, productCode)
	if err != nil {
		return zero, err
	}
	if product == nil {
		return zero, ErrInvalidProduct
	}

	requested := make([]string, 0, len(addonCodes))
	for _, code := range addonCodes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			requested = append(requested, code)
		}
	}

	var selected []catalog.AddonPack
	if len(requested) > 0 {
		selected, err = e.catalog.FindAddons(ctx, requested, product.InsuranceType)
		if err != nil {
			return zero, err
		}
		found := make(map[string]bool, len(selected))
		for _, a := range selected {
			found[a.AddonCode] = true
		}
		var missing []string
		for _, code := range requested {
			if !found[code] {
				missing = append(missing, code)
			}
		}
		if len(missing) > 0 {
			return zero, &InvalidAddonError{Codes: missing}
		}
	}

	var coverageBoost, addonPremium float64
	for _, a := range selected {
		coverageBoost += a.CoverageBoost
		addonPremium += a.AddonPremium
	}

	now := time.Now().UTC()
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tenure := product.TenureMonths
	if tenure < 1 {
		tenure = 1
	}
	endDate := startDate.AddDate(0, 0, 30*tenure)

	policyNumber, err := e.generatePolicyNumber(ctx, product.InsuranceType)
	if err != nil {
		return zero, err
	}

	newPolicy := &policy.Policy{
		PolicyNumber:  policyNumber,
		UserID:        userID,
		InsuranceType: product.InsuranceType,
		CoverageLimit: product.CoverageLimit + coverageBoost,
		Premium:       product.Premium + addonPremium,
		Status:        "active",
		StartDate:     startDate,
		EndDate:       endDate,
	}

	items, exclusions, deductible := defaultCoverageTemplate(product.InsuranceType)
	if len(selected) > 0 {
		names := make([]string, 0, len(selected))
		for _, a := range selected {
			names = append(names, a.Name)
		}
		items = fmt.Sprintf("%s; Add-ons: %s", items, strings.Join(names, ", "))
	}
	coverage := &policy.CoverageDetail{
		PolicyNumber:  policyNumber,
		CoverageItems: items,
		Exclusions:    exclusions,
		Deductible:    deductible,
	}

	links := make([]catalog.PolicyAddon, 0, len(selected))
	for _, a := range selected {
		links = append(links, catalog.PolicyAddon{
			PolicyNumber: policyNumber,
			AddonID:      a.AddonID,
			AddonPremium: a.AddonPremium,
		})
	}

	if err := e.policies.Create(ctx, newPolicy, coverage, links); err != nil {
		return zero, err
	}

	created, err := e.policies.FindByNumber(ctx, policyNumber)
	if err != nil {
		return zero, err
	}
	if created == nil {
		return zero, fmt.Errorf("purchase: created policy %s not found", policyNumber)
	}
	return policy.Serialize(created), nil
}
