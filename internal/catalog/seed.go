package catalog

import "context"

var DefaultProducts = []InsuranceProduct{
	{
		ProductCode:   "HLT_CORE",
		Name:          "Health Core",
		InsuranceType: "health",
		CoverageLimit: 500000,
		Premium:       12000,
		TenureMonths:  12,
		Description:   "Comprehensive hospitalization and daycare cover for individuals.",
		IsActive:      true,
	},
	{
		ProductCode:   "HLT_FAMILY_PLUS",
		Name:          "Health Family Plus",
		InsuranceType: "health",
		CoverageLimit: 1000000,
		Premium:       24000,
		TenureMonths:  12,
		Description:   "Family floater plan with maternity and diagnostics benefits.",
		IsActive:      true,
	},
	{
		ProductCode:   "VEH_SMART_DRIVE",
		Name:          "Vehicle Smart Drive",
		InsuranceType: "vehicle",
		CoverageLimit: 300000,
		Premium:       18000,
		TenureMonths:  12,
		Description:   "Own damage and third-party liability with personal accident cover.",
		IsActive:      true,
	},
	{
		ProductCode:   "VEH_MAX_GUARD",
		Name:          "Vehicle Max Guard",
		InsuranceType: "vehicle",
		CoverageLimit: 600000,
		Premium:       29000,
		TenureMonths:  12,
		Description:   "Premium vehicle protection with wider claim assistance services.",
		IsActive:      true,
	},
	{
		ProductCode:   "LIF_GUARD_TERM",
		Name:          "Life Guard Term",
		InsuranceType: "life",
		CoverageLimit: 1500000,
		Premium:       26000,
		TenureMonths:  12,
		Description:   "Affordable life protection with annual renewal flexibility.",
		IsActive:      true,
	},
	{
		ProductCode:   "LIF_WEALTH_SHIELD",
		Name:          "Life Wealth Shield",
		InsuranceType: "life",
		CoverageLimit: 2500000,
		Premium:       41000,
		TenureMonths:  12,
		Description:   "Higher sum insured for long-term life and family security.",
		IsActive:      true,
	},
}

var DefaultAddons = []AddonPack{
	{
		AddonCode:     "ADD_HEALTH_DENTAL",
		Name:          "Dental Care Pack",
		InsuranceType: "health",
		AddonPremium:  1800,
		CoverageBoost: 50000,
		Description:   "Extends coverage for consultations, cleaning, and selected procedures.",
		IsActive:      true,
	},
	{
		AddonCode:     "ADD_HEALTH_CRITICAL",
		Name:          "Critical Illness Pack",
		InsuranceType: "health",
		AddonPremium:  3600,
		CoverageBoost: 150000,
		Description:   "Lump-sum support for listed major illnesses and prolonged treatment.",
		IsActive:      true,
	},
	{
		AddonCode:     "ADD_VEH_ROADSIDE",
		Name:          "Roadside Assistance",
		InsuranceType: "vehicle",
		AddonPremium:  1200,
		CoverageBoost: 0,
		Description:   "24x7 towing, breakdown support, and emergency on-road help.",
		IsActive:      true,
	},
	{
		AddonCode:     "ADD_VEH_ENGINE_PROTECT",
		Name:          "Engine Protect Pack",
		InsuranceType: "vehicle",
		AddonPremium:  2200,
		CoverageBoost: 50000,
		Description:   "Covers engine and gearbox repair costs due to water ingress damage.",
		IsActive:      true,
	},
	{
		AddonCode:     "ADD_LIFE_ACCIDENT_RIDER",
		Name:          "Accidental Death Rider",
		InsuranceType: "life",
		AddonPremium:  2600,
		CoverageBoost: 250000,
		Description:   "Additional payout if death occurs due to covered accident.",
		IsActive:      true,
	},
	{
		AddonCode:     "ADD_LIFE_WAIVER_PREMIUM",
		Name:          "Waiver of Premium",
		InsuranceType: "life",
		AddonPremium:  2100,
		CoverageBoost: 0,
		Description:   "Future premiums waived in qualifying disability scenarios.",
		IsActive:      true,
	},
}

// EnsureDefaults seeds the catalog tables when they are empty.
func (r *Repo) EnsureDefaults(ctx context.Context) error {
	var productCount int64
	if err := r.db.WithContext(ctx).Model(&InsuranceProduct{}).Count(&productCount).Error; err != nil {
		return err
	}
	if productCount == 0 {
		products := append([]InsuranceProduct(nil), DefaultProducts...)
		if err := r.db.WithContext(ctx).Create(&products).Error; err != nil {
			return err
		}
	}

	var addonCount int64
	if err := r.db.WithContext(ctx).Model(&AddonPack{}).Count(&addonCount).Error; err != nil {
		return err
	}
	if addonCount == 0 {
		addons := append([]AddonPack(nil), DefaultAddons...)
		if err := r.db.WithContext(ctx).Create(&addons).Error; err != nil {
			return err
		}
	}
	return nil
}
