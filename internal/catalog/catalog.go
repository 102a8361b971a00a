package catalog

import "context"

// AddonView is the serialized shape of an addon pack.
type AddonView struct {
	AddonCode     string  `json:"addon_code"`
	Name          string  `json:"name"`
	AddonPremium  float64 `json:"addon_premium"`
	CoverageBoost float64 `json:"coverage_boost"`
	Description   string  `json:"description"`
}

// ProductView is the serialized shape of a product with the addon packs
// available for its insurance type.
type ProductView struct {
	ProductCode   string      `json:"product_code"`
	Name          string      `json:"name"`
	InsuranceType string      `json:"insurance_type"`
	CoverageLimit float64     `json:"coverage_limit"`
	Premium       float64     `json:"premium"`
	TenureMonths  int         `json:"tenure_months"`
	Description   string      `json:"description"`
	Addons        []AddonView `json:"addons"`
}

func addonView(a AddonPack) AddonView {
	return AddonView{
		AddonCode:     a.AddonCode,
		Name:          a.Name,
		AddonPremium:  a.AddonPremium,
		CoverageBoost: a.CoverageBoost,
		Description:   a.Description,
	}
}

// ListCatalog returns all active products with their addon packs grouped by
// insurance type. Ordering follows the repository queries (type asc, premium
// asc) so repeated calls with no mutation return identical listings.
func (r *Repo) ListCatalog(ctx context.Context) ([]ProductView, error) {
	products, err := r.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	addons, err := r.ListActiveAddons(ctx)
	if err != nil {
		return nil, err
	}

	addonsByType := make(map[string][]AddonView)
	for _, a := range addons {
		addonsByType[a.InsuranceType] = append(addonsByType[a.InsuranceType], addonView(a))
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			ProductCode:   p.ProductCode,
			Name:          p.Name,
			InsuranceType: p.InsuranceType,
			CoverageLimit: p.CoverageLimit,
			Premium:       p.Premium,
			TenureMonths:  p.TenureMonths,
			Description:   p.Description,
			Addons:        addonsByType[p.InsuranceType],
		})
	}
	return views, nil
}

// RecommendedAddonViews serializes the cheapest addons for a policy's type.
func (r *Repo) RecommendedAddonViews(ctx context.Context, insuranceType string, topK int) ([]AddonView, error) {
	addons, err := r.RecommendedAddons(ctx, insuranceType, topK)
	if err != nil {
		return nil, err
	}
	views := make([]AddonView, 0, len(addons))
	for _, a := range addons {
		views = append(views, addonView(a))
	}
	return views, nil
}
