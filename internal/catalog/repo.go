package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ListActiveProducts returns active products ordered by insurance type
// ascending, then premium ascending.
func (r *Repo) ListActiveProducts(ctx context.Context) ([]InsuranceProduct, error) {
	var products []InsuranceProduct
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("insurance_type ASC").
		Order("premium ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListActiveAddons returns active addon packs ordered by insurance type
// ascending, then premium ascending.
func (r *Repo) ListActiveAddons(ctx context.Context) ([]AddonPack, error) {
	var addons []AddonPack
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("insurance_type ASC").
		Order("addon_premium ASC").
		Find(&addons).Error; err != nil {
		return nil, err
	}
	return addons, nil
}

// FindProduct looks up an active product by normalized code. Returns nil
// when no active product carries the code.
func (r *Repo) FindProduct(ctx context.Context, code string) (*InsuranceProduct, error) {
	var product InsuranceProduct
	err := r.db.WithContext(ctx).
		Where("product_code = ? AND is_active = ?", strings.ToUpper(strings.TrimSpace(code)), true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindAddons returns the active addon packs matching both the requested
// codes and the given insurance type. Codes that match nothing are simply
// absent from the result; callers decide how to report them.
func (r *Repo) FindAddons(ctx context.Context, codes []string, insuranceType string) ([]AddonPack, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var addons []AddonPack
	if err := r.db.WithContext(ctx).
		Where("addon_code IN ? AND insurance_type = ? AND is_active = ?", codes, insuranceType, true).
		Find(&addons).Error; err != nil {
		return nil, err
	}
	return addons, nil
}

// RecommendedAddons returns up to topK active addons for the insurance
// type, cheapest first.
func (r *Repo) RecommendedAddons(ctx context.Context, insuranceType string, topK int) ([]AddonPack, error) {
	if topK <= 0 {
		topK = 3
	}
	var addons []AddonPack
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND insurance_type = ?", true, strings.ToLower(strings.TrimSpace(insuranceType))).
		Order("addon_premium ASC").
		Limit(topK).
		Find(&addons).Error; err != nil {
		return nil, err
	}
	return addons, nil
}
