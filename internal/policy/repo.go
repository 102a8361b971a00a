package policy

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/insure-assist/insure-assist/internal/catalog"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// FindByNumber loads a policy with its coverage detail, owner, and addon
// links by normalized policy number. Returns nil when not found.
func (r *Repo) FindByNumber(ctx context.Context, policyNumber string) (*Policy, error) {
	var p Policy
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Coverage").
		Preload("Addons").
		Preload("Addons.Addon").
		Where("policy_number = ?", NormalizeNumber(policyNumber)).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListByUser returns all of a user's policies ordered by policy number.
func (r *Repo) ListByUser(ctx context.Context, userID uint64) ([]Policy, error) {
	var policies []Policy
	if err := r.db.WithContext(ctx).
		Preload("Coverage").
		Preload("Addons").
		Preload("Addons.Addon").
		Where("user_id = ?", userID).
		Order("policy_number ASC").
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// ListActiveByUser returns the user's non-expired policies.
func (r *Repo) ListActiveByUser(ctx context.Context, userID uint64) ([]Policy, error) {
	policies, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	active := policies[:0]
	for _, p := range policies {
		if !IsExpired(&p) {
			active = append(active, p)
		}
	}
	return active, nil
}

// Exists reports whether a policy number is already taken.
func (r *Repo) Exists(ctx context.Context, policyNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Policy{}).
		Where("policy_number = ?", policyNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists a policy, its coverage detail, and its addon links as one
// transaction. Either all three land or none do.
func (r *Repo) Create(ctx context.Context, p *Policy, coverage *CoverageDetail, links []catalog.PolicyAddon) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if err := tx.Create(coverage).Error; err != nil {
			return err
		}
		for i := range links {
			if err := tx.Create(&links[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NormalizeNumber uppercases and trims a policy reference.
func NormalizeNumber(policyNumber string) string {
	return strings.ToUpper(strings.TrimSpace(policyNumber))
}
