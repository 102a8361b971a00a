package catalog

import "time"

type InsuranceProduct struct {
	ProductID     uint64  `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductCode   string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"product_code"`
	Name          string  `gorm:"type:varchar(140);not null" json:"name"`
	InsuranceType string  `gorm:"type:varchar(50);index;not null" json:"insurance_type"`
	CoverageLimit float64 `gorm:"not null" json:"coverage_limit"`
	Premium       float64 `gorm:"not null" json:"premium"`
	TenureMonths  int     `gorm:"not null;default:12" json:"tenure_months"`
	Description   string  `gorm:"type:text" json:"description"`
	IsActive      bool    `gorm:"not null;default:true" json:"-"`
}

func (InsuranceProduct) TableName() string { return "insurance_products" }

type AddonPack struct {
	AddonID       uint64  `gorm:"primaryKey;autoIncrement" json:"-"`
	AddonCode     string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"addon_code"`
	Name          string  `gorm:"type:varchar(140);not null" json:"name"`
	InsuranceType string  `gorm:"type:varchar(50);index;not null" json:"insurance_type"`
	AddonPremium  float64 `gorm:"not null" json:"addon_premium"`
	CoverageBoost float64 `gorm:"not null;default:0" json:"coverage_boost"`
	Description   string  `gorm:"type:text" json:"description"`
	IsActive      bool    `gorm:"not null;default:true" json:"-"`
}

func (AddonPack) TableName() string { return "addon_packs" }

// PolicyAddon links a policy to an addon pack. The premium is frozen at
// purchase time and must not follow later catalog price changes.
type PolicyAddon struct {
	PolicyAddonID uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	PolicyNumber  string    `gorm:"type:varchar(50);index;not null;uniqueIndex:uq_policy_addon,priority:1" json:"policy_number"`
	AddonID       uint64    `gorm:"index;not null;uniqueIndex:uq_policy_addon,priority:2" json:"-"`
	AddonPremium  float64   `gorm:"not null" json:"addon_premium"`
	AddedOn       time.Time `gorm:"autoCreateTime" json:"added_on"`

	Addon *AddonPack `gorm:"foreignKey:AddonID" json:"-"`
}

func (PolicyAddon) TableName() string { return "policy_addons" }
