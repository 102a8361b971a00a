package policy

import (
	"time"

	"github.com/insure-assist/insure-assist/internal/catalog"
	"github.com/insure-assist/insure-assist/internal/models"
)

type Policy struct {
	PolicyNumber  string    `gorm:"type:varchar(50);primaryKey" json:"policy_number"`
	UserID        uint64    `gorm:"index;not null" json:"user_id"`
	InsuranceType string    `gorm:"type:varchar(50);not null" json:"insurance_type"`
	CoverageLimit float64   `gorm:"not null" json:"coverage_limit"`
	Premium       float64   `gorm:"not null" json:"premium"`
	Status        string    `gorm:"type:varchar(30);not null" json:"status"`
	StartDate     time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null" json:"end_date"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`

	User     *models.User          `gorm:"foreignKey:UserID" json:"-"`
	Coverage *CoverageDetail       `gorm:"foreignKey:PolicyNumber;references:PolicyNumber" json:"-"`
	Addons   []catalog.PolicyAddon `gorm:"foreignKey:PolicyNumber;references:PolicyNumber" json:"-"`
}

func (Policy) TableName() string { return "policies" }

// CoverageDetail is the one-to-one coverage text child of a policy.
type CoverageDetail struct {
	PolicyNumber  string  `gorm:"type:varchar(50);primaryKey" json:"policy_number"`
	CoverageItems string  `gorm:"type:text;not null" json:"coverage_items"`
	Exclusions    string  `gorm:"type:text;not null" json:"exclusions"`
	Deductible    float64 `gorm:"not null" json:"deductible"`
}

func (CoverageDetail) TableName() string { return "coverage" }
