package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/insure-assist/insure-assist/internal/catalog"
	"github.com/insure-assist/insure-assist/internal/models"
	"github.com/insure-assist/insure-assist/internal/policy"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&policy.Policy{},
		&policy.CoverageDetail{},
		&catalog.InsuranceProduct{},
		&catalog.AddonPack{},
		&catalog.PolicyAddon{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func newTestEngine(t *testing.T) (*Engine, *policy.Repo) {
	t.Helper()
	gdb := openTestDB(t)
	catalogRepo := catalog.NewRepo(gdb)
	if err := catalogRepo.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	policies := policy.NewRepo(gdb)
	return NewEngine(policies, catalogRepo, 100), policies
}

func TestBuyHealthCoreWithDentalAddon(t *testing.T) {
	engine, policies := newTestEngine(t)
	ctx := context.Background()

	sp, err := engine.Buy(ctx, 7, "HLT_CORE", []string{"add_health_dental"})
	if err != nil {
		t.Fatalf("buy: %v", err)
	}

	if !strings.HasPrefix(sp.PolicyNumber, "HLT") {
		t.Fatalf("expected HLT prefix, got %s", sp.PolicyNumber)
	}
	if len(sp.PolicyNumber) != 9 {
		t.Fatalf("expected prefix plus 6 digits, got %s", sp.PolicyNumber)
	}
	if sp.Premium != 13800 {
		t.Fatalf("expected premium 13800, got %g", sp.Premium)
	}
	if sp.CoverageLimit != 550000 {
		t.Fatalf("expected coverage limit 550000, got %g", sp.CoverageLimit)
	}
	if sp.Status != "active" || sp.IsExpired {
		t.Fatalf("expected active policy, got status=%s expired=%v", sp.Status, sp.IsExpired)
	}
	if len(sp.Addons) != 1 || sp.Addons[0].AddonCode != "ADD_HEALTH_DENTAL" {
		t.Fatalf("expected dental addon link, got %+v", sp.Addons)
	}
	if sp.Addons[0].AddonPremium != 1800 {
		t.Fatalf("expected frozen addon premium 1800, got %g", sp.Addons[0].AddonPremium)
	}
	if !strings.Contains(sp.CoverageDetails.CoverageItems, "Hospitalization") {
		t.Fatalf("expected health coverage template, got %q", sp.CoverageDetails.CoverageItems)
	}
	if !strings.Contains(sp.CoverageDetails.CoverageItems, "Add-ons: Dental Care Pack") {
		t.Fatalf("expected addon names appended, got %q", sp.CoverageDetails.CoverageItems)
	}
	if sp.CoverageDetails.Deductible != 5000 {
		t.Fatalf("expected deductible 5000, got %g", sp.CoverageDetails.Deductible)
	}

	start, err := time.Parse("2006-01-02", sp.StartDate)
	if err != nil {
		t.Fatalf("parse start date: %v", err)
	}
	end, err := time.Parse("2006-01-02", sp.EndDate)
	if err != nil {
		t.Fatalf("parse end date: %v", err)
	}
	if got := end.Sub(start); got != 360*24*time.Hour {
		t.Fatalf("expected 360-day term for 12 months tenure, got %v", got)
	}

	stored, err := policies.FindByNumber(ctx, sp.PolicyNumber)
	if err != nil || stored == nil {
		t.Fatalf("expected stored policy, got %v err %v", stored, err)
	}
	if stored.Coverage == nil {
		t.Fatal("expected coverage row created with policy")
	}
	if len(stored.Addons) != 1 {
		t.Fatalf("expected 1 addon link row, got %d", len(stored.Addons))
	}
}

func TestBuyUnknownProduct(t *testing.T) {
	engine, _ := newTestEngine(t)
	if _, err := engine.Buy(context.Background(), 1, "NOPE_123", nil); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestBuyRejectsCrossCategoryAddon(t *testing.T) {
	engine, policies := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Buy(ctx, 4, "HLT_CORE", []string{"ADD_VEH_ROADSIDE", "ADD_HEALTH_DENTAL"})
	var addonErr *InvalidAddonError
	if !errors.As(err, &addonErr) {
		t.Fatalf("expected InvalidAddonError, got %v", err)
	}
	if len(addonErr.Codes) != 1 || addonErr.Codes[0] != "ADD_VEH_ROADSIDE" {
		t.Fatalf("expected only ADD_VEH_ROADSIDE flagged, got %v", addonErr.Codes)
	}

	// nothing may land when any addon is rejected
	owned, err := policies.ListByUser(ctx, 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(owned) != 0 {
		t.Fatalf("expected no policy created, got %d", len(owned))
	}
}

func TestBuyWithoutAddons(t *testing.T) {
	engine, _ := newTestEngine(t)

	sp, err := engine.Buy(context.Background(), 2, "veh_smart_drive", nil)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !strings.HasPrefix(sp.PolicyNumber, "VEH") {
		t.Fatalf("expected VEH prefix, got %s", sp.PolicyNumber)
	}
	if sp.Premium != 18000 || sp.CoverageLimit != 300000 {
		t.Fatalf("expected base product pricing, got premium=%g coverage=%g", sp.Premium, sp.CoverageLimit)
	}
	if len(sp.Addons) != 0 {
		t.Fatalf("expected no addons, got %+v", sp.Addons)
	}
	if strings.Contains(sp.CoverageDetails.CoverageItems, "Add-ons:") {
		t.Fatalf("unexpected addon suffix in coverage items: %q", sp.CoverageDetails.CoverageItems)
	}
}

func TestPolicyNumbersAreUnique(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		sp, err := engine.Buy(ctx, 9, "LIF_GUARD_TERM", nil)
		if err != nil {
			t.Fatalf("buy %d: %v", i, err)
		}
		if seen[sp.PolicyNumber] {
			t.Fatalf("duplicate policy number %s", sp.PolicyNumber)
		}
		seen[sp.PolicyNumber] = true
		if !strings.HasPrefix(sp.PolicyNumber, "LIF") {
			t.Fatalf("expected LIF prefix, got %s", sp.PolicyNumber)
		}
	}
}

func TestPolicyPrefixes(t *testing.T) {
	cases := map[string]string{
		"health":  "HLT",
		"vehicle": "VEH",
		"life":    "LIF",
		"travel":  "POL",
		"":        "POL",
	}
	for insuranceType, want := range cases {
		if got := policyPrefix(insuranceType); got != want {
			t.Errorf("policyPrefix(%q) = %q, want %q", insuranceType, got, want)
		}
	}
}
