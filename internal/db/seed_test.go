package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/insure-assist/insure-assist/internal/auth"
	"github.com/insure-assist/insure-assist/internal/models"
	"github.com/insure-assist/insure-assist/internal/policy"
)

func openSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &policy.Policy{}, &policy.CoverageDetail{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestSeedFromCSV(t *testing.T) {
	gdb := openSeedTestDB(t)
	dir := t.TempDir()

	writeFile(t, dir, "users.csv",
		"user_id,name,email,password\n"+
			"1,Asha,asha@example.com,plain-pass\n"+
			"2,Ravi,RAVI@example.com,$2a$10$precomputedhashprecomputedhashpre\n")
	writeFile(t, dir, "policies.csv",
		"policy_number,user_id,insurance_type,coverage_limit,premium,status,start_date,end_date\n"+
			"hlt123456,1,health,500000,12000,active,2026-01-01,2026-12-27\n")
	writeFile(t, dir, "coverage_details.csv",
		"policy_number,coverage_items,exclusions,deductible\n"+
			"HLT123456,Hospitalization; ICU,Cosmetic procedures,5000\n")

	if err := SeedFromCSV(gdb, dir); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var users []models.User
	if err := gdb.Order("id").Find(&users).Error; err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Email != "asha@example.com" {
		t.Fatalf("email not normalized: %q", users[0].Email)
	}
	if !auth.CheckPassword("plain-pass", users[0].PasswordHash) {
		t.Fatal("plaintext seed password must be hashed and verifiable")
	}
	if users[1].PasswordHash != "$2a$10$precomputedhashprecomputedhashpre" {
		t.Fatal("pre-hashed seed password must be kept verbatim")
	}

	var p policy.Policy
	if err := gdb.First(&p, "policy_number = ?", "HLT123456").Error; err != nil {
		t.Fatalf("seeded policy missing: %v", err)
	}
	if p.UserID != 1 || p.Premium != 12000 {
		t.Fatalf("unexpected policy: %+v", p)
	}

	var detail policy.CoverageDetail
	if err := gdb.First(&detail, "policy_number = ?", "HLT123456").Error; err != nil {
		t.Fatalf("seeded coverage missing: %v", err)
	}
	if detail.Deductible != 5000 {
		t.Fatalf("unexpected coverage: %+v", detail)
	}

	// second run is a no-op on populated tables
	if err := SeedFromCSV(gdb, dir); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	var count int64
	if err := gdb.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("reseed duplicated users: %d", count)
	}
}

func TestSeedFromCSVMissingFiles(t *testing.T) {
	gdb := openSeedTestDB(t)
	if err := SeedFromCSV(gdb, t.TempDir()); err != nil {
		t.Fatalf("missing seed files must be skipped: %v", err)
	}
}
