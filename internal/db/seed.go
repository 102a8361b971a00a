package db

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/insure-assist/insure-assist/internal/auth"
	"github.com/insure-assist/insure-assist/internal/models"
	"github.com/insure-assist/insure-assist/internal/policy"
)

const seedDateLayout = "2006-01-02"

// SeedFromCSV loads sample users, policies, and coverage details from CSV
// files in dataDir. Each table is seeded only when it is empty; missing
// files are skipped silently.
func SeedFromCSV(gdb *gorm.DB, dataDir string) error {
	if err := seedUsers(gdb, filepath.Join(dataDir, "users.csv")); err != nil {
		return err
	}
	if err := seedPolicies(gdb, filepath.Join(dataDir, "policies.csv")); err != nil {
		return err
	}
	return seedCoverage(gdb, filepath.Join(dataDir, "coverage_details.csv"))
}

func readCSVRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = strings.TrimSpace(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseDate(value string) time.Time {
	t, err := time.Parse(seedDateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// hashIfNeeded leaves already-bcrypt values alone so seed files may carry
// either plaintext or pre-hashed passwords.
func hashIfNeeded(raw string) string {
	if raw == "" {
		raw = "ChangeMe123!"
	}
	if strings.HasPrefix(raw, "$2") {
		return raw
	}
	hashed, err := auth.HashPassword(raw)
	if err != nil {
		return raw
	}
	return hashed
}

func seedUsers(gdb *gorm.DB, path string) error {
	var count int64
	if err := gdb.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows, err := readCSVRows(path)
	if err != nil || len(rows) == 0 {
		return err
	}

	seeded := 0
	for _, row := range rows {
		if row["email"] == "" {
			continue
		}
		user := models.User{
			Name:         row["name"],
			Email:        strings.ToLower(row["email"]),
			PasswordHash: hashIfNeeded(row["password"]),
		}
		if user.Name == "" {
			user.Name = "Unknown User"
		}
		if id, err := strconv.ParseUint(row["user_id"], 10, 64); err == nil {
			user.ID = id
		}
		if err := gdb.Create(&user).Error; err != nil {
			return err
		}
		seeded++
	}
	log.Printf("db: seeded %d users", seeded)
	return nil
}

func seedPolicies(gdb *gorm.DB, path string) error {
	var count int64
	if err := gdb.Model(&policy.Policy{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows, err := readCSVRows(path)
	if err != nil || len(rows) == 0 {
		return err
	}

	seeded := 0
	for _, row := range rows {
		if row["policy_number"] == "" || row["user_id"] == "" {
			continue
		}
		userID, err := strconv.ParseUint(row["user_id"], 10, 64)
		if err != nil {
			continue
		}
		insuranceType := strings.ToLower(row["insurance_type"])
		if insuranceType == "" {
			insuranceType = "health"
		}
		status := strings.ToLower(row["status"])
		if status == "" {
			status = "active"
		}
		p := policy.Policy{
			PolicyNumber:  policy.NormalizeNumber(row["policy_number"]),
			UserID:        userID,
			InsuranceType: insuranceType,
			CoverageLimit: parseFloat(row["coverage_limit"]),
			Premium:       parseFloat(row["premium"]),
			Status:        status,
			StartDate:     parseDate(row["start_date"]),
			EndDate:       parseDate(row["end_date"]),
		}
		if err := gdb.Create(&p).Error; err != nil {
			return err
		}
		seeded++
	}
	log.Printf("db: seeded %d policies", seeded)
	return nil
}

func seedCoverage(gdb *gorm.DB, path string) error {
	var count int64
	if err := gdb.Model(&policy.CoverageDetail{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows, err := readCSVRows(path)
	if err != nil || len(rows) == 0 {
		return err
	}

	seeded := 0
	for _, row := range rows {
		if row["policy_number"] == "" {
			continue
		}
		detail := policy.CoverageDetail{
			PolicyNumber:  policy.NormalizeNumber(row["policy_number"]),
			CoverageItems: row["coverage_items"],
			Exclusions:    row["exclusions"],
			Deductible:    parseFloat(row["deductible"]),
		}
		if err := gdb.Create(&detail).Error; err != nil {
			return err
		}
		seeded++
	}
	log.Printf("db: seeded %d coverage details", seeded)
	return nil
}
