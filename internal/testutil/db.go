// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:care_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// Seed creates an organization with an owner, one staff member and one client.
type Seed struct {
	Org       models.Organization
	Owner     models.User
	StaffUser models.User
	Staff     models.StaffMember
	Client    models.Client
}

func SeedOrg(t *testing.T, db *gorm.DB, slug string) Seed {
	t.Helper()

	s := Seed{}
	s.Org = models.Organization{
		Name:              "Org " + slug,
		Slug:              slug,
		Timezone:          "UTC",
		DefaultHourlyRate: decimal.NewFromInt(30),
	}
	must(t, db.Create(&s.Org).Error)

	s.Owner = models.User{
		OrganizationID: s.Org.ID,
		Name:           "Owner",
		Email:          "owner@" + slug + ".test",
		PasswordHash:   "x",
		Role:           models.RoleOwner,
	}
	must(t, db.Create(&s.Owner).Error)

	s.StaffUser = models.User{
		OrganizationID: s.Org.ID,
		Name:           "Nurse Joy",
		Email:          "joy@" + slug + ".test",
		PasswordHash:   "x",
		Role:           models.RoleStaff,
	}
	must(t, db.Create(&s.StaffUser).Error)

	s.Staff = models.StaffMember{
		OrganizationID: s.Org.ID,
		UserID:         &s.StaffUser.ID,
		Name:           "Nurse Joy",
		Email:          s.StaffUser.Email,
		Status:         "active",
	}
	must(t, db.Create(&s.Staff).Error)

	s.Client = models.Client{
		OrganizationID: s.Org.ID,
		Name:           "Ada Client",
		Email:          "ada@" + slug + ".test",
		Phone:          "555-0100",
		Status:         "active",
	}
	must(t, db.Create(&s.Client).Error)

	return s
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}
