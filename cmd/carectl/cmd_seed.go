package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/auth"
	"github.com/BruksfildServices01/care-scheduler/internal/logger"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
	"github.com/BruksfildServices01/care-scheduler/internal/timezone"
)

var seedOpts struct {
	slug     string
	password string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo organization with an owner, staff, clients and opening hours",
	RunE: func(cmd *cobra.Command, args []string) error {
		org, err := seedDemo(cmd.Context(), current.db, seedOpts.slug, seedOpts.password)
		if err != nil {
			return err
		}
		logger.Get().
			WithField("organization_id", org.ID).
			WithField("slug", org.Slug).
			Info("demo organization ready")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedOpts.slug, "slug", "demo-care", "organization slug")
	seedCmd.Flags().StringVar(&seedOpts.password, "password", "demo-password", "password for every seeded user")
}

// seedDemo is idempotent per slug: an existing organization is returned as is.
func seedDemo(ctx context.Context, db *gorm.DB, slug, password string) (*models.Organization, error) {
	var existing models.Organization
	err := db.WithContext(ctx).Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	org := models.Organization{
		Name:              "Demo Care",
		Slug:              slug,
		Timezone:          timezone.DefaultTimezone,
		DefaultHourlyRate: decimal.NewFromInt(30),
		MinAdvanceMinutes: 120,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		users := []models.User{
			{OrganizationID: org.ID, Name: "Demo Owner", Email: "owner@" + slug + ".local", Role: models.RoleOwner, PasswordHash: hash},
			{OrganizationID: org.ID, Name: "Nina Nurse", Email: "nina@" + slug + ".local", Role: models.RoleStaff, PasswordHash: hash},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		staff := []models.StaffMember{
			{OrganizationID: org.ID, UserID: &users[1].ID, Name: "Nina Nurse", Email: users[1].Email, Position: "RN", Status: "active"},
			{OrganizationID: org.ID, Name: "Carl Carer", Email: "carl@" + slug + ".local", Position: "Carer", Status: "active"},
		}
		if err := tx.Create(&staff).Error; err != nil {
			return err
		}

		clients := []models.Client{
			{OrganizationID: org.ID, Name: "Maria Silva", Phone: "11999990001", Status: "active"},
			{OrganizationID: org.ID, Name: "João Souza", Phone: "11999990002", Status: "active"},
		}
		if err := tx.Create(&clients).Error; err != nil {
			return err
		}

		hours := make([]models.OpeningHours, 0, 5)
		for wd := 1; wd <= 5; wd++ {
			hours = append(hours, models.OpeningHours{
				OrganizationID: org.ID,
				Weekday:        wd,
				StartTime:      "08:00",
				EndTime:        "18:00",
				BreakStart:     "12:00",
				BreakEnd:       "13:00",
				SlotMin:        60,
				Active:         true,
			})
		}
		return tx.Create(&hours).Error
	})
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", slug, err)
	}
	return &org, nil
}
