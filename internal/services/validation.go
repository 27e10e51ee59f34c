package services

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/clmblockchain/devpool/internal/models"
	"github.com/go-playground/validator/v10"
)

// Submission is the raw form input from the public registration endpoint.
// All fields arrive as strings; normalization and parsing happen here.
type Submission struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required"`
	Skills          string `form:"skills" validate:"required"`
	ExperienceYears string `form:"experience_years" validate:"required"`
	PortfolioURL    string `form:"portfolio_url"`
	Location        string `form:"location"`
}

const (
	MinExperienceYears = 0
	MaxExperienceYears = 50
)

// Package-level validator instance (reused across all requests)
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the form field names the client submitted
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// ValidateSubmission checks a raw submission against the intake rules, in
// order: required fields, experience range, email shape. On success it
// returns a normalized profile draft (no ID, timestamp or IP yet).
//
// Emails are lowercased and trimmed before validation, so uniqueness checks
// downstream are case-insensitive. A portfolio URL without a scheme gets
// https:// prepended. Blank optional fields become nil, not empty strings.
func ValidateSubmission(sub Submission) (*models.DeveloperProfile, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sub.Skills = strings.TrimSpace(sub.Skills)
	sub.ExperienceYears = strings.TrimSpace(sub.ExperienceYears)
	sub.PortfolioURL = strings.TrimSpace(sub.PortfolioURL)
	sub.Location = strings.TrimSpace(sub.Location)

	if err := validate.Struct(sub); err != nil {
		var missing []string
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range ve {
				if fieldError.Tag() == "required" {
					missing = append(missing, fieldError.Field())
				}
			}
		}
		if len(missing) > 0 {
			return nil, &models.MissingFieldsError{Fields: missing}
		}
		return nil, err
	}

	experience, err := strconv.Atoi(sub.ExperienceYears)
	if err != nil || experience < MinExperienceYears || experience > MaxExperienceYears {
		return nil, models.ErrInvalidExperience
	}

	if err := validate.Var(sub.Email, "email"); err != nil {
		return nil, models.ErrInvalidEmail
	}

	draft := &models.DeveloperProfile{
		Name:            sub.Name,
		Email:           sub.Email,
		Skills:          sub.Skills,
		ExperienceYears: experience,
		PortfolioURL:    normalizeURL(sub.PortfolioURL),
		Location:        optional(sub.Location),
	}

	return draft, nil
}

// normalizeURL prepends https:// to a scheme-less portfolio URL
func normalizeURL(raw string) *string {
	if raw == "" {
		return nil
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return &raw
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
