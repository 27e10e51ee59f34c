package models

import (
	"time"
)

// DeveloperProfile is a single registration submitted through the public form.
// Profiles are created once and never updated; admins may list, export and
// delete them.
type DeveloperProfile struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"` // stored lowercased, unique
	Skills          string    `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	PortfolioURL    *string   `json:"portfolio_url,omitempty"`
	Location        *string   `json:"location,omitempty"`
	IP              string    `json:"ip,omitempty"` // submitter address, best-effort
	CreatedAt       time.Time `json:"created_at"`
}
