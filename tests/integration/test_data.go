package integration

import (
	"fmt"
	"net/url"
	"time"
)

// TestEmail generates a unique registration email using a timestamp
func TestEmail(suffix string) string {
	return fmt.Sprintf("test-%d-%s@example.com", time.Now().UnixNano(), suffix)
}

// LoginForm builds an admin login form
func LoginForm(username, password string) url.Values {
	return url.Values{
		"username": {username},
		"password": {password},
	}
}

// RegistrationForm builds a valid registration form for the given email
func RegistrationForm(email string) url.Values {
	return url.Values{
		"name":             {"Test Developer"},
		"email":            {email},
		"skills":           {"Go, PostgreSQL, Docker"},
		"experience_years": {"4"},
		"portfolio_url":    {"example.dev/portfolio"},
		"location":         {"Lisbon"},
	}
}
