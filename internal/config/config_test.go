package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("SESSION_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.ThrottleMaxFails != 5 {
		t.Errorf("ThrottleMaxFails: got %d, want 5", cfg.Auth.ThrottleMaxFails)
	}
	if cfg.Auth.ThrottleWindow != 15*time.Minute {
		t.Errorf("ThrottleWindow: got %v, want 15m", cfg.Auth.ThrottleWindow)
	}
	if cfg.Auth.ThrottleBlock != 15*time.Minute {
		t.Errorf("ThrottleBlock: got %v, want 15m", cfg.Auth.ThrottleBlock)
	}
	if cfg.Auth.SessionIdleTimeout != 30*time.Minute {
		t.Errorf("SessionIdleTimeout: got %v, want 30m", cfg.Auth.SessionIdleTimeout)
	}
	if cfg.Mail.Timeout != 30*time.Second {
		t.Errorf("Mail.Timeout: got %v, want 30s", cfg.Mail.Timeout)
	}
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing SESSION_SECRET")
	}
}

func TestLoad_WeakSessionSecretRejected(t *testing.T) {
	os.Setenv("SESSION_SECRET", "short")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for short SESSION_SECRET")
	}
}

func TestLoad_MailTransportDerivation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantSSL bool
		wantTLS bool
	}{
		{
			name:    "port 587 defaults to STARTTLS",
			env:     map[string]string{"MAIL_PORT": "587"},
			wantSSL: false,
			wantTLS: true,
		},
		{
			name:    "port 465 defaults to implicit TLS",
			env:     map[string]string{"MAIL_PORT": "465"},
			wantSSL: true,
			wantTLS: false,
		},
		{
			name:    "port 2525 defaults to STARTTLS",
			env:     map[string]string{"MAIL_PORT": "2525"},
			wantSSL: false,
			wantTLS: true,
		},
		{
			name:    "explicit MAIL_USE_SSL overrides port default",
			env:     map[string]string{"MAIL_PORT": "2525", "MAIL_USE_SSL": "true"},
			wantSSL: true,
			wantTLS: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("SESSION_SECRET", "test-secret-32-characters-long!")
			os.Setenv("DB_PASSWORD", "test")
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			defer os.Clearenv()

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() = %v, want nil", err)
			}
			if cfg.Mail.UseSSL != tt.wantSSL {
				t.Errorf("UseSSL: got %v, want %v", cfg.Mail.UseSSL, tt.wantSSL)
			}
			if cfg.Mail.UseTLS != tt.wantTLS {
				t.Errorf("UseTLS: got %v, want %v", cfg.Mail.UseTLS, tt.wantTLS)
			}
		})
	}
}

func TestMailConfig_Configured(t *testing.T) {
	m := MailConfig{Provider: "smtp"}
	if m.Configured() {
		t.Error("empty smtp config should not be configured")
	}

	m = MailConfig{Provider: "smtp", Server: "mail.example.com", Username: "u", Password: "p"}
	if !m.Configured() {
		t.Error("complete smtp config should be configured")
	}

	m = MailConfig{Provider: "ses"}
	if m.Configured() {
		t.Error("ses config without sender should not be configured")
	}

	m = MailConfig{Provider: "ses", Sender: "noreply@example.com"}
	if !m.Configured() {
		t.Error("ses config with sender should be configured")
	}
}
