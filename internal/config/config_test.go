// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.CharmHost != "cloud.charm.sh" {
		t.Errorf("CharmHost = %s, want cloud.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "correspondent" {
		t.Errorf("CharmDBName = %s, want correspondent", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.RequestsPerMinute != 50 {
		t.Errorf("RequestsPerMinute = %d, want 50", cfg.RequestsPerMinute)
	}
	if cfg.PacerBackoff != 250*time.Millisecond {
		t.Errorf("PacerBackoff = %v, want 250ms", cfg.PacerBackoff)
	}
	if !cfg.SkipExistingWeeks {
		t.Error("SkipExistingWeeks = false, want true")
	}
	if cfg.MinIdentityMessages != 5 {
		t.Errorf("MinIdentityMessages = %d, want 5", cfg.MinIdentityMessages)
	}
	if cfg.ContactPause != 10*time.Second {
		t.Errorf("ContactPause = %v, want 10s", cfg.ContactPause)
	}
	if cfg.ErrorPause != 30*time.Second {
		t.Errorf("ErrorPause = %v, want 30s", cfg.ErrorPause)
	}
	if cfg.MessageLookbackDays != 30 {
		t.Errorf("MessageLookbackDays = %d, want 30", cfg.MessageLookbackDays)
	}
	if cfg.SearchK != 3 {
		t.Errorf("SearchK = %d, want 3", cfg.SearchK)
	}
	if !cfg.PrivacyFilter {
		t.Error("PrivacyFilter = false, want true")
	}
	if cfg.AllowedContacts != nil {
		t.Errorf("AllowedContacts = %v, want nil", cfg.AllowedContacts)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	// Set custom environment variables
	os.Clearenv()
	os.Setenv("CHARM_HOST", "custom.charm.sh")
	os.Setenv("CHARM_DB", "test_db")
	os.Setenv("CHARM_AUTO_SYNC", "false")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("CORRESPONDENT_OPENAI_MODEL", "gpt-4")
	os.Setenv("CORRESPONDENT_EMBEDDING_MODEL", "text-embedding-3-large")
	os.Setenv("CORRESPONDENT_REQUESTS_PER_MINUTE", "30")
	os.Setenv("CORRESPONDENT_PACER_BACKOFF", "1s")
	os.Setenv("CORRESPONDENT_SKIP_EXISTING_WEEKS", "false")
	os.Setenv("CORRESPONDENT_MIN_IDENTITY_MESSAGES", "10")
	os.Setenv("CORRESPONDENT_CONTACT_PAUSE", "5s")
	os.Setenv("CORRESPONDENT_ERROR_PAUSE", "60s")
	os.Setenv("CORRESPONDENT_MESSAGE_LOOKBACK_DAYS", "60")
	os.Setenv("CORRESPONDENT_SEARCH_K", "5")
	os.Setenv("CORRESPONDENT_PRIVACY_FILTER", "false")
	os.Setenv("CORRESPONDENT_ALLOWED_CONTACTS", "Dana, Sam")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify custom values
	if cfg.CharmHost != "custom.charm.sh" {
		t.Errorf("CharmHost = %s, want custom.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "test_db" {
		t.Errorf("CharmDBName = %s, want test_db", cfg.CharmDBName)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4" {
		t.Errorf("ChatModel = %s, want gpt-4", cfg.ChatModel)
	}
	if cfg.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d, want 30", cfg.RequestsPerMinute)
	}
	if cfg.PacerBackoff != time.Second {
		t.Errorf("PacerBackoff = %v, want 1s", cfg.PacerBackoff)
	}
	if cfg.SkipExistingWeeks {
		t.Error("SkipExistingWeeks = true, want false")
	}
	if cfg.MinIdentityMessages != 10 {
		t.Errorf("MinIdentityMessages = %d, want 10", cfg.MinIdentityMessages)
	}
	if cfg.ContactPause != 5*time.Second {
		t.Errorf("ContactPause = %v, want 5s", cfg.ContactPause)
	}
	if cfg.ErrorPause != 60*time.Second {
		t.Errorf("ErrorPause = %v, want 60s", cfg.ErrorPause)
	}
	if cfg.MessageLookbackDays != 60 {
		t.Errorf("MessageLookbackDays = %d, want 60", cfg.MessageLookbackDays)
	}
	if cfg.SearchK != 5 {
		t.Errorf("SearchK = %d, want 5", cfg.SearchK)
	}
	if cfg.PrivacyFilter {
		t.Error("PrivacyFilter = true, want false")
	}
	want := []string{"Dana", "Sam"}
	if len(cfg.AllowedContacts) != 2 || cfg.AllowedContacts[0] != want[0] || cfg.AllowedContacts[1] != want[1] {
		t.Errorf("AllowedContacts = %v, want %v", cfg.AllowedContacts, want)
	}
}

func TestValidate_InvalidRate(t *testing.T) {
	cfg := &Config{
		RequestsPerMinute:   0,
		MessageLookbackDays: 30,
		SearchK:             3,
	}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for zero rate")
	}
}

func TestValidate_InvalidLookback(t *testing.T) {
	cfg := &Config{
		RequestsPerMinute:   50,
		MessageLookbackDays: 0,
		SearchK:             3,
	}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail for zero lookback")
	}
}

func TestRequireOpenAIKey(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireOpenAIKey(); err == nil {
		t.Error("RequireOpenAIKey() should fail when unset")
	}

	cfg.OpenAIKey = "test-key"
	if err := cfg.RequireOpenAIKey(); err != nil {
		t.Errorf("RequireOpenAIKey() failed: %v", err)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvList(t *testing.T) {
	os.Clearenv()
	if got := getEnvList("TEST_LIST"); got != nil {
		t.Errorf("getEnvList() = %v, want nil", got)
	}

	os.Setenv("TEST_LIST", " Dana ,, Sam ")
	got := getEnvList("TEST_LIST")
	if len(got) != 2 || got[0] != "Dana" || got[1] != "Sam" {
		t.Errorf("getEnvList() = %v, want [Dana Sam]", got)
	}
}
