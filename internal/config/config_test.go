package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CHRONOS_GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("CHRONOS_REDIS_ADDR", "")

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.InsightModel != "gemini-3-pro-preview" {
		t.Errorf("InsightModel = %q", cfg.InsightModel)
	}
	if cfg.TopicModel != "gemini-2.5-flash" {
		t.Errorf("TopicModel = %q", cfg.TopicModel)
	}
	if cfg.ThinkingBudget != 1024 {
		t.Errorf("ThinkingBudget = %d, want 1024", cfg.ThinkingBudget)
	}
	if cfg.InsightHistory != 20 {
		t.Errorf("InsightHistory = %d, want 20", cfg.InsightHistory)
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() = true without CHRONOS_REDIS_ADDR")
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("GeminiAPIKey = %q, want empty", cfg.GeminiAPIKey)
	}
}

func TestLoad_APIKeyFallback(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		legacy  string
		want    string
	}{
		{name: "primary wins", primary: "primary-key", legacy: "legacy-key", want: "primary-key"},
		{name: "legacy fallback", primary: "", legacy: "legacy-key", want: "legacy-key"},
		{name: "neither set", primary: "", legacy: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CHRONOS_REDIS_ADDR", "")
			t.Setenv("CHRONOS_GEMINI_API_KEY", tt.primary)
			t.Setenv("API_KEY", tt.legacy)

			if got := Load().GeminiAPIKey; got != tt.want {
				t.Errorf("GeminiAPIKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_RedisRequiresDB(t *testing.T) {
	t.Setenv("CHRONOS_REDIS_ADDR", "localhost:6379")
	t.Setenv("CHRONOS_REDIS_DB", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic when CHRONOS_REDIS_DB is missing")
		}
	}()
	Load()
}

func TestLoad_RedisPasswordRequired(t *testing.T) {
	t.Setenv("CHRONOS_REDIS_ADDR", "localhost:6379")
	t.Setenv("CHRONOS_REDIS_DB", "0")
	t.Setenv("CHRONOS_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("CHRONOS_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic when the required password is missing")
		}
	}()
	Load()
}

func TestLoad_RedisEnabled(t *testing.T) {
	t.Setenv("CHRONOS_REDIS_ADDR", "localhost:6379")
	t.Setenv("CHRONOS_REDIS_DB", "2")
	t.Setenv("CHRONOS_REDIS_PASSWORD_REQUIRED", "false")

	cfg := Load()
	if !cfg.RedisEnabled() {
		t.Fatal("RedisEnabled() = false")
	}
	if cfg.RedisDB != 2 {
		t.Errorf("RedisDB = %d, want 2", cfg.RedisDB)
	}
}

func TestLoad_RedisTuningKeys(t *testing.T) {
	t.Setenv("CHRONOS_REDIS_ADDR", "localhost:6379")
	t.Setenv("CHRONOS_REDIS_DB", "0")
	t.Setenv("CHRONOS_REDIS_POOL_SIZE", "42")
	t.Setenv("CHRONOS_REDIS_DIAL_TIMEOUT", "7s")
	t.Setenv("CHRONOS_REDIS_CONNECT_TIMEOUT", "1m")
	t.Setenv("REDIS_POOL_SIZE", "99")
	t.Setenv("REDIS_READ_TIMEOUT", "9s")

	cfg := Load()
	if cfg.RedisPoolSize != 42 {
		t.Errorf("RedisPoolSize = %d, want 42", cfg.RedisPoolSize)
	}
	if cfg.RedisDT != 7*time.Second {
		t.Errorf("RedisDT = %v, want 7s", cfg.RedisDT)
	}
	if cfg.RedisConnectTimeout != time.Minute {
		t.Errorf("RedisConnectTimeout = %v, want 1m", cfg.RedisConnectTimeout)
	}
	if cfg.RedisRT != 3*time.Second {
		t.Errorf("RedisRT = %v, unprefixed REDIS_READ_TIMEOUT must be ignored", cfg.RedisRT)
	}
}

func TestLoad_PrivateTargets(t *testing.T) {
	t.Setenv("CHRONOS_REDIS_ADDR", "")

	t.Setenv("CHRONOS_PROBE_ALLOW_PRIVATE", "")
	if Load().ProbePrivate {
		t.Error("ProbePrivate = true by default")
	}

	t.Setenv("CHRONOS_PROBE_ALLOW_PRIVATE", "true")
	if !Load().ProbePrivate {
		t.Error("ProbePrivate = false with CHRONOS_PROBE_ALLOW_PRIVATE=true")
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "secret", RedisPassword: "hunter2", RedisUser: "default"}
	red := cfg.Redacted()

	if red.GeminiAPIKey == "secret" || red.RedisPassword == "hunter2" || red.RedisUser == "default" {
		t.Errorf("Redacted() leaked secrets: %+v", red)
	}
	if cfg.GeminiAPIKey != "secret" {
		t.Error("Redacted() must not modify the receiver")
	}
}

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", value: "42", expected: 42},
		{name: "invalid integer", value: "not_a_number", wantPanic: true},
		{name: "missing", value: "", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvInt() should have panicked")
					}
				}()
			}

			result := requireEnvInt("TEST_INT")
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "a.example", want: []string{"a.example"}},
		{name: "spaces and quotes", in: ` "a.example" , 'b.example',, `, want: []string{"a.example", "b.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "empty uses default", value: "", def: 3 * time.Second, expected: 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := mustDuration("TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true", value: "true", def: false, expected: true},
		{name: "false", value: "false", def: true, expected: false},
		{name: "invalid uses default", value: "maybe", def: true, expected: true},
		{name: "empty uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}
