package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort         string        // ex: ":8080"
	ShutdownTimeout    time.Duration // ex: 5s
	RequestTimeout     time.Duration // request timeout on non-AI routes
	MaxRequestBodySize int64         // bytes accepted in JSON request bodies

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Gemini
	GeminiAPIKey   string        // empty => AI features answer with their fallbacks
	GeminiBaseURL  string        // optional API endpoint override (empty = SDK default)
	InsightModel   string        // model for productivity insights
	TopicModel     string        // model for topic suggestions
	ChatModel      string        // model for mentor chat sessions
	ThinkingBudget int           // thinking tokens for insights (0 = default)
	InsightHistory int           // number of most recent sessions sent to the model
	AITimeout      time.Duration // request timeout on AI routes (ex: 2m)

	// Resources
	ResourceFile   string        // optional YAML seed file (empty = no seeding)
	ReloadInterval time.Duration // interval to reload the seed file (default: 24h)
	ProbeTimeout   time.Duration // timeout for resource reachability probes
	ProbePrivate   bool          // true => probes may reach loopback and private networks

	// Chat sessions
	ChatIdleTTL       time.Duration // sessions idle longer than this are evicted
	ChatSweepInterval time.Duration // interval between idle session sweeps

	// Redis
	RedisAddr             string        // ex: "localhost:6379", empty => Redis disabled
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict API access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops routes to specific IPs or CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // allowed browser origins for the API
	AIRateBurst  int      // AI requests allowed in a burst per client
	AIRatePerMin int      // sustained AI requests per minute per client
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:         getenv("CHRONOS_LISTEN_PORT", ":8080"),
		ShutdownTimeout:    mustDuration("CHRONOS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:     mustDuration("CHRONOS_REQUEST_TIMEOUT", 5*time.Second),
		MaxRequestBodySize: int64(getenvInt("CHRONOS_MAX_BODY_BYTES", 1<<20)),

		// Logging
		LogLevel:  getenv("CHRONOS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CHRONOS_PRETTY_LOG", true),

		// Gemini
		GeminiAPIKey:   getenv("CHRONOS_GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiBaseURL:  getenv("CHRONOS_GEMINI_BASE_URL", ""),
		InsightModel:   getenv("CHRONOS_INSIGHT_MODEL", "gemini-3-pro-preview"),
		TopicModel:     getenv("CHRONOS_TOPIC_MODEL", "gemini-2.5-flash"),
		ChatModel:      getenv("CHRONOS_CHAT_MODEL", "gemini-3-pro-preview"),
		ThinkingBudget: getenvInt("CHRONOS_THINKING_BUDGET", 1024),
		InsightHistory: getenvInt("CHRONOS_INSIGHT_HISTORY", 20),
		AITimeout:      mustDuration("CHRONOS_AI_TIMEOUT", 2*time.Minute),

		// Resources
		ResourceFile:   getenv("CHRONOS_RESOURCE_FILE", ""), // Optional, empty = no seed
		ReloadInterval: mustDuration("CHRONOS_RELOAD_INTERVAL", 24*time.Hour),
		ProbeTimeout:   mustDuration("CHRONOS_PROBE_TIMEOUT", 3*time.Second),
		ProbePrivate:   mustBool("CHRONOS_PROBE_ALLOW_PRIVATE", false),

		// Chat sessions
		ChatIdleTTL:       mustDuration("CHRONOS_CHAT_IDLE_TTL", 2*time.Hour),
		ChatSweepInterval: mustDuration("CHRONOS_CHAT_SWEEP_INTERVAL", 10*time.Minute),

		// Redis settings
		RedisAddr:             getenv("CHRONOS_REDIS_ADDR", ""), // Optional, empty = in-memory only
		RedisUser:             getenv("CHRONOS_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("CHRONOS_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("CHRONOS_REDIS_PASSWORD", ""),
		RedisDT:               mustDuration("CHRONOS_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("CHRONOS_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("CHRONOS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("CHRONOS_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("CHRONOS_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("CHRONOS_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("CHRONOS_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("CHRONOS_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("CHRONOS_REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("CHRONOS_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("CHRONOS_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("CHRONOS_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("CHRONOS_CORS_ORIGINS", "")),
		AIRateBurst:  getenvInt("CHRONOS_AI_RATE_BURST", 5),
		AIRatePerMin: getenvInt("CHRONOS_AI_RATE_PER_MIN", 30),
	}

	if cfg.RedisEnabled() {
		cfg.RedisDB = requireEnvInt("CHRONOS_REDIS_DB")
	}

	// Validate Redis password configuration
	if cfg.RedisEnabled() && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: CHRONOS_REDIS_PASSWORD is required when CHRONOS_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.ThinkingBudget < 0 {
		panic(fmt.Sprintf("❌ FATAL: CHRONOS_THINKING_BUDGET must be >= 0, got %d", cfg.ThinkingBudget))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.GeminiAPIKey != "" {
		cp.GeminiAPIKey = "***REDACTED***"
	}
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
