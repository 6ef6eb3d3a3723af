package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/chronos/internal/index"
	"github.com/MrSnakeDoc/chronos/internal/insight"
	"github.com/MrSnakeDoc/chronos/internal/logger"
	"github.com/MrSnakeDoc/chronos/internal/panel"
	"github.com/MrSnakeDoc/chronos/internal/version"
)

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Build            version.Info
	TimeNow          func() time.Time    // for testing, defaults to time.Now
	AllowedHosts     []string            // Host headers allowed to reach the API
	AllowedCIDRS     []string            // IPs allowed to reach the ops endpoints
	TrustProxy       bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins      []string            // browser origins allowed to call the API
	RedisClient      *redis.Client       // nil when Redis is disabled
	Resources        *index.ResourceList // resource collection (read side)
	Panel            *panel.Panel        // resource add/remove operations
	Insights         *insight.Service    // Gemini-backed operations
	GeminiConfigured bool                // false when no API key was provided
	Chats            *index.ChatRegistry // live chat sessions
	ReloadTrigger    chan struct{}       // manual seed reload, nil when no resource file
	ProbeTimeout     time.Duration       // timeout for resource reachability probes
	ProbePrivate     bool                // true => probes may reach loopback and private networks
	RequestTimeout   time.Duration       // timeout on non-AI routes
	AITimeout        time.Duration       // timeout on AI routes
	AIRateBurst      int                 // AI requests allowed in a burst per client
	AIRatePerMin     int                 // sustained AI requests per minute per client
	MaxBodyBytes     int64               // limit on JSON request bodies
}

// Now returns TimeNow() or time.Now() when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
