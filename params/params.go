package params

import "time"

const (
	ServerBodyLimit    = 1048576 // 1 MiB
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	SessionTokenBytes   = 32                 // 64 hex chars, 256 bits of entropy
	SessionMaxAge       = 7 * 24 * time.Hour // session lifetime from creation
	SessionSweepEvery   = time.Hour          // expired-session sweep interval
	AuthCookieName      = "auth_token"
	AuthTokenHeader     = "X-Auth-Token"
	BcryptCost          = 10
	AuditRetention      = 7 * 24 * time.Hour // login events older than this are pruned
	AuditMaxEntries     = 1000               // hard cap regardless of retention window
	AuditDefaultLimit   = 20
	AuditMaxQueryLimit  = 100
	ContactRateInterval = 5 * time.Second // min gap between contact submissions per IP
	NewsDefaultLimit    = 10
	NewsSlugMaxLen      = 100
)
