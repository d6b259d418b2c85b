package assetcache

// CommandType identifies the kind of out-of-band instruction sent to the
// manager, independent of the intercept-on-request path.
type CommandType string

// Command type constants
const (
	// CommandCacheURL instructs the manager to fetch the URL and store it in
	// the current generation, best-effort: fetch failures are silently
	// dropped and never reported back to the sender.
	CommandCacheURL CommandType = "CACHE_URL"

	// CommandSkipWaiting instructs a waiting manager to activate
	// immediately instead of waiting for the normal adoption point.
	CommandSkipWaiting CommandType = "SKIP_WAITING"
)

// Command is one message on the manager's command channel.
type Command struct {
	Type CommandType
	URL  string
}
