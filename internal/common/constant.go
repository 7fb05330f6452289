package common

// AuthHeaderName is the HTTP header used to carry the bearer token on
// outbound requests.
const AuthHeaderName = "Authorization"

// BearerPrefix precedes the token value in AuthHeaderName.
const BearerPrefix = "Bearer "

// Keys under which the session store persists its state in the client
// state medium.
const (
	StorageKeyToken    = "token"
	StorageKeyIdentity = "identity"
)

// BroadcastChannel is the pub/sub channel carrying cross-instance session
// events when the storage scope is shared.
const BroadcastChannel = "farmline:session-events"
