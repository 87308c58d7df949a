package ports

// KeyValueStore is the pluggable persistence the engine uses for the
// voter's local identity. Backends range from a dotfile for the CLI to
// an in-memory map for tests.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// VoterService resolves the participant's local identity: a stable
// session id every ballot is keyed by, plus the display name attached
// to ballots on non-anonymous polls.
type VoterService interface {
	SessionID() (string, error)
	DisplayName() (string, error)
	SetDisplayName(name string) error
}
