package types

// DefaultVersion is the fallback version string used when a command runs
// without an AppContext.
const DefaultVersion = "dev"

// AppContext carries application-wide state into the fingerprinting
// commands. Kong passes it to every command's Run method.
type AppContext struct {
	Version string
}
