// Package version carries zplview build metadata injected at link time.
package version

// Populated via -ldflags
// "-X github.com/labelkit/zplview/internal/version.Version=v1.2.3" and
// friends; defaults describe a local development build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the version, commit, and build date in one call.
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}
