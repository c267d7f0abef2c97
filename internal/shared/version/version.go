package version

// Build information, overridable via -ldflags "-X arrowstyle/internal/shared/version.Version=...".
var (
	Version   = "0.3.0-dev"
	GitCommit = ""
	BuildDate = ""
)

// String renders the version with whatever build metadata is known.
func String() string {
	s := Version
	if GitCommit != "" {
		s += " (" + GitCommit
		if BuildDate != "" {
			s += ", " + BuildDate
		}
		s += ")"
	}
	return s
}
