package version

// Version can be overridden at build time:
// go build -ldflags "-X coding-profile-api/internal/version.Version=v1.2.3"
var Version = "dev"

// BuildTime represents when the binary was built
var BuildTime = "unknown"

// GitCommit represents the git commit hash
var GitCommit = "unknown"

func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

func GetBuildInfo() map[string]string {
	return map[string]string{
		"version":    GetVersion(),
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}
}
