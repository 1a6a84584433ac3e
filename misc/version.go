package misc

// set at build time through ldflags
var (
	version = "development"
	gitHash = "unknown"
)

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
