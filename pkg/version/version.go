package version

var (
	// These values are injected during build - DO NOT MODIFY
	Version   = "VERSION_PLACEHOLDER"
	CommitSHA = "COMMIT_PLACEHOLDER"
)

func GetVersionInfo(tool string) string {
	return "convtools " + tool + " " + Version
}

func GetDetailedVersionInfo(tool string) string {
	return "convtools " + tool + "\n" +
		"Version:  " + Version + "\n" +
		"Commit:   " + CommitSHA + "\n"
}
