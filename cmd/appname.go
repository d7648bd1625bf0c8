package cmd

// appName defines the application name, defaulting to "torrite"
var appName = "torrite"

// SetAppName sets the application name globally within the cmd package.
// cmd/torrite/main.go calls it at startup.
func SetAppName(name string) {
	appName = name
}

// GetAppName returns the currently set application name. The "created by"
// field of a new torrent does not use it; that field is always
// "torrite/<version>".
func GetAppName() string {
	return appName
}
