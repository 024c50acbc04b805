// Package resources provides static asset handling for the server.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/server/resources/static"
