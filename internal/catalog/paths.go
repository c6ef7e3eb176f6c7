package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

const detailPrefix = "/book/"

// DetailPath builds the detail route for a title. The title is a single
// percent-encoded path segment, so slashes survive the round trip. The dot
// segments "." and ".." are encoded too, otherwise path cleaning removes them.
func DetailPath(title string) string {
	if title == "." || title == ".." {
		return detailPrefix + strings.Repeat("%2E", len(title))
	}
	return detailPrefix + url.PathEscape(title)
}

// TitleFromPath is the inverse of DetailPath.
func TitleFromPath(escapedPath string) (string, error) {
	segment, ok := strings.CutPrefix(escapedPath, detailPrefix)
	if !ok || segment == "" {
		return "", fmt.Errorf("not a detail path: %q", escapedPath)
	}
	return url.PathUnescape(segment)
}
