package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// buildOutputPath maps a site route to the file the web server will serve
// for it: "/" becomes index.html, "/posts/hello/" becomes
// posts/hello/index.html.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), " \t\r\n/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}
