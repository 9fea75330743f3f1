package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/package-url/packageurl-go"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// GetEnvInt reads an integer env var, returning the default on absence or
// parse failure.
func GetEnvInt(key string, defVal int) int {
	val, ex := os.LookupEnv(key)
	if !ex {
		return defVal
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return defVal
	}
	return n
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// EcosystemToPurlType converts an OSV ecosystem name to its PURL type.
func EcosystemToPurlType(ecosystem string) string {
	mapping := map[string]string{
		"npm":       "npm",
		"PyPI":      "pypi",
		"Maven":     "maven",
		"Go":        "golang",
		"NuGet":     "nuget",
		"RubyGems":  "gem",
		"crates.io": "cargo",
		"Packagist": "composer",
		"Alpine":    "apk",
		"Debian":    "deb",
		"Ubuntu":    "deb",
	}
	if purlType, exists := mapping[ecosystem]; exists {
		return purlType
	}
	for key, value := range mapping {
		if strings.EqualFold(key, ecosystem) {
			return value
		}
	}
	return strings.ToLower(ecosystem)
}

// BuildPURL renders a package URL for a name within an ecosystem, used to
// label vulnerability entries with a stable package identity.
func BuildPURL(ecosystem, name, version string) string {
	purlType := EcosystemToPurlType(ecosystem)
	namespace := ""
	if idx := strings.LastIndex(name, "/"); idx > 0 {
		namespace = name[:idx]
		name = name[idx+1:]
	}
	purl := packageurl.PackageURL{
		Type:      purlType,
		Namespace: namespace,
		Name:      name,
		Version:   version,
	}
	return strings.ToLower(purl.ToString())
}

// SearchURL returns the fallback check URL pointing at a web search for the
// technology's latest version.
func SearchURL(technology string) string {
	return fmt.Sprintf("https://www.google.com/search?q=%s+latest+version",
		strings.ReplaceAll(strings.TrimSpace(technology), " ", "+"))
}
