package platform

import (
	"strings"
)

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// normalizeArch converts kernel or GOARCH architecture names to GOARCH style.
// Unknown names are passed through lowercased; the architecture is only a hint.
func normalizeArch(arch string) string {
	switch a := normalizePlatform(arch); a {
	case "amd64", "x86_64", "x64":
		return "amd64"
	case "arm64", "aarch64", "arm64e":
		return "arm64"
	case "386", "i386", "i686", "x86":
		return "386"
	default:
		return a
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}

func joinRaw(goos, arch string) string {
	goos = normalizePlatform(goos)
	arch = normalizePlatform(arch)
	if arch == "" {
		return goos
	}
	return goos + "-" + arch
}
