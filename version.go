package swrn

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Version is the ordered form of a software version string like
// "1.8.4-SP33-HF2". Pre-release builds ("B6") carry a negative HF so they
// sort below the service pack's Release, which in turn sorts below its
// hotfixes.
type Version struct {
	Major int
	Minor int
	Patch int
	SP    int
	HF    int
}

var (
	versionNumRe = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)
	spPartRe     = regexp.MustCompile(`(?i)[-_]SP(\d+)`)
	hfPartRe     = regexp.MustCompile(`(?i)[-_]HF(\d+)`)
	betaPartRe   = regexp.MustCompile(`(?i)[-_]B(\d+)\b`)

	filenameVersionRe = regexp.MustCompile(`(?i)Version[_-]?([\d.]+[-\w]*)`)

	hfLetterTailRe = regexp.MustCompile(`(?i)^(.*[-_]HF\d*?)(\d)([a-z])$`)
	hfTailRe       = regexp.MustCompile(`(?i)^(.*)[-_]HF(\d+)$`)
	betaTailRe     = regexp.MustCompile(`(?i)^(.*)[-_]B(\d+)$`)
	releaseTailRe  = regexp.MustCompile(`(?i)[-_]Release$`)
	spTailRe       = regexp.MustCompile(`(?i)^(.*[-_]SP)(\d+)$`)
)

// ParseVersion parses a version string into its ordered tuple. Malformed
// input degrades to the zero Version; it never fails.
func ParseVersion(s string) Version {
	var v Version
	m := versionNumRe.FindStringSubmatch(s)
	if m == nil {
		return v
	}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	v.Patch, _ = strconv.Atoi(m[3])

	if m := spPartRe.FindStringSubmatch(s); m != nil {
		v.SP, _ = strconv.Atoi(m[1])
	}
	switch {
	case hfPartRe.MatchString(s):
		m := hfPartRe.FindStringSubmatch(s)
		v.HF, _ = strconv.Atoi(m[1])
	case betaPartRe.MatchString(s):
		m := betaPartRe.FindStringSubmatch(s)
		n, _ := strconv.Atoi(m[1])
		v.HF = -n
	}
	// bare or "-Release" means HF 0
	return v
}

// Compare returns -1, 0, or 1 ordering v against o field by field, most
// significant first.
func (v Version) Compare(o Version) int {
	a := [...]int{v.Major, v.Minor, v.Patch, v.SP, v.HF}
	b := [...]int{o.Major, o.Minor, o.Patch, o.SP, o.HF}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// IsZero reports whether v is the zero tuple (unparseable input).
func (v Version) IsZero() bool { return v == Version{} }

// FromFilename extracts the software version embedded in a SWRN PDF
// filename ("SWRN_Version_1.8.4-SP33-HF2.pdf"). Empty when absent.
func FromFilename(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	m := filenameVersionRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], ".")
}

// BuildVersion assembles a canonical version string from a base release
// ("1.8.4"), a service pack number, and an optional suffix ("HF2", "B6").
// An empty or "Release" suffix yields the bare service pack form.
func BuildVersion(base string, sp int, suffix string) string {
	v := fmt.Sprintf("%s-SP%d", base, sp)
	if suffix != "" && !strings.EqualFold(suffix, "Release") {
		v += "-" + strings.ToUpper(suffix)
	}
	return v
}

// PreviousVersion derives the version that immediately precedes s in the
// release chain:
//
//	HF9e -> HF9d, HF9a -> HF9
//	HFn  -> HFn-1 (n>1), HF1 -> the service pack's Release
//	Bn   -> Bn-1 (n>1),  B1  -> the service pack's Release
//	Release / bare -> the previous service pack's Release
//
// Empty when nothing precedes s.
func PreviousVersion(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// letter-suffixed hotfix respin
	if m := hfLetterTailRe.FindStringSubmatch(s); m != nil {
		letter := m[3][0]
		if letter == 'a' || letter == 'A' {
			return m[1] + m[2]
		}
		return m[1] + m[2] + string(letter-1)
	}

	if m := hfTailRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		if n > 1 {
			return fmt.Sprintf("%s-HF%d", m[1], n-1)
		}
		return m[1]
	}

	if m := betaTailRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		if n > 1 {
			return fmt.Sprintf("%s-B%d", m[1], n-1)
		}
		return m[1]
	}

	// Release marker is equivalent to the bare service pack form.
	s = releaseTailRe.ReplaceAllString(s, "")

	if m := spTailRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		if n > 1 {
			return fmt.Sprintf("%s%d", m[1], n-1)
		}
	}
	return ""
}
