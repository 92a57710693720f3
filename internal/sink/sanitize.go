// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import "strings"

// pathSanitizer rewrites characters disallowed in filesystem path
// components to percent-hex substitutes, plus a documented set of
// non-ASCII symbols common in plasmid names. Percent-encoding keeps the
// mapping collision-free: a name containing the literal substitute text
// cannot sanitize to the same output, because its '%' is itself encoded.
var pathSanitizer = strings.NewReplacer(
	"%", "%25",
	"/", "%2F",
	"\\", "%5C",
	":", "%3A",
	"*", "%2A",
	"?", "%3F",
	"\"", "%22",
	"<", "%3C",
	">", "%3E",
	"|", "%7C",
	"\x00", "%00",
	"α", "alpha",
	"β", "beta",
	"γ", "gamma",
	"Δ", "delta",
	"µ", "u",
	"μ", "u",
	"°", "deg",
)

// SanitizeName returns name rewritten to an ASCII-safe form usable as a
// directory or file name component. Empty or dot-only results fall back
// to "unnamed" so no record escapes its output directory.
func SanitizeName(name string) string {
	s := strings.TrimSpace(pathSanitizer.Replace(name))
	if s == "" || s == "." || s == ".." {
		return "unnamed"
	}
	return s
}
