package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/biter777/countries"
)

// codeProperties are consulted, in order, when the feature id is unusable.
var codeProperties = []string{"ISO_A3", "iso_a3", "ADM0_A3", "adm0_a3", "code", "id"}

// nameProperties are consulted, in order, for the display name.
var nameProperties = []string{"name", "NAME", "ADMIN", "admin", "name_long", "NAME_LONG"}

// ResolveCode turns a feature id into an ISO-3 join code. Accepted forms:
// an alpha-3 string ("ALB"), an alpha-2 string ("AL"), or an ISO 3166
// numeric code as number or digit string (8, "008"). When the id does not
// resolve, the code properties are tried. "" means unresolvable.
func ResolveCode(id interface{}, props map[string]interface{}) string {
	if code := codeFromValue(id); code != "" {
		return code
	}
	for _, key := range codeProperties {
		if v, ok := props[key]; ok {
			if code := codeFromValue(v); code != "" {
				return code
			}
		}
	}
	return ""
}

func codeFromValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return codeFromString(t)
	case float64:
		if t != math.Trunc(t) || t <= 0 {
			return ""
		}
		return codeFromNumeric(int(t))
	case int:
		return codeFromNumeric(t)
	}
	return ""
}

func codeFromString(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "-99" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil {
		return codeFromNumeric(n)
	}
	switch {
	case len(s) == 3 && isLetters(s):
		return s
	case len(s) == 2 && isLetters(s):
		c := countries.ByName(s)
		if c.IsValid() {
			return c.Alpha3()
		}
	}
	return ""
}

func codeFromNumeric(n int) string {
	c := countries.ByNumeric(n)
	if !c.IsValid() {
		return ""
	}
	return c.Alpha3()
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// FeatureName picks a display name: a name property when present, else the
// country library's English name for code.
func FeatureName(code string, props map[string]interface{}) string {
	for _, key := range nameProperties {
		if s, ok := props[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if code == "" {
		return ""
	}
	if c := countries.ByName(code); c.IsValid() {
		return c.String()
	}
	return code
}
