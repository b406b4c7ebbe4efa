package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SetTOMLValue sets key (dotted for sectioned keys) in an existing TOML
// document, leaving comments and unrelated lines alone. A missing key is
// added to its section, creating the section at the end when needed.
func SetTOMLValue(existing, key string, value any) (string, bool) {
	section, name := splitKey(key)
	assignment := name + " = " + tomlValue(value)

	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines)+3)
	current := ""
	done := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			if !done && current == section {
				// leaving the target section without having seen the key
				out = append(out, assignment)
				done = true
			}
			current = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		if !done && current == section {
			if k, ok := parseTOMLKey(line); ok && k == name {
				indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
				out = append(out, indent+assignment)
				done = true
				continue
			}
		}
		out = append(out, line)
	}

	if !done {
		if current == section {
			out = append(out, assignment)
		} else {
			if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
				out = append(out, "")
			}
			out = append(out, "["+section+"]", assignment)
		}
	}
	updated := strings.Join(out, "\n")
	return updated, updated != existing
}

func isSectionHeader(trim string) bool {
	if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
		return false
	}
	return strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]")
}

// UpdateTOML adds every option missing from existing with its default value.
func UpdateTOML(existing string) (string, bool, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(existing)); err != nil {
		return existing, false, fmt.Errorf("%w: %v", ErrParse, err)
	}
	out := existing
	changed := false
	for _, o := range GetConfigOptions() {
		if v.IsSet(o.Key) {
			continue
		}
		var c bool
		out, c = SetTOMLValue(out, o.Key, o.Default)
		changed = changed || c
	}
	return out, changed, nil
}
