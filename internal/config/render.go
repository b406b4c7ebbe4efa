package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders the commented default config.toml. Keys without
// a dot come first, then one table per section in option order.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# md-echo configuration (TOML)\n")
	for _, t := range tablesOf(GetConfigOptions()) {
		if t.name != "" {
			fmt.Fprintf(&b, "\n[%s]\n", t.name)
		}
		for _, o := range t.options {
			b.WriteString("\n")
			if o.Comment != "" {
				fmt.Fprintf(&b, "# %s\n", o.Comment)
			}
			fmt.Fprintf(&b, "%s = %s\n", o.Key, tomlValue(o.Default))
		}
	}
	return b.String()
}

// table is one TOML table; options carry keys relative to it.
type table struct {
	name    string
	options []ConfigOption
}

func tablesOf(opts []ConfigOption) []table {
	tables := []table{{}}
	index := map[string]int{"": 0}
	for _, o := range opts {
		name, key := splitKey(o.Key)
		i, ok := index[name]
		if !ok {
			i = len(tables)
			index[name] = i
			tables = append(tables, table{name: name})
		}
		o.Key = key
		tables[i].options = append(tables[i].options, o)
	}
	return tables
}

// splitKey splits "section.key" into its table and key; top-level keys have
// an empty table.
func splitKey(full string) (string, string) {
	if i := strings.IndexByte(full, '.'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return "", full
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "#") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return tomlString(v)
	case bool, int, int64:
		return fmt.Sprintf("%v", v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = tomlString(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return tomlString(fmt.Sprint(v))
	}
}

func tomlString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return `"` + r.Replace(s) + `"`
}
