package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fibnas/md-echo/internal/theme"
	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem found in v, joined.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if wd := expandHome(strings.TrimSpace(v.GetString("working_dir"))); wd != "" && !isDir(wd) {
		errs = append(errs, fmt.Errorf("working_dir %s is not a directory", wd))
	}

	switch strings.ToLower(strings.TrimSpace(v.GetString("theme.base"))) {
	case "", theme.Dark, theme.Light:
	default:
		errs = append(errs, fmt.Errorf("theme.base must be %q or %q", theme.Dark, theme.Light))
	}
	for _, key := range []string{"background", "panel", "text", "accent", "hyperlink"} {
		raw := strings.TrimSpace(v.GetString("theme." + key))
		if raw == "" {
			continue
		}
		if _, _, err := theme.ParseColor(raw); err != nil {
			errs = append(errs, fmt.Errorf("theme.%s: %v", key, err))
		}
	}

	for _, key := range []string{"tools.lint", "tools.format"} {
		if cmd := stringList(v, key); cmd != nil && len(cmd) == 0 {
			errs = append(errs, fmt.Errorf("%s must not be an empty list", key))
		}
	}

	if v.IsSet("preview.line_height") && v.GetInt("preview.line_height") < 1 {
		errs = append(errs, errors.New("preview.line_height must be greater than 0"))
	}
	if v.GetInt("session.recent_limit") < 0 {
		errs = append(errs, errors.New("session.recent_limit must not be negative"))
	}

	return errors.Join(errs...)
}
