package domain

// Setting keys fixed by the application. Each key has an independent
// built-in default used whenever the key was never saved.
const (
	SettingTheme          = "theme"
	SettingShowScientific = "showScientific"
	SettingSortBy         = "sortBy"
)

// defaultSettings holds the built-in default for every known setting key.
var defaultSettings = map[string]any{
	SettingTheme:          "light",
	SettingShowScientific: true,
	SettingSortBy:         "frequency",
}

// DefaultSettings returns a fresh copy of the complete default mapping.
func DefaultSettings() map[string]any {
	defaults := make(map[string]any, len(defaultSettings))
	for key, value := range defaultSettings {
		defaults[key] = value
	}
	return defaults
}

// DefaultSetting returns the built-in default for a setting key, and whether
// the key is one the application knows about.
func DefaultSetting(key string) (any, bool) {
	value, ok := defaultSettings[key]
	return value, ok
}

// ValidateSetting checks that key is a known setting and value is acceptable
// for it. Returns ErrUnknownSetting for keys the application does not define
// and ErrInvalidFormat for out-of-range values.
func ValidateSetting(key string, value any) error {
	switch key {
	case SettingTheme:
		if value != "light" && value != "dark" {
			return ErrInvalidFormat
		}
	case SettingShowScientific:
		if _, ok := value.(bool); !ok {
			return ErrInvalidFormat
		}
	case SettingSortBy:
		if value != "frequency" && value != "alphabetical" && value != "random" {
			return ErrInvalidFormat
		}
	default:
		return ErrUnknownSetting
	}
	return nil
}
