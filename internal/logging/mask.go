package logging

import (
	"log/slog"
	"net/url"
	"strings"
)

const (
	// MaskChar is the character used for masking.
	MaskChar = "*"
	// URLMaskLength is how many characters of a URL stay visible.
	URLMaskLength = 30
	// DefaultMaskLength is how many mask characters follow a partial value.
	DefaultMaskLength = 3
)

// SensitiveFields contains field names whose values are never logged.
var SensitiveFields = map[string]bool{
	"token":         true,
	"secret":        true,
	"password":      true,
	"api_key":       true,
	"apikey":        true,
	"access_token":  true,
	"auth":          true,
	"authorization": true,
	"bearer":        true,
	"credential":    true,
	"credentials":   true,
	"webhook_url":   true,
}

// MaskURL keeps the scheme and host of a URL and masks the rest. Slack
// incoming webhook URLs carry their secret in the path.
func MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		if len(raw) <= URLMaskLength {
			return raw
		}
		return raw[:URLMaskLength] + strings.Repeat(MaskChar, DefaultMaskLength)
	}
	if u.Path == "" || u.Path == "/" {
		return u.Scheme + "://" + u.Host
	}
	return u.Scheme + "://" + u.Host + "/" + strings.Repeat(MaskChar, DefaultMaskLength)
}

// MaskValue masks a sensitive value completely.
func MaskValue(value string) string {
	if value == "" {
		return ""
	}
	return strings.Repeat(MaskChar, min(len(value), 8))
}

// MaskPartial masks a value but shows the first few characters.
func MaskPartial(value string, showChars int) string {
	if len(value) <= showChars {
		return strings.Repeat(MaskChar, len(value))
	}
	return value[:showChars] + strings.Repeat(MaskChar, DefaultMaskLength)
}

// IsSensitiveField reports whether a field name indicates secret data.
func IsSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	if SensitiveFields[lower] {
		return true
	}
	for keyword := range SensitiveFields {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// MaskArgs masks sensitive values in key-value logging arguments.
func MaskArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}

	result := make([]any, len(args))
	copy(result, args)

	for i := 0; i < len(result)-1; i += 2 {
		key, ok := result[i].(string)
		if !ok || !IsSensitiveField(key) {
			continue
		}
		if strVal, ok := result[i+1].(string); ok {
			result[i+1] = MaskValue(strVal)
		} else {
			result[i+1] = strings.Repeat(MaskChar, 8)
		}
	}
	return result
}

// MaskSensitiveData masks sensitive values in a string map.
func MaskSensitiveData(m map[string]string) map[string]string {
	result := make(map[string]string, len(m))
	for key, value := range m {
		if IsSensitiveField(key) {
			result[key] = MaskValue(value)
		} else {
			result[key] = value
		}
	}
	return result
}

// maskAttr is the slog ReplaceAttr hook installed on every handler.
func maskAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == KeyRunID || !IsSensitiveField(a.Key) {
		return a
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, MaskValue(a.Value.String()))
	}
	return slog.String(a.Key, strings.Repeat(MaskChar, 8))
}
