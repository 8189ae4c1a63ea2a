package sds

import (
	"strconv"
	"strings"
)

// StringSplit splits s around every occurrence of sep. Empty fields are
// kept, so the result always has at least one element.
func StringSplit(s string, sep byte) []string {
	return strings.Split(s, string(sep))
}

// StringMap builds a key-value map out of items, each split at its first
// occurrence of sep. Items without sep and items with an empty key are
// skipped; empty values are kept. Later items win on duplicate keys.
//
//	settings := sds.StringMap(sds.StringSplit("a=0 b=3 c=5", ' '), '=')
//	settings["b"] // "3"
func StringMap(items []string, sep byte) map[string]string {
	m := make(map[string]string, len(items))
	for _, item := range items {
		key, value, found := strings.Cut(item, string(sep))
		if !found || key == "" {
			continue
		}
		m[key] = value
	}
	return m
}

// parseLong parses s the way strtol does with base 0: optional leading
// whitespace and sign, then a 0x-prefixed hex, 0-prefixed octal or decimal
// number that must run to the end of s.
func parseLong(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}

	// strconv also reads 0o and 0b prefixes, strtol does not
	body := strings.TrimLeft(s, "+-")
	if len(body) > 1 && body[0] == '0' && strings.IndexByte("oObB", body[1]) >= 0 {
		return 0, false
	}

	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ToU32 parses value as an integer and truncates it to 32 bits.
func ToU32(value string) (uint32, bool) {
	v, ok := parseLong(value)
	return uint32(v), ok
}

// ToU32WithDefault is ToU32 returning defaultValue on failure.
func ToU32WithDefault(value string, defaultValue uint32) uint32 {
	if v, ok := ToU32(value); ok {
		return v
	}
	return defaultValue
}

// ToU16 parses value as an integer and truncates it to 16 bits.
func ToU16(value string) (uint16, bool) {
	v, ok := parseLong(value)
	return uint16(v), ok
}

// ToU16WithDefault is ToU16 returning defaultValue on failure.
func ToU16WithDefault(value string, defaultValue uint16) uint16 {
	if v, ok := ToU16(value); ok {
		return v
	}
	return defaultValue
}
