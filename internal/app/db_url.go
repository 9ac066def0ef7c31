package app

import (
	"net/url"
	"path/filepath"
	"strings"
)

var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// sqliteDSN turns a path or file: URI into a file: URI carrying the
// connection pragmas. Pragmas already present are kept.
func sqliteDSN(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "file:") {
		raw = "file:" + filepath.ToSlash(raw)
	}

	base, rawQuery, _ := strings.Cut(raw, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return raw
	}
	if len(query["_pragma"]) == 0 {
		query["_pragma"] = append([]string(nil), sqlitePragmas...)
	}
	return base + "?" + query.Encode()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "file:") {
		path, _, _ := strings.Cut(strings.TrimPrefix(trimmed, "file:"), "?")
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
