// Package source defines the optional proxy data sources a demand
// estimation run can draw evidence from, and the matching that picks the
// best record per (keyword, source).
package source

import "strings"

// SourceType identifies one proxy data source.
type SourceType string

const (
	SourceApple      SourceType = "apple"      // Apple search-console proxy metrics
	SourceGoogle     SourceType = "google"     // Google Keyword Planner export
	SourceTracker    SourceType = "tracker"    // third-party ASO tracker metrics
	SourceCompetitor SourceType = "competitor" // competitor corpus term coverage
	SourceIntent     SourceType = "intent"     // first-party intent-signal miner
)

// AllSourceTypes returns all known source types.
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceApple,
		SourceGoogle,
		SourceTracker,
		SourceCompetitor,
		SourceIntent,
	}
}

// Platform is a normalized store platform.
type Platform string

const (
	PlatformUnspecified Platform = ""
	PlatformIOS         Platform = "ios"
	PlatformAndroid     Platform = "android"
)

// ParsePlatform normalizes the platform vocabulary the various exports use.
// Unknown values collapse to unspecified.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ios", "apple", "appstore":
		return PlatformIOS
	case "android", "google", "play":
		return PlatformAndroid
	}
	return PlatformUnspecified
}

// NormalizeKeyword case-folds and collapses whitespace; this is the identity
// key for keyword rows and source indexes.
func NormalizeKeyword(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// NormalizeLocale lowercases and trims a locale hint.
func NormalizeLocale(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KeywordRequest is one row of the required keyword table. Locale and
// platform are matching hints, not identity.
type KeywordRequest struct {
	Keyword  string
	Locale   string
	Platform Platform

	// RawLocale and RawPlatform preserve the input cells for reporting.
	RawLocale   string
	RawPlatform string
}

// Normalized returns the identity key for this request.
func (k KeywordRequest) Normalized() string {
	return NormalizeKeyword(k.Keyword)
}
