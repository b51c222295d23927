package source

// Record matching: when several records of one source share a keyword, the
// one with the highest locale/platform affinity wins. A locale-agnostic
// record is weakly preferred over a wrong-locale one; same for platform.
const (
	affinityLocaleExact    = 3
	affinityLocaleAbsent   = 1
	affinityPlatformExact  = 2
	affinityPlatformAbsent = 1
)

func affinity[M any](rec Record[M], locale string, platform Platform) int {
	score := 0
	if rec.Locale != "" && locale != "" && rec.Locale == locale {
		score += affinityLocaleExact
	} else if rec.Locale == "" {
		score += affinityLocaleAbsent
	}
	if rec.Platform != PlatformUnspecified && platform != PlatformUnspecified && rec.Platform == platform {
		score += affinityPlatformExact
	} else if rec.Platform == PlatformUnspecified {
		score += affinityPlatformAbsent
	}
	return score
}

// Best returns the record with the highest affinity for the request's
// locale and effective platform, or nil when the keyword has no records.
// Ties keep the first-seen record in source file order.
func (idx Index[M]) Best(keyword, locale string, platform Platform) *Record[M] {
	recs := idx[keyword]
	if len(recs) == 0 {
		return nil
	}
	best := 0
	bestScore := affinity(recs[0], locale, platform)
	for i := 1; i < len(recs); i++ {
		if s := affinity(recs[i], locale, platform); s > bestScore {
			best, bestScore = i, s
		}
	}
	return &recs[best]
}
