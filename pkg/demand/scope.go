package demand

import (
	"fmt"

	"kwradar/pkg/source"
)

// Scope restricts which store platforms, and therefore which proxy sources,
// a run considers relevant.
type Scope string

const (
	ScopeAuto        Scope = "auto"
	ScopeIOSOnly     Scope = "ios_only"
	ScopeAndroidOnly Scope = "android_only"
	ScopeDual        Scope = "dual"
)

// ParseScope validates a requested scope string.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeAuto, ScopeIOSOnly, ScopeAndroidOnly, ScopeDual:
		return Scope(s), nil
	}
	return "", fmt.Errorf("invalid app scope %q (want auto, ios_only, android_only or dual)", s)
}

// SourcePresence records which optional source tables were supplied for the
// run. It is one of the hints auto scope inference uses.
type SourcePresence struct {
	Apple      bool
	Google     bool
	Tracker    bool
	Competitor bool
	Intent     bool
}

// ResolveScope turns a requested scope into a concrete one. Auto is
// inferred in two steps: first from the platforms the keyword rows declare,
// then from which platform-specific source files were supplied. Mixed or
// unknown evidence falls back to dual.
func ResolveScope(requested Scope, rows []source.KeywordRequest, present SourcePresence) Scope {
	if requested != ScopeAuto {
		return requested
	}

	var sawIOS, sawAndroid bool
	for _, r := range rows {
		switch r.Platform {
		case source.PlatformIOS:
			sawIOS = true
		case source.PlatformAndroid:
			sawAndroid = true
		}
	}

	switch {
	case sawIOS && sawAndroid:
		return ScopeDual
	case sawIOS:
		return ScopeIOSOnly
	case sawAndroid:
		return ScopeAndroidOnly
	}

	appleSide := present.Apple || present.Intent
	switch {
	case present.Google && !appleSide:
		return ScopeAndroidOnly
	case appleSide && !present.Google:
		return ScopeIOSOnly
	}
	return ScopeDual
}

// Policy is the resolved, run-wide scope decision. It is derived once per
// batch and refined per row through RowComponents.
type Policy struct {
	Scope Scope
}

// EffectivePlatform resolves a row's platform under the policy: single
// platform scopes force it, dual scope keeps the row's own hint.
func (p Policy) EffectivePlatform(row source.Platform) source.Platform {
	switch p.Scope {
	case ScopeIOSOnly:
		return source.PlatformIOS
	case ScopeAndroidOnly:
		return source.PlatformAndroid
	}
	return row
}

// BaseComponents is the scope-level eligible source set, before per-row
// refinement.
func (p Policy) BaseComponents() map[source.SourceType]bool {
	switch p.Scope {
	case ScopeIOSOnly:
		return set(source.SourceApple, source.SourceTracker, source.SourceCompetitor, source.SourceIntent)
	case ScopeAndroidOnly:
		return set(source.SourceGoogle, source.SourceTracker, source.SourceCompetitor)
	}
	return set(source.AllSourceTypes()...)
}

// RowComponents narrows the base set for a row's effective platform. In
// dual scope an iOS row drops the planner source and an Android row drops
// the Apple-side sources, so an irrelevant source cannot dilute the score.
func (p Policy) RowComponents(effective source.Platform) map[source.SourceType]bool {
	allowed := p.BaseComponents()
	if p.Scope == ScopeDual {
		switch effective {
		case source.PlatformIOS:
			delete(allowed, source.SourceGoogle)
		case source.PlatformAndroid:
			delete(allowed, source.SourceApple)
			delete(allowed, source.SourceIntent)
		}
	}
	return allowed
}

func set(types ...source.SourceType) map[source.SourceType]bool {
	m := make(map[source.SourceType]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return m
}

// Weights are the per-source fusion weights. Negative values are treated
// as zero.
type Weights struct {
	Apple      float64 `yaml:"apple" json:"apple"`
	Google     float64 `yaml:"google" json:"google"`
	Tracker    float64 `yaml:"tracker" json:"tracker"`
	Competitor float64 `yaml:"competitor" json:"competitor"`
	Intent     float64 `yaml:"intent" json:"intent"`
}

// DefaultWeights returns the tuned default proportions.
func DefaultWeights() Weights {
	return Weights{
		Apple:      0.30,
		Google:     0.30,
		Tracker:    0.25,
		Competitor: 0.10,
		Intent:     0.05,
	}
}

// ForScope returns the effective weight map under a resolved scope:
// negative weights floored at zero and scope-excluded sources forced to
// zero so they can never contribute.
func (w Weights) ForScope(scope Scope) map[source.SourceType]float64 {
	m := map[source.SourceType]float64{
		source.SourceApple:      max0(w.Apple),
		source.SourceGoogle:     max0(w.Google),
		source.SourceTracker:    max0(w.Tracker),
		source.SourceCompetitor: max0(w.Competitor),
		source.SourceIntent:     max0(w.Intent),
	}
	switch scope {
	case ScopeIOSOnly:
		m[source.SourceGoogle] = 0
	case ScopeAndroidOnly:
		m[source.SourceApple] = 0
		m[source.SourceIntent] = 0
	}
	return m
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
