package office

import (
	"errors"
	"fmt"
	"sort"
)

// Registry is the process-wide catalog of known offices. Built once at
// startup, never mutated afterwards.
type Registry struct {
	offices  []Office
	remote   Office
	holiday  Office
	primary  Office
	fallback Office
}

// NewRegistry builds a registry from a catalog plus the IDs of the four
// special roles: the remote office (no SSID matched), the holiday override,
// the primary office (ambiguous match without a location fix) and the
// fallback office (ambiguous match too far from any known site).
func NewRegistry(offices []Office, remoteID, holidayID, primaryID, fallbackID string) (*Registry, error) {
	r := &Registry{offices: offices}

	byID := make(map[string]Office, len(offices))
	for _, o := range offices {
		if o.ID == "" {
			return nil, errors.New("office without ID")
		}
		if _, dup := byID[o.ID]; dup {
			return nil, fmt.Errorf("duplicate office ID %q", o.ID)
		}
		byID[o.ID] = o
	}

	var ok bool
	if r.remote, ok = byID[remoteID]; !ok {
		return nil, fmt.Errorf("remote office %q not in catalog", remoteID)
	}
	if r.holiday, ok = byID[holidayID]; !ok {
		return nil, fmt.Errorf("holiday office %q not in catalog", holidayID)
	}
	if r.primary, ok = byID[primaryID]; !ok {
		return nil, fmt.Errorf("primary office %q not in catalog", primaryID)
	}
	if r.fallback, ok = byID[fallbackID]; !ok {
		return nil, fmt.Errorf("fallback office %q not in catalog", fallbackID)
	}
	return r, nil
}

func (r *Registry) Offices() []Office { return r.offices }
func (r *Registry) Remote() Office    { return r.remote }
func (r *Registry) Holiday() Office   { return r.holiday }
func (r *Registry) Primary() Office   { return r.primary }
func (r *Registry) Fallback() Office  { return r.fallback }

// IsRemote reports whether o is the registry's remote office.
func (r *Registry) IsRemote(o Office) bool { return o.ID == r.remote.ID }

// Resolve maps an observed network identity and an optional location fix to
// an office. Zero SSID matches mean working remotely; a single match is
// unambiguous; multiple matches are disambiguated by distance when a fix is
// available, with a guard against attributing a shared network to a site
// that is nowhere near.
func (r *Registry) Resolve(ssid string, loc *Location) Office {
	var candidates []Office
	for _, o := range r.offices {
		if o.HasSSID(ssid) {
			candidates = append(candidates, o)
		}
	}

	switch len(candidates) {
	case 0:
		return r.remote
	case 1:
		return candidates[0]
	}

	if loc == nil {
		return r.primary
	}

	located := candidates[:0]
	for _, o := range candidates {
		if o.Location != nil {
			located = append(located, o)
		}
	}
	if len(located) == 0 {
		return r.fallback
	}

	sort.Slice(located, func(i, j int) bool {
		return located[i].DistanceTo(*loc) < located[j].DistanceTo(*loc)
	})
	if located[0].DistanceTo(*loc) < DistanceToMatch {
		return located[0]
	}
	return r.fallback
}

// ByGlyph is the reverse lookup used when importing an existing remote
// status into local state on cold start.
func (r *Registry) ByGlyph(glyph string) (Office, bool) {
	for _, o := range r.offices {
		if o.Glyph == glyph {
			return o, true
		}
	}
	return Office{}, false
}
