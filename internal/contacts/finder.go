package contacts

import "sort"

// Finder runs blob detection, inter-frame tracking, and stability
// classification over successive normalized heatmap frames.
//
// Finder holds no references across calls: the only state it keeps
// between frames is the monotonic tracking-index counter. The contacts
// slice passed to Find is both the previous frame's tracking state (on
// entry) and the new frame's output (on return) — the same ownership
// model as the original C++ Application's m_contacts member.
type Finder struct {
	cfg      Config
	nextTrack int
}

// NewFinder creates a Finder tuned by cfg.
func NewFinder(cfg Config) *Finder {
	return &Finder{cfg: cfg}
}

// Find detects blobs in hm, tracks them against the contacts already in
// *out (the previous frame's result), and writes the new frame's
// contacts back into *out, sorted by tracking index ascending. Find never
// fails: a degenerate or empty heatmap simply produces no contacts.
func (f *Finder) Find(hm *Heatmap, out *[]Contact) {
	prev := *out

	candidateSeeds := seeds(hm, f.cfg)
	fits := make([]fit, 0, len(candidateSeeds))
	for _, s := range candidateSeeds {
		if ft, ok := gaussianFit(hm, s[0], s[1], f.cfg); ok {
			fits = append(fits, ft)
		}
	}

	fitToContact, unmatchedContacts := matchContacts(fits, prev, f.cfg)

	result := make([]Contact, 0, len(fits)+len(prev))

	for fi, ft := range fits {
		ci := fitToContact[fi]
		if ci >= 0 {
			c := prev[ci]
			prevCenter, prevSize := c.Center, c.Size
			c.Center = ft.center
			c.Size = ft.size
			c.Orientation = ft.orientation
			c.Age++
			c.missed = 0
			c.Valid = palmHeuristic(ft, f.cfg)
			applyStability(&c, prevCenter, prevSize, f.cfg)
			result = append(result, c)
			continue
		}

		c := Contact{
			Index:       f.nextTrack,
			Center:      ft.center,
			Size:        ft.size,
			Orientation: ft.orientation,
			Valid:       palmHeuristic(ft, f.cfg),
			stableRun:   1,
		}
		f.nextTrack++
		result = append(result, c)
	}

	for _, ci := range unmatchedContacts {
		c := prev[ci]
		c.missed++
		if c.missed > f.cfg.TrackingGrace {
			continue // expired: destroyed
		}
		c.Age++
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })

	*out = result
}

// palmHeuristic resolves the "palm-proximity pre-classification" the
// orchestrator's rejection-cone pass expects to see already applied
// (SPEC_FULL.md §4.C, Open Question decision in DESIGN.md): a fit whose
// major axis clears PalmSizeThreshold — while still inside the bounds
// that would otherwise have rejected it as degenerate — is flagged
// valid=false up front. Everything else starts out unknown.
func palmHeuristic(f fit, cfg Config) *bool {
	if f.size.X > cfg.PalmSizeThreshold {
		return boolPtr(false)
	}
	return nil
}
