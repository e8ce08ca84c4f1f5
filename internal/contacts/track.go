package contacts

import (
	"math"
	"sort"
)

// trackingCost combines center distance and shape difference between a
// new fit and an existing contact. Lower is better; matching is rejected
// entirely when the center distance exceeds cfg.TrackingMaxDistance.
func trackingCost(f fit, c Contact, cfg Config) (float64, bool) {
	dx := f.center.X - c.Center.X
	dy := f.center.Y - c.Center.Y
	dist := math.Hypot(dx, dy)
	if dist > cfg.TrackingMaxDistance {
		return 0, false
	}

	shapeDiff := math.Abs(f.size.X-c.Size.X) + math.Abs(f.size.Y-c.Size.Y)
	return dist + shapeDiff, true
}

type candidatePair struct {
	fitIdx, contactIdx int
	cost               float64
}

// matchContacts assigns each new fit to at most one existing contact
// using stable greedy bipartite matching: candidate pairs are sorted by
// cost ascending, and each pair is committed only if both its fit and its
// contact are still unmatched. It returns, for each fit index, the
// matched contact index or -1, and the set of contact indices left
// unmatched.
func matchContacts(fits []fit, prev []Contact, cfg Config) (fitToContact []int, unmatchedContacts []int) {
	fitToContact = make([]int, len(fits))
	for i := range fitToContact {
		fitToContact[i] = -1
	}

	var pairs []candidatePair
	for fi, f := range fits {
		for ci, c := range prev {
			cost, ok := trackingCost(f, c, cfg)
			if !ok {
				continue
			}
			pairs = append(pairs, candidatePair{fitIdx: fi, contactIdx: ci, cost: cost})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].cost < pairs[j].cost })

	fitUsed := make([]bool, len(fits))
	contactUsed := make([]bool, len(prev))

	for _, p := range pairs {
		if fitUsed[p.fitIdx] || contactUsed[p.contactIdx] {
			continue
		}
		fitUsed[p.fitIdx] = true
		contactUsed[p.contactIdx] = true
		fitToContact[p.fitIdx] = p.contactIdx
	}

	for ci, used := range contactUsed {
		if !used {
			unmatchedContacts = append(unmatchedContacts, ci)
		}
	}
	return fitToContact, unmatchedContacts
}

// applyStability updates a contact's stability counter given how much its
// center and size moved since last frame, and sets Stable once the
// contact has held within tolerance for cfg.StabilityFrames consecutive
// frames. Stability is sticky: it is never cleared once set.
func applyStability(c *Contact, prevCenter, prevSize Vec2, cfg Config) {
	if c.Stable {
		return
	}

	drift := math.Hypot(c.Center.X-prevCenter.X, c.Center.Y-prevCenter.Y)
	sizeDelta := math.Abs(c.Size.X-prevSize.X) + math.Abs(c.Size.Y-prevSize.Y)

	if drift <= cfg.StabilityPositionTolerance && sizeDelta <= cfg.StabilitySizeTolerance {
		c.stableRun++
	} else {
		c.stableRun = 1
	}

	if c.stableRun >= cfg.StabilityFrames {
		c.Stable = true
	}
}
