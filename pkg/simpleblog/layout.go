package simpleblog

import "math/rand"

// Probability of the neutral square variant at non-anchored positions.
const squareProbability = 0.6

// AssignLayout returns the layout variant and grid hint for the post at the
// given position within an ordered collection of total posts.
//
// Positions where index mod 6 == 1 are always wide-horizontal and positions
// where index mod 6 == 3 are always tall-vertical. Remaining positions pick
// pseudo-randomly between square and tall-vertical, seeded by (index, total)
// so repeated calls with identical inputs yield identical output. Rationing
// the wide and tall variants to roughly a third of positions keeps a fixed
// 2-4 column grid from leaving trailing holes.
func AssignLayout(index, total int) (LayoutVariant, string) {
	var variant LayoutVariant
	switch {
	case index%6 == 1:
		variant = LayoutWideHorizontal
	case index%6 == 3:
		variant = LayoutTallVertical
	default:
		if layoutRoll(index, total) < squareProbability {
			variant = LayoutSquare
		} else {
			variant = LayoutTallVertical
		}
	}
	return variant, variant.GridHint()
}

// layoutRoll produces a deterministic value in [0,1) seeded by position and
// collection size. Seeding by both avoids the visible periodicity a single
// fixed seed produces across the page.
func layoutRoll(index, total int) float64 {
	seed := int64(index)*2654435761 + int64(total)*40503
	return rand.New(rand.NewSource(seed)).Float64()
}

// assignAll computes layout assignments for an ordered collection.
func assignAll(posts []*Post) []PostLayout {
	layouts := make([]PostLayout, 0, len(posts))
	for i, post := range posts {
		variant, hint := AssignLayout(i, len(posts))
		layouts = append(layouts, PostLayout{PostID: post.ID, Variant: variant, Hint: hint})
	}
	return layouts
}

// distributionOf summarizes assignments into counts and percentages.
func distributionOf(layouts []PostLayout) *LayoutDistribution {
	dist := &LayoutDistribution{
		Total:     len(layouts),
		ByVariant: make(map[LayoutVariant]int),
		Percent:   make(map[LayoutVariant]float64),
	}
	for _, l := range layouts {
		dist.ByVariant[l.Variant]++
	}
	if dist.Total > 0 {
		for v, n := range dist.ByVariant {
			dist.Percent[v] = float64(n) * 100 / float64(dist.Total)
		}
	}
	return dist
}
