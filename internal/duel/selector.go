package duel

// Best returns the single most profitable opportunity from one scan
// cycle's candidates. Ties keep the first-seen candidate, so selection is
// stable for a given scan order. An empty set yields nil.
func Best(opps []*Opportunity) *Opportunity {
	if len(opps) == 0 {
		return nil
	}

	best := opps[0]
	for _, o := range opps[1:] {
		if o.EstimatedProfit > best.EstimatedProfit {
			best = o
		}
	}

	return best
}
