package inventory

// Aggregate merges candidates sharing a composite key, in first-seen
// order. quantity and value are summed and the unit cost is recomputed
// from the summed totals rather than averaged from the parts. the
// non-numeric fields keep whatever the first candidate carried, later
// duplicates only contribute quantity and value.
func Aggregate(candidates []Record) []Record {
	out := make([]Record, 0, len(candidates))
	index := make(map[string]int, len(candidates))

	for _, c := range candidates {
		i, seen := index[c.Key]
		if !seen {
			index[c.Key] = len(out)
			out = append(out, c)
			continue
		}

		out[i].Qty += c.Qty
		out[i].ActualValue += c.ActualValue
		// quantities can legitimately sum back to zero
		if out[i].Qty != 0 {
			out[i].ActualUnitCost = out[i].ActualValue / out[i].Qty
		} else {
			out[i].ActualUnitCost = 0
		}
	}

	return out
}
