package inventory

import (
	"strconv"
	"strings"

	"shottys-backend/lib/scrapers/markov"
)

type NormalizeOptions struct {
	// YYYY-MM-DD, rows whose Date does not start with it are dropped
	ReferenceDate string
	// owner code to area name, defaults to DefaultOwnerMap
	Owners map[string]string
	// areas kept in the output, defaults to DefaultAllowedAreas
	AllowedAreas []string
}

// Normalize reshapes decoded dashboard rows into candidate records:
// remap the owner code, keep only yesterday's rows for the allowed
// areas, derive the composite key and the unit cost. input order is
// preserved.
func Normalize(rows []markov.Row, opts NormalizeOptions) []Record {
	owners := opts.Owners
	if owners == nil {
		owners = DefaultOwnerMap
	}
	areas := opts.AllowedAreas
	if areas == nil {
		areas = DefaultAllowedAreas
	}
	allowed := make(map[string]bool, len(areas))
	for _, a := range areas {
		allowed[a] = true
	}

	var out []Record
	for _, row := range rows {
		// unknown owner codes pass through as the raw string
		area := row["Owner"]
		if name, ok := owners[area]; ok {
			area = name
		}

		date, ok := row["Date"]
		if !ok || !strings.HasPrefix(date, opts.ReferenceDate) || !allowed[area] {
			continue
		}
		day := date
		if len(day) > 10 {
			day = day[:10]
		}

		item := row["ItemCode"]
		sublot := row["Sublot"]
		if sublot == "" {
			sublot = "0"
		}

		qty := parseFloat(row["Qty"])
		value := parseFloat(row["ActualValue"])
		unitCost := 0.0
		if qty != 0 && value != 0 {
			unitCost = value / qty
		}

		out = append(out, Record{
			Key:            item + "-" + sublot + "-" + area + "-" + day,
			Date:           day,
			Item:           item,
			Area:           area,
			Qty:            qty,
			ActualValue:    value,
			ActualUnitCost: unitCost,
			GLGroup:        row["GLGroup"],
			Type:           row["Type"],
			Unit:           row["Unit"],
		})
	}
	return out
}

// the dashboard is not consistent about numeric formatting, anything
// unparsable counts as zero instead of failing the row
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
