package inventory

import "time"

// DefaultOwnerMap translates the dashboard's internal owner codes into
// area names. data, not logic, so deployments can override it from
// config without touching the transform.
var DefaultOwnerMap = map[string]string{
	"4":      "SHOTTYS",
	"100314": "MARKETING",
	"100374": "IMPACKFUL",
}

// DefaultAllowedAreas lists the areas that make it into the report.
// MARKETING rows are decoded and remapped like any other but stay out
// of the output on purpose.
var DefaultAllowedAreas = []string{"SHOTTYS", "IMPACKFUL"}

// Record is one inventory-cost line, identified by its composite key
// item-sublot-area-date. duplicates sharing a key are merged by
// Aggregate before the record ever leaves the pipeline.
type Record struct {
	Key            string  `db:"key"`
	Date           string  `db:"date"`
	Item           string  `db:"item"`
	Area           string  `db:"area"`
	Qty            float64 `db:"qty"`
	ActualValue    float64 `db:"actual_value"`
	ActualUnitCost float64 `db:"actual_unit_cost"`
	GLGroup        string  `db:"gl_group"`
	Type           string  `db:"type"`
	Unit           string  `db:"unit"`
}

// ReferenceDate returns the day before now, formatted the way the
// dashboard prefixes its Date column. each run reports on yesterday's
// inventory movement.
func ReferenceDate(now time.Time) string {
	return now.AddDate(0, 0, -1).Format("2006-01-02")
}
