package models

// Common units offered for metrics. Any other string is accepted as a
// custom unit.
const (
	UnitKg      = "kg"
	UnitLb      = "lb"
	UnitCm      = "cm"
	UnitMm      = "mm"
	UnitPercent = "percent"
	UnitBpm     = "bpm"
	UnitKcal    = "kcal"
	UnitCount   = "count"
)

// Metric is a user-defined numeric series (body weight, resting heart
// rate, etc.).
type Metric struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Unit    string   `json:"unit"`
	Muscles []string `json:"muscles,omitempty"`
	SyncMeta
}

// MetricRecord is a single measurement of a metric.
//
// Metric is a denormalized copy of the parent, filled by the server on
// reads; locally it may be stale or nil.
type MetricRecord struct {
	ID       string   `json:"id"`
	MetricID string   `json:"metricId"`
	Metric   *Metric  `json:"metric,omitempty"`
	Value    float64  `json:"value"`
	Date     string   `json:"date"`
	Note     string   `json:"note,omitempty"`
	SyncMeta
}

// MetricPayload is the field set sent on metric create and update.
type MetricPayload struct {
	Name    string   `json:"name"`
	Unit    string   `json:"unit"`
	Muscles []string `json:"muscles,omitempty"`
}

// MetricRecordPayload is the field set sent on metric record create and
// update.
type MetricRecordPayload struct {
	MetricID string  `json:"metricId"`
	Value    float64 `json:"value"`
	Date     string  `json:"date"`
	Note     string  `json:"note,omitempty"`
}
