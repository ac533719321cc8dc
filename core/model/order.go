package model

// Order is one schedulable imaging request. DollarPerArea starts as the value
// carried by the input table and may be overwritten once by pricing resolution
// before any scheduling happens.
type Order struct {
	ID            string
	Latitude      float64
	Longitude     float64
	CustomerID    int
	TaskPriority  int
	DollarPerArea float64
	// MaxCloudCover is the per-order ceiling: the order only pays out when the
	// realized cloud cover stays strictly below it.
	MaxCloudCover float64
}
