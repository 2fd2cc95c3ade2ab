package analysis

// SortField specifies how breakdown rows are ordered.
type SortField string

const (
	// SortByCount sorts by issue count, highest first.
	SortByCount SortField = "count"
	// SortByAlpha sorts by rule ID or path.
	SortByAlpha SortField = "alpha"
	// SortBySeverity puts rows with errors first, then warnings.
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}
