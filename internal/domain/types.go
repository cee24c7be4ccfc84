package domain

type SortMode string

const (
	SortBySize  SortMode = "size"
	SortByName  SortMode = "name"
	SortByCount SortMode = "count"
)

// ParseSortMode returns fallback for unknown values.
func ParseSortMode(value string, fallback SortMode) SortMode {
	switch SortMode(value) {
	case SortBySize, SortByName, SortByCount:
		return SortMode(value)
	default:
		return fallback
	}
}

func (mode SortMode) Next() SortMode {
	switch mode {
	case SortBySize:
		return SortByName
	case SortByName:
		return SortByCount
	default:
		return SortBySize
	}
}
