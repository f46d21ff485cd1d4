package repo

// SortField and SortOrder form a closed enumeration mapped to fixed ORDER BY
// fragments. Caller input never reaches the query text: unknown values fall
// back to the defaults without error.
type SortField string

type SortOrder string

const (
	SortByCreatedAt SortField = "created_at"
	SortByStatus    SortField = "status"
	SortByTitle     SortField = "title"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortField maps a raw query value to a known field, defaulting to
// created_at.
func ParseSortField(raw string) SortField {
	switch SortField(raw) {
	case SortByStatus:
		return SortByStatus
	case SortByTitle:
		return SortByTitle
	default:
		return SortByCreatedAt
	}
}

// ParseSortOrder maps a raw query value to a known order, defaulting to desc.
func ParseSortOrder(raw string) SortOrder {
	if SortOrder(raw) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}

// orderBy returns the fixed clause for a field/order pair. Every combination
// is spelled out so no string is ever built from input.
func orderBy(f SortField, o SortOrder) string {
	switch {
	case f == SortByStatus && o == OrderAsc:
		return "ORDER BY status ASC"
	case f == SortByStatus && o == OrderDesc:
		return "ORDER BY status DESC"
	case f == SortByTitle && o == OrderAsc:
		return "ORDER BY title ASC"
	case f == SortByTitle && o == OrderDesc:
		return "ORDER BY title DESC"
	case f == SortByCreatedAt && o == OrderAsc:
		return "ORDER BY created_at ASC"
	default:
		return "ORDER BY created_at DESC"
	}
}
