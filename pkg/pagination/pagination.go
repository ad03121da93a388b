package pagination

const (
	// DefaultPageSize is how many rows each "show more" step reveals.
	DefaultPageSize = 20
	// MaxPageSize caps the step a caller may request.
	MaxPageSize = 100
)

// Page is the visible prefix of an ordered list.
type Page[T any] struct {
	Visible []T  `json:"visible"`
	Shown   int  `json:"shown"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NormalizePageSize enforces the default and maximum step sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// NormalizeShown maps a missing or non-positive cursor onto the first page.
func NormalizeShown(shown, pageSize int) int {
	if shown <= 0 {
		return NormalizePageSize(pageSize)
	}
	return shown
}

// Advance moves the shown-count cursor forward one step, never past total.
// A negative total means the length is unknown and the cursor is not clamped.
func Advance(shown, pageSize, total int) int {
	next := NormalizeShown(shown, pageSize)
	if shown > 0 {
		next = shown + NormalizePageSize(pageSize)
	}
	if total >= 0 && next > total {
		return total
	}
	return next
}

// Slice returns the first shown items of list. HasMore stays true while the
// cursor sits below the list length.
func Slice[T any](list []T, shown int) Page[T] {
	if shown < 0 {
		shown = 0
	}
	end := shown
	if end > len(list) {
		end = len(list)
	}
	visible := make([]T, end)
	copy(visible, list[:end])
	return Page[T]{
		Visible: visible,
		Shown:   end,
		Total:   len(list),
		HasMore: shown < len(list),
	}
}
