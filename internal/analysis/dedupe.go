package analysis

// Deduplicate drops rows that exactly repeat an earlier row. The first
// occurrence keeps its position. Applying it twice yields the same table.
func Deduplicate[T comparable](rows []T) (out []T, removed int) {
	seen := make(map[T]struct{}, len(rows))
	out = make([]T, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r]; dup {
			removed++
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out, removed
}

// CountDuplicates counts rows that exactly repeat an earlier row without
// removing them.
func CountDuplicates[T comparable](rows []T) int {
	_, removed := Deduplicate(rows)
	return removed
}
