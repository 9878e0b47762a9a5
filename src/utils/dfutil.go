package utils

import (
	"github.com/go-gota/gota/dataframe"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn reports whether the DataFrame carries a column with the given name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IntRange returns [from, to) as a slice of column indexes.
func IntRange(from, to int) []int {
	if to < from {
		to = from
	}
	idx := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		idx = append(idx, i)
	}
	return idx
}

// CountNonNull counts the non-missing values in a named column.
func CountNonNull(df dataframe.DataFrame, name string) int {
	col := df.Col(name)
	count := 0
	for _, isNaN := range col.IsNaN() {
		if !isNaN {
			count++
		}
	}
	return count
}
