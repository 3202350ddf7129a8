package testing

// PairWithFirst splits ids into pairs where first element is always the first provided id
// e.g. [0, 1, 2, 3] -> [[0,1], [0,2], [0,3]]. It returns no pairs for less than two ids.
func PairWithFirst(ids []int64) [][]int64 {
	if len(ids) < 2 {
		return [][]int64{}
	}

	pairs := make([][]int64, 0, len(ids)-1)
	for i := 1; i < len(ids); i++ {
		pairs = append(pairs, []int64{ids[0], ids[i]})
	}

	return pairs
}

// Reverse returns reversed copy of s
func Reverse[T any](s []T) []T {
	reversed := make([]T, len(s))
	copy(reversed, s)

	for i := len(reversed)/2 - 1; i >= 0; i-- {
		opp := len(reversed) - 1 - i
		reversed[i], reversed[opp] = reversed[opp], reversed[i]
	}

	return reversed
}
