package game

// IsMatch returns whether the three cards form a match: for each of the four
// properties, the cards must be either all the same or all different.
func IsMatch(cards [3]Card) bool {
	a, b, c := cards[0].properties(), cards[1].properties(), cards[2].properties()
	for i := range a {
		if distinct(a[i], b[i], c[i]) == 2 {
			return false
		}
	}
	return true
}

// distinct counts the number of distinct values among the three.
func distinct(x, y, z Property) int {
	switch {
	case x == y && y == z:
		return 1
	case x != y && y != z && x != z:
		return 3
	}
	return 2
}

// FindMatches returns the index triples (in increasing order) of every match among cards.
func FindMatches(cards []Card) [][3]int {
	var matches [][3]int
	n := len(cards)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if IsMatch([3]Card{cards[i], cards[j], cards[k]}) {
					matches = append(matches, [3]int{i, j, k})
				}
			}
		}
	}
	return matches
}
