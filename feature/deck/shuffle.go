package deck

import "math/rand"

// shuffleCards applies a uniform Fisher-Yates permutation in place.
func shuffleCards(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
