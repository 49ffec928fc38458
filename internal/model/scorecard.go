package model

// Category is one of the 13 fixed Yahtzee scoring slots
type Category string

const (
	CategoryOnes   Category = "ones"
	CategoryTwos   Category = "twos"
	CategoryThrees Category = "threes"
	CategoryFours  Category = "fours"
	CategoryFives  Category = "fives"
	CategorySixes  Category = "sixes"

	CategoryThreeOfAKind  Category = "three_of_a_kind"
	CategoryFourOfAKind   Category = "four_of_a_kind"
	CategoryFullHouse     Category = "full_house"
	CategorySmallStraight Category = "small_straight"
	CategoryLargeStraight Category = "large_straight"
	CategoryYahtzee       Category = "yahtzee"
	CategoryChance        Category = "chance"
)

// Categories lists all scoring slots in scorecard order
var Categories = []Category{
	CategoryOnes, CategoryTwos, CategoryThrees,
	CategoryFours, CategoryFives, CategorySixes,
	CategoryThreeOfAKind, CategoryFourOfAKind, CategoryFullHouse,
	CategorySmallStraight, CategoryLargeStraight, CategoryYahtzee,
	CategoryChance,
}

// upperFaces maps the six upper-section categories to their die face
var upperFaces = map[Category]int{
	CategoryOnes:   1,
	CategoryTwos:   2,
	CategoryThrees: 3,
	CategoryFours:  4,
	CategoryFives:  5,
	CategorySixes:  6,
}

// UpperFace returns the die face for an upper-section category, or 0 for
// lower-section categories
func UpperFace(category Category) int {
	return upperFaces[category]
}

// IsKnownCategory reports whether the given name is one of the 13 slots
func IsKnownCategory(category Category) bool {
	if _, ok := upperFaces[category]; ok {
		return true
	}
	switch category {
	case CategoryThreeOfAKind, CategoryFourOfAKind, CategoryFullHouse,
		CategorySmallStraight, CategoryLargeStraight, CategoryYahtzee, CategoryChance:
		return true
	}
	return false
}

// Upper-section bonus thresholds
const (
	UpperBonusThreshold = 63
	UpperBonusValue     = 35
)

// ScoreCard records a single player's filled categories. Map presence
// distinguishes a stored zero from an unfilled slot.
type ScoreCard struct {
	Scores map[Category]int
}

// NewScoreCard creates an empty score card
func NewScoreCard() *ScoreCard {
	return &ScoreCard{Scores: make(map[Category]int)}
}

// Fill stores a score for a category. Each category is write-once: a
// second fill fails and leaves the stored value untouched.
func (c *ScoreCard) Fill(category Category, score int) error {
	if !IsKnownCategory(category) {
		return ErrUnknownCategory
	}
	if _, filled := c.Scores[category]; filled {
		return ErrCategoryFilled
	}
	c.Scores[category] = score
	return nil
}

// IsFilled reports whether the category already holds a score
func (c *ScoreCard) IsFilled(category Category) bool {
	_, filled := c.Scores[category]
	return filled
}

// IsComplete returns true iff all 13 categories are filled
func (c *ScoreCard) IsComplete() bool {
	return len(c.Scores) == len(Categories)
}

// UpperSubtotal sums the filled upper-section categories
func (c *ScoreCard) UpperSubtotal() int {
	sum := 0
	for category := range upperFaces {
		if score, ok := c.Scores[category]; ok {
			sum += score
		}
	}
	return sum
}

// UpperBonus returns 35 if the upper subtotal has reached the threshold
func (c *ScoreCard) UpperBonus() int {
	if c.UpperSubtotal() >= UpperBonusThreshold {
		return UpperBonusValue
	}
	return 0
}

// LowerSubtotal sums the filled lower-section categories
func (c *ScoreCard) LowerSubtotal() int {
	sum := 0
	for category, score := range c.Scores {
		if UpperFace(category) == 0 {
			sum += score
		}
	}
	return sum
}

// Total recomputes the grand total on demand. Nothing is cached, so the
// total is always consistent with the stored values.
func (c *ScoreCard) Total() int {
	return c.UpperSubtotal() + c.UpperBonus() + c.LowerSubtotal()
}

// Clone returns a deep copy of the score card
func (c *ScoreCard) Clone() *ScoreCard {
	clone := NewScoreCard()
	for category, score := range c.Scores {
		clone.Scores[category] = score
	}
	return clone
}
