package dice

import (
	"github.com/boardbox/yahtzee/internal/dependencies/random"
	"github.com/boardbox/yahtzee/internal/model"
)

// Service produces dice rolls from an injectable random source
type Service struct {
	random random.Random
}

// New creates a new dice Service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Roll produces count independent die faces in [1, 6]
func (s *Service) Roll(count int) []int {
	faces := make([]int, count)
	for i := range faces {
		faces[i] = s.random.Die()
	}
	return faces
}

// Reroll returns a new dice set where every non-kept position has been
// rerolled. The input slices are not modified.
func (s *Service) Reroll(dice []int, kept []bool) []int {
	result := make([]int, len(dice))
	for i, face := range dice {
		if i < len(kept) && kept[i] {
			result[i] = face
		} else {
			result[i] = s.random.Die()
		}
	}
	return result
}

// Fixed scores for the pattern categories
const (
	fullHouseScore     = 25
	smallStraightScore = 30
	largeStraightScore = 40
	yahtzeeScore       = 50
)

// Evaluate scores the dice against a category using standard Yahtzee
// rules. It is a deterministic pure function and never fails; unknown
// categories are rejected by the session controller before evaluation
// and score 0 here.
func Evaluate(category model.Category, dice []int) int {
	if face := model.UpperFace(category); face != 0 {
		sum := 0
		for _, d := range dice {
			if d == face {
				sum += d
			}
		}
		return sum
	}

	counts := faceCounts(dice)

	switch category {
	case model.CategoryThreeOfAKind:
		if maxCount(counts) >= 3 {
			return sum(dice)
		}
		return 0

	case model.CategoryFourOfAKind:
		if maxCount(counts) >= 4 {
			return sum(dice)
		}
		return 0

	case model.CategoryFullHouse:
		hasPair, hasTriple := false, false
		for _, c := range counts {
			switch c {
			case 2:
				hasPair = true
			case 3:
				hasTriple = true
			}
		}
		if hasPair && hasTriple {
			return fullHouseScore
		}
		return 0

	case model.CategorySmallStraight:
		if longestRun(counts) >= 4 {
			return smallStraightScore
		}
		return 0

	case model.CategoryLargeStraight:
		if longestRun(counts) >= 5 {
			return largeStraightScore
		}
		return 0

	case model.CategoryYahtzee:
		if maxCount(counts) == len(dice) && len(dice) > 0 {
			return yahtzeeScore
		}
		return 0

	case model.CategoryChance:
		return sum(dice)
	}

	return 0
}

// faceCounts tallies dice by face, indexed 1..6
func faceCounts(dice []int) [7]int {
	var counts [7]int
	for _, d := range dice {
		if d >= 1 && d <= 6 {
			counts[d]++
		}
	}
	return counts
}

func maxCount(counts [7]int) int {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return max
}

// longestRun returns the length of the longest run of consecutive
// distinct faces present
func longestRun(counts [7]int) int {
	longest, run := 0, 0
	for face := 1; face <= 6; face++ {
		if counts[face] > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func sum(dice []int) int {
	total := 0
	for _, d := range dice {
		total += d
	}
	return total
}
