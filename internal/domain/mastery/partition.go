package mastery

import "github.com/selfquiz/backend/internal/domain/question"

// Pools is the catalog split by classification. Order within each pool
// follows catalog order. Mastered questions are never eligible for a quiz;
// they are kept only so callers can list them.
type Pools struct {
	Unseen   []question.Question
	Wrong    []question.Question
	Other    []question.Question
	Mastered []question.Question
}

// Eligible returns the number of questions a quiz may draw from.
func (p Pools) Eligible() int {
	return len(p.Unseen) + len(p.Wrong) + len(p.Other)
}

// Partition assigns every catalog question to exactly one pool.
func (p Policy) Partition(catalog []question.Question, stats Stats) Pools {
	var pools Pools
	for _, q := range catalog {
		switch p.StateOf(stats, q.ID) {
		case StateUnseen:
			pools.Unseen = append(pools.Unseen, q)
		case StateMastered:
			pools.Mastered = append(pools.Mastered, q)
		case StateWrong:
			pools.Wrong = append(pools.Wrong, q)
		default:
			pools.Other = append(pools.Other, q)
		}
	}
	return pools
}
