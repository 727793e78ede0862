package mastery

import (
	"math/rand/v2"
	"sync"

	"github.com/selfquiz/backend/internal/domain/question"
)

// Composer builds quizzes from classified pools. It owns its random
// source so output is reproducible for a fixed seed. Safe for concurrent use.
type Composer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewComposer creates a Composer drawing from src. A nil src gets a
// randomly seeded PCG source.
func NewComposer(src rand.Source) *Composer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Composer{rng: rand.New(src)}
}

// NewSeededComposer is shorthand for a Composer with a fixed PCG seed.
func NewSeededComposer(seed uint64) *Composer {
	return NewComposer(rand.NewPCG(seed, seed))
}

// Compose returns up to count questions, filling from unseen first, then
// the wrong pool, then the rest. Each tier is shuffled as a whole before it
// is appended; the result is truncated to count and never padded.
func (c *Composer) Compose(pools Pools, count int) []question.Question {
	if count <= 0 {
		return []question.Question{}
	}

	selected := make([]question.Question, 0, min(count, pools.Eligible()))
	for _, tier := range [][]question.Question{pools.Unseen, pools.Wrong, pools.Other} {
		if len(selected) >= count {
			break
		}
		selected = append(selected, c.Shuffle(tier)...)
	}

	if len(selected) > count {
		selected = selected[:count]
	}
	return selected
}

// ComposeFrom shuffles a single pool and truncates it to count.
func (c *Composer) ComposeFrom(pool []question.Question, count int) []question.Question {
	return c.Compose(Pools{Unseen: pool}, count)
}

// Shuffle returns a new slice with the questions in uniformly random order.
func (c *Composer) Shuffle(questions []question.Question) []question.Question {
	shuffled := make([]question.Question, len(questions))
	copy(shuffled, questions)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
