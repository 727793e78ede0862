// internal/simulation/simulation.go
package simulation

import (
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/domain/question"
	"github.com/selfquiz/backend/internal/domain/quiz"
	"github.com/selfquiz/backend/internal/grader"
	"github.com/selfquiz/backend/internal/worker"
)

// Learner models how likely a simulated user is to answer correctly: the
// chance starts at Recall and grows by Gain for every earlier correct
// answer to the same question.
type Learner struct {
	Recall float64
	Gain   float64
}

func (l Learner) chance(s mastery.QuestionStats) float64 {
	return min(1, l.Recall+l.Gain*float64(s.Correct))
}

type Config struct {
	Questions int
	QuizSize  int
	Rounds    int
	Learner   Learner
	Policy    mastery.Policy
}

// Result describes one simulated study run.
type Result struct {
	Seed         uint64
	RoundsPlayed int
	// MasteredAt is the round after which every question was mastered, or
	// 0 if that never happened within Rounds.
	MasteredAt int
	Mastered   int
	Answered   int
	Correct    int
}

// Accuracy returns the percentage of correct answers, or 0.
func (r Result) Accuracy() float64 {
	return quiz.Score(r.Correct, r.Answered)
}

// Run plays up to cfg.Rounds quizzes against a synthetic catalog, feeding
// every graded answer back into the history the next quiz is drawn from.
// The same seed always produces the same Result.
func Run(cfg Config, seed uint64) Result {
	catalog := syntheticCatalog(cfg.Questions)
	composer := mastery.NewSeededComposer(seed)
	answers := rand.New(rand.NewPCG(seed, ^seed))

	var history []mastery.Attempt
	res := Result{Seed: seed}

	for round := 1; round <= cfg.Rounds; round++ {
		stats := mastery.ComputeStats(history)
		selected := composer.Compose(cfg.Policy.Partition(catalog, stats), cfg.QuizSize)
		if len(selected) == 0 {
			break
		}

		items := make([]grader.Item, len(selected))
		for i, q := range selected {
			s, _ := stats.Lookup(q.ID)
			pick := "B"
			if answers.Float64() < cfg.Learner.chance(s) {
				pick = "A"
			}
			items[i] = grader.Item{QuestionID: q.ID, CorrectAnswers: q.CorrectAnswers, Submitted: []string{pick}}
		}

		session := grader.GradeBatch(quiz.ModeStandard, items)
		for _, d := range session.Details {
			history = append(history, mastery.Attempt{QuestionID: d.QuestionID, Correct: d.IsCorrect})
		}
		res.RoundsPlayed = round
		res.Answered += session.TotalQuestions
		res.Correct += session.CorrectCount

		pools := cfg.Policy.Partition(catalog, mastery.ComputeStats(history))
		res.Mastered = len(pools.Mastered)
		if pools.Eligible() == 0 {
			res.MasteredAt = round
			break
		}
	}
	return res
}

// RunMany runs one simulation per seed on a worker pool and returns the
// results ordered by seed.
func RunMany(cfg Config, seeds []uint64, workers int) []Result {
	pool := worker.NewPool[Result](workers, len(seeds))
	for _, seed := range seeds {
		pool.Submit(strconv.FormatUint(seed, 10), func() Result {
			return Run(cfg, seed)
		})
	}
	pool.Close()

	results := make([]Result, 0, len(seeds))
	for r := range pool.Results() {
		results = append(results, r.Output)
	}
	slices.SortFunc(results, func(a, b Result) int {
		switch {
		case a.Seed < b.Seed:
			return -1
		case a.Seed > b.Seed:
			return 1
		}
		return 0
	})
	return results
}

type Summary struct {
	Runs            int
	FullyMastered   int
	MeanMasteredAt  float64 // over fully mastered runs only
	MeanAccuracy    float64
	MeanMasteredPct float64
}

func Summarize(results []Result, questions int) Summary {
	s := Summary{Runs: len(results)}
	if len(results) == 0 {
		return s
	}
	var masteredAt, accuracy, masteredPct float64
	for _, r := range results {
		accuracy += r.Accuracy()
		if questions > 0 {
			masteredPct += float64(r.Mastered) / float64(questions) * 100
		}
		if r.MasteredAt > 0 {
			s.FullyMastered++
			masteredAt += float64(r.MasteredAt)
		}
	}
	n := float64(len(results))
	s.MeanAccuracy = accuracy / n
	s.MeanMasteredPct = masteredPct / n
	if s.FullyMastered > 0 {
		s.MeanMasteredAt = masteredAt / float64(s.FullyMastered)
	}
	return s
}

func syntheticCatalog(n int) []question.Question {
	catalog := make([]question.Question, n)
	for i := range catalog {
		catalog[i] = question.Question{
			ID:             int64(i + 1),
			Content:        "Simulated question " + strconv.Itoa(i+1),
			Options:        []string{"right", "wrong"},
			CorrectAnswers: []string{"A"},
		}
	}
	return catalog
}
