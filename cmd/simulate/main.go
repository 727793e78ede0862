// Command simulate plays simulated learners through the quiz selection
// engine and reports how quickly a catalog gets mastered.
package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"

	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/simulation"
)

func main() {
	questions := flag.Int("questions", 50, "catalog size")
	quizSize := flag.Int("quiz-size", 10, "questions per quiz")
	rounds := flag.Int("rounds", 200, "maximum quizzes per run")
	recall := flag.Float64("recall", 0.5, "initial chance of a correct answer")
	gain := flag.Float64("gain", 0.1, "added chance per earlier correct answer")
	threshold := flag.Int("mastery", mastery.DefaultMasteryThreshold, "lifetime corrects for mastery")
	streak := flag.Int("streak", mastery.DefaultRecoveryStreak, "trailing corrects that leave the wrong pool")
	runs := flag.Int("runs", 16, "number of runs, seeded 1..runs")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel runs")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := simulation.Config{
		Questions: *questions,
		QuizSize:  *quizSize,
		Rounds:    *rounds,
		Learner:   simulation.Learner{Recall: *recall, Gain: *gain},
		Policy:    mastery.Policy{MasteryThreshold: *threshold, RecoveryStreak: *streak},
	}

	seeds := make([]uint64, *runs)
	for i := range seeds {
		seeds[i] = uint64(i + 1)
	}

	results := simulation.RunMany(cfg, seeds, *workers)
	for _, r := range results {
		logger.Debug("run complete",
			"seed", r.Seed,
			"rounds", r.RoundsPlayed,
			"mastered_at", r.MasteredAt,
			"mastered", r.Mastered,
			"accuracy", r.Accuracy(),
		)
	}

	s := simulation.Summarize(results, cfg.Questions)
	logger.Info("simulation summary",
		"runs", s.Runs,
		"fully_mastered", s.FullyMastered,
		"mean_mastered_at", s.MeanMasteredAt,
		"mean_accuracy", s.MeanAccuracy,
		"mean_mastered_pct", s.MeanMasteredPct,
	)
}
