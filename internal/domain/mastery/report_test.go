package mastery_test

import (
	"math/rand/v2"
	"testing"

	"github.com/selfquiz/backend/internal/domain/mastery"
)

func TestReport(t *testing.T) {
	p := mastery.DefaultPolicy()

	var attempts []mastery.Attempt
	attempts = append(attempts, history(1, "o")...)
	attempts = append(attempts, history(2, "xoo")...)
	attempts = append(attempts, history(3, "ooooo")...)
	sessions := []mastery.SessionTotals{
		{TotalQuestions: 3, CorrectCount: 2},
		{TotalQuestions: 6, CorrectCount: 6},
	}

	r := p.Report(catalog(1, 2, 3, 4), attempts, sessions)

	if r.TotalQuestions != 4 {
		t.Errorf("expected 4 questions, got %d", r.TotalQuestions)
	}
	if r.TotalQuizzes != 2 {
		t.Errorf("expected 2 quizzes, got %d", r.TotalQuizzes)
	}
	if r.TotalAnswered != 9 {
		t.Errorf("expected 9 answered, got %d", r.TotalAnswered)
	}
	if r.Accuracy < 88.88 || r.Accuracy > 88.89 {
		t.Errorf("expected accuracy ~88.89, got %v", r.Accuracy)
	}
	if r.WrongQuestionsCount != 1 {
		t.Errorf("expected 1 wrong question, got %d", r.WrongQuestionsCount)
	}
	if r.MasteredQuestionsCount != 1 {
		t.Errorf("expected 1 mastered question, got %d", r.MasteredQuestionsCount)
	}
	if r.UnseenQuestionsCount != 1 {
		t.Errorf("expected 1 unseen question, got %d", r.UnseenQuestionsCount)
	}
}

func TestReport_NoSessions(t *testing.T) {
	r := mastery.DefaultPolicy().Report(nil, nil, nil)

	if r.Accuracy != 0 {
		t.Errorf("expected accuracy 0 without sessions, got %v", r.Accuracy)
	}
	if r.TotalAnswered != 0 || r.TotalQuizzes != 0 {
		t.Errorf("expected zero totals, got %+v", r)
	}
}

func TestReport_AgreesWithPartition(t *testing.T) {
	p := mastery.DefaultPolicy()
	rng := rand.New(rand.NewPCG(17, 23))
	cat := rangeCatalog(1, 40)

	for run := 0; run < 50; run++ {
		var attempts []mastery.Attempt
		for i := 0; i < 300; i++ {
			attempts = append(attempts, mastery.Attempt{
				QuestionID: int64(rng.IntN(45) + 1), // some ids are not in the catalog
				Correct:    rng.IntN(2) == 0,
			})
		}

		r := p.Report(cat, attempts, nil)
		stats := mastery.ComputeStats(attempts)

		wrong, mastered := 0, 0
		for _, q := range cat {
			s, ok := stats.Lookup(q.ID)
			if !ok {
				continue
			}
			if p.IsInWrongPool(s) {
				wrong++
			}
			if p.IsMastered(s) {
				mastered++
			}
		}

		if r.WrongQuestionsCount != wrong {
			t.Fatalf("run %d: report wrong count %d, classifier count %d", run, r.WrongQuestionsCount, wrong)
		}
		if r.MasteredQuestionsCount != mastered {
			t.Fatalf("run %d: report mastered count %d, classifier count %d", run, r.MasteredQuestionsCount, mastered)
		}
		if got := len(p.Partition(cat, stats).Wrong); got != r.WrongQuestionsCount {
			t.Fatalf("run %d: partition wrong pool %d, report %d", run, got, r.WrongQuestionsCount)
		}
	}
}
