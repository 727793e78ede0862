package mastery

import "github.com/selfquiz/backend/internal/domain/question"

// SessionTotals is the per-quiz summary the report sums over.
type SessionTotals struct {
	TotalQuestions int
	CorrectCount   int
}

// Report is the global progress rollup.
type Report struct {
	TotalQuestions         int
	TotalQuizzes           int
	TotalAnswered          int
	TotalCorrect           int
	Accuracy               float64 // 0-100
	WrongQuestionsCount    int
	MasteredQuestionsCount int
	UnseenQuestionsCount   int
}

// Report computes the rollup. Wrong and mastered counts come from the same
// ComputeStats + Partition path that quiz composition uses, restricted to
// questions still in the catalog.
func (p Policy) Report(catalog []question.Question, history []Attempt, sessions []SessionTotals) Report {
	r := Report{
		TotalQuestions: len(catalog),
		TotalQuizzes:   len(sessions),
	}
	for _, s := range sessions {
		r.TotalAnswered += s.TotalQuestions
		r.TotalCorrect += s.CorrectCount
	}
	if r.TotalAnswered > 0 {
		r.Accuracy = float64(r.TotalCorrect) / float64(r.TotalAnswered) * 100
	}

	pools := p.Partition(catalog, ComputeStats(history))
	r.WrongQuestionsCount = len(pools.Wrong)
	r.MasteredQuestionsCount = len(pools.Mastered)
	r.UnseenQuestionsCount = len(pools.Unseen)
	return r
}
