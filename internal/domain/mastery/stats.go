package mastery

// Attempt is one graded answer in the attempt history. The position of an
// Attempt in the history slice is its chronological order.
type Attempt struct {
	QuestionID int64
	Correct    bool
}

// QuestionStats tracks performance for a single question, derived from
// its attempts in order.
type QuestionStats struct {
	QuestionID int64
	Correct    int  // lifetime correct answers
	Streak     int  // trailing consecutive correct answers
	EverWrong  bool // any incorrect answer seen
}

// Record folds one more attempt into the stats.
func (qs *QuestionStats) Record(correct bool) {
	if correct {
		qs.Correct++
		qs.Streak++
		return
	}
	qs.Streak = 0
	qs.EverWrong = true
}

// Stats maps question ids to their derived statistics. A question with
// no entry has never been attempted.
type Stats map[int64]QuestionStats

// ComputeStats folds the attempt history, in the order given, into
// per-question statistics.
func ComputeStats(history []Attempt) Stats {
	stats := make(Stats)
	for _, a := range history {
		s, ok := stats[a.QuestionID]
		if !ok {
			s = QuestionStats{QuestionID: a.QuestionID}
		}
		s.Record(a.Correct)
		stats[a.QuestionID] = s
	}
	return stats
}

// Lookup returns the stats for a question and whether it has been attempted.
func (s Stats) Lookup(questionID int64) (QuestionStats, bool) {
	qs, ok := s[questionID]
	return qs, ok
}
