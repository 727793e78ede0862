package mastery_test

import (
	"testing"

	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/domain/question"
)

func rangeCatalog(from, to int64) []question.Question {
	var idList []int64
	for id := from; id <= to; id++ {
		idList = append(idList, id)
	}
	return catalog(idList...)
}

func inRange(qs []question.Question, from, to int64) bool {
	for _, q := range qs {
		if q.ID < from || q.ID > to {
			return false
		}
	}
	return true
}

func TestCompose_FillsFromUnseenFirst(t *testing.T) {
	c := mastery.NewSeededComposer(42)
	pools := mastery.Pools{
		Unseen: rangeCatalog(1, 5),
		Wrong:  rangeCatalog(101, 110),
		Other:  rangeCatalog(201, 220),
	}

	for i := 0; i < 50; i++ {
		got := c.Compose(pools, 3)
		if len(got) != 3 {
			t.Fatalf("expected 3 questions, got %d", len(got))
		}
		if !inRange(got, 1, 5) {
			t.Fatalf("expected only unseen questions, got %v", ids(got))
		}
	}
}

func TestCompose_TierOrder(t *testing.T) {
	c := mastery.NewSeededComposer(7)
	pools := mastery.Pools{
		Unseen: rangeCatalog(1, 5),
		Wrong:  rangeCatalog(101, 110),
		Other:  rangeCatalog(201, 220),
	}

	got := c.Compose(pools, 20)

	if len(got) != 20 {
		t.Fatalf("expected 20 questions, got %d", len(got))
	}
	if !inRange(got[:5], 1, 5) {
		t.Errorf("expected first 5 to be unseen, got %v", ids(got[:5]))
	}
	if !inRange(got[5:15], 101, 110) {
		t.Errorf("expected next 10 to be wrong pool, got %v", ids(got[5:15]))
	}
	if !inRange(got[15:], 201, 220) {
		t.Errorf("expected last 5 to be other, got %v", ids(got[15:]))
	}
}

func TestCompose_UnderFill(t *testing.T) {
	c := mastery.NewSeededComposer(1)

	if got := c.Compose(mastery.Pools{}, 10); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}

	pools := mastery.Pools{Unseen: rangeCatalog(1, 2), Other: rangeCatalog(3, 3)}
	if got := c.Compose(pools, 10); len(got) != 3 {
		t.Errorf("expected all 3 eligible questions, got %d", len(got))
	}
}

func TestCompose_ZeroAndNegativeCount(t *testing.T) {
	c := mastery.NewSeededComposer(1)
	pools := mastery.Pools{Unseen: rangeCatalog(1, 5)}

	if got := c.Compose(pools, 0); len(got) != 0 {
		t.Errorf("expected no questions for count 0, got %d", len(got))
	}
	if got := c.Compose(pools, -3); len(got) != 0 {
		t.Errorf("expected no questions for negative count, got %d", len(got))
	}
}

func TestCompose_NoDuplicates(t *testing.T) {
	c := mastery.NewSeededComposer(3)
	pools := mastery.Pools{
		Unseen: rangeCatalog(1, 4),
		Wrong:  rangeCatalog(5, 8),
		Other:  rangeCatalog(9, 12),
	}

	got := c.Compose(pools, 12)

	seen := make(map[int64]bool)
	for _, q := range got {
		if seen[q.ID] {
			t.Errorf("question %d selected twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestCompose_SameSeedSameQuiz(t *testing.T) {
	pools := mastery.Pools{Unseen: rangeCatalog(1, 30)}

	a := mastery.NewSeededComposer(99).Compose(pools, 10)
	b := mastery.NewSeededComposer(99).Compose(pools, 10)

	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("expected identical order for identical seeds, got %v and %v", ids(a), ids(b))
		}
	}
}

func TestCompose_DoesNotMutatePools(t *testing.T) {
	c := mastery.NewSeededComposer(5)
	unseen := rangeCatalog(1, 10)

	c.Compose(mastery.Pools{Unseen: unseen}, 10)

	for i, q := range unseen {
		if q.ID != int64(i+1) {
			t.Fatalf("expected pool order untouched, got %v", ids(unseen))
		}
	}
}

func TestShuffle_Unbiased(t *testing.T) {
	c := mastery.NewSeededComposer(11)
	qs := rangeCatalog(1, 4)

	const runs = 8000
	firstCounts := make(map[int64]int)
	for i := 0; i < runs; i++ {
		firstCounts[c.Shuffle(qs)[0].ID]++
	}

	// Each of the 4 questions should lead roughly a quarter of the time.
	for id := int64(1); id <= 4; id++ {
		n := firstCounts[id]
		if n < runs/4-300 || n > runs/4+300 {
			t.Errorf("question %d led %d of %d shuffles", id, n, runs)
		}
	}
}

func TestComposeFrom(t *testing.T) {
	c := mastery.NewSeededComposer(8)

	got := c.ComposeFrom(rangeCatalog(1, 6), 4)

	if len(got) != 4 || !inRange(got, 1, 6) {
		t.Errorf("expected 4 questions from the pool, got %v", ids(got))
	}
}

func TestEndToEnd_ComposeAfterHistory(t *testing.T) {
	p := mastery.DefaultPolicy()
	c := mastery.NewSeededComposer(2024)

	var attempts []mastery.Attempt
	attempts = append(attempts, history(1, "o")...)
	attempts = append(attempts, history(2, "xoo")...)
	attempts = append(attempts, history(3, "ooooo")...)

	pools := p.Partition(catalog(1, 2, 3), mastery.ComputeStats(attempts))

	got := c.Compose(pools, 10)

	if len(got) != 2 {
		t.Fatalf("expected 2 eligible questions, got %v", ids(got))
	}
	if got[0].ID != 2 {
		t.Errorf("expected wrong-pool question 2 first, got %v", ids(got))
	}
	if got[1].ID != 1 {
		t.Errorf("expected other-tier question 1 last, got %v", ids(got))
	}

	if one := c.Compose(pools, 1); len(one) != 1 || one[0].ID != 2 {
		t.Errorf("expected exactly [2] for a single-question quiz, got %v", ids(one))
	}
}
