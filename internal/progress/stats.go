package progress

import (
	"math"

	"github.com/mind-engage/courseplayer/internal/sequence"
)

// ComputeStats counts over countable lessons. A course without any countable
// lesson is measured over its whole sequence.
func ComputeStats(seq *sequence.Sequence, s State) Stats {
	countableOnly := seq.CountableTotal() > 0
	var st Stats
	for i := 0; i < seq.Len(); i++ {
		l, _ := seq.LessonAt(i)
		if countableOnly && !l.Countable() {
			continue
		}
		st.TotalLessons++
		lp, ok := s.ByLesson[l.Key]
		if !ok {
			continue
		}
		if IsCompleted(l, lp) {
			st.CompletedLessons++
		}
		if lp.ExPassed {
			st.PassedLessons++
		}
	}
	st.Percentage = percentage(st.CompletedLessons, st.TotalLessons)
	return st
}

func percentage(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
