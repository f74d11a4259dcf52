package progress

import (
	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/sequence"
)

// StructureSnapshot is a denormalized copy of the course outline stored
// next to progress for reporting.
type StructureSnapshot struct {
	Units []UnitMeta `json:"units"`
}

type UnitMeta struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Lessons []LessonMeta `json:"lessons"`
}

type LessonMeta struct {
	Key            string             `json:"key"`
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Kind           content.LessonKind `json:"kind"`
	Number         string             `json:"number,omitempty"`
	Exercises      int                `json:"exercises"`
	HasVideo       bool               `json:"hasVideo"`
	HasDocument    bool               `json:"hasDocument"`
	ForceExercises bool               `json:"forceExercises"`
}

func Structure(seq *sequence.Sequence) StructureSnapshot {
	units := seq.Units()
	out := StructureSnapshot{Units: make([]UnitMeta, 0, len(units))}
	for _, u := range units {
		um := UnitMeta{ID: u.ID, Title: u.Title, Lessons: make([]LessonMeta, 0, len(u.Lessons))}
		for _, l := range u.Lessons {
			um.Lessons = append(um.Lessons, LessonMeta{
				Key:            l.Key,
				ID:             l.ID,
				Title:          l.Title,
				Kind:           l.Kind,
				Number:         seq.Number(l.Key),
				Exercises:      len(l.Exercises),
				HasVideo:       l.HasVideo(),
				HasDocument:    l.HasDocument(),
				ForceExercises: l.ForceExercises,
			})
		}
		out.Units = append(out.Units, um)
	}
	return out
}
