package content

import (
	"fmt"
	"strings"
)

// Synthetic ids injected by the normalizer.
const (
	IntroLessonID   = "intro"
	ClosingLessonID = "closing"
	FinalExamID     = "final-exam"
	CapstoneID      = "capstone"
	CourseWrapID    = "course-wrap"
)

// Decode normalizes a raw course document. It never fails: malformed input
// degrades to an empty course.
func Decode(raw any) Course {
	doc := asObject(raw)
	return Course{
		ID:          doc.str("id"),
		Title:       doc.str("title"),
		Description: doc.str("description"),
		Units:       Normalize(raw),
	}
}

// Normalize turns a raw course document into ordered units. The same input
// always yields the same lesson keys.
func Normalize(raw any) []Unit {
	doc := asObject(raw)
	n := &normalizer{units: map[string]bool{}, keys: map[string]bool{}}

	var units []Unit
	for ui, ru := range doc.list("units") {
		ro := asObject(ru)
		if ro == nil {
			continue
		}
		units = append(units, n.unit(ui, ro))
	}

	if exam := doc.obj("finalExam"); exam != nil {
		intro := exam.str("intro", "text")
		video := exam.str("video", "videoUrl")
		exercises := parseExercises(exam.list("exercises"))
		if hasText(intro) || video != "" || len(exercises) > 0 {
			units = append(units, n.synthetic(FinalExamID, orDefault(exam.str("title"), "Final exam"), Lesson{
				Kind:           KindExam,
				Text:           intro,
				VideoRef:       video,
				Exercises:      exercises,
				ForceExercises: true,
			}))
		}
	}

	if cp := doc.obj("capstone"); cp != nil {
		brief := &CapstoneBrief{
			Instructions: cp.str("instructions", "description", "text"),
			Checklist:    cp.strings("checklist"),
		}
		if hasText(cp.str("title")) || hasText(brief.Instructions) || len(brief.Checklist) > 0 {
			units = append(units, n.synthetic(CapstoneID, orDefault(cp.str("title"), "Capstone project"), Lesson{
				Kind:           KindCapstone,
				Text:           brief.Instructions,
				ForceExercises: true,
				Capstone:       brief,
			}))
		}
	}

	if wrap := doc.obj("courseWrap"); wrap != nil {
		text := wrap.str("text")
		video := wrap.str("video", "videoUrl")
		if hasText(text) || video != "" {
			units = append(units, n.synthetic(CourseWrapID, orDefault(wrap.str("title"), "Course wrap-up"), Lesson{
				Kind:           KindText,
				Text:           text,
				VideoRef:       video,
				ForceExercises: true,
			}))
		}
	}
	return units
}

type normalizer struct {
	units map[string]bool
	keys  map[string]bool
}

func (n *normalizer) unit(ui int, ro object) Unit {
	u := Unit{
		ID:    n.unitID(ro.str("id"), fmt.Sprintf("unit-%d", ui)),
		Title: orDefault(ro.str("title"), fmt.Sprintf("Unit %d", ui+1)),
	}

	if intro := ro.str("description", "intro"); hasText(intro) {
		u.Lessons = append(u.Lessons, n.lesson(u.ID, IntroLessonID, "", Lesson{
			Kind:           KindText,
			Title:          "Unit overview",
			Text:           intro,
			ForceExercises: true,
			Synthetic:      true,
		}))
	}

	for li, rl := range ro.list("lessons") {
		lo := asObject(rl)
		if lo == nil {
			continue
		}
		kind := KindVideo
		if strings.EqualFold(lo.str("type"), string(KindText)) {
			kind = KindText
		}
		u.Lessons = append(u.Lessons, n.lesson(u.ID, lo.str("id"), fmt.Sprintf("lesson-%d-%d", ui, li), Lesson{
			Kind:           kind,
			Title:          orDefault(lo.str("title"), fmt.Sprintf("Lesson %d", li+1)),
			Text:           lo.str("text", "content"),
			VideoRef:       lo.str("video", "videoUrl"),
			DocumentRef:    lo.str("pdf", "pdfUrl", "document"),
			Exercises:      parseExercises(lo.list("exercises")),
			ForceExercises: lo.boolean("forceExercises"),
			FinalMessage:   lo.str("finalMessage"),
		}))
	}

	closingText := ro.str("closingText")
	closingExercises := parseExercises(ro.list("closingExercises"))
	if hasText(closingText) || len(closingExercises) > 0 {
		u.Lessons = append(u.Lessons, n.lesson(u.ID, ClosingLessonID, "", Lesson{
			Kind:           KindText,
			Title:          "Unit closing",
			Text:           closingText,
			Exercises:      closingExercises,
			ForceExercises: true,
			Synthetic:      true,
		}))
	}
	return u
}

// synthetic wraps a single injected lesson in its own unit.
func (n *normalizer) synthetic(id, title string, l Lesson) Unit {
	unitID := n.unitID(id, id)
	l.Title = title
	l.Synthetic = true
	return Unit{
		ID:        unitID,
		Title:     title,
		Synthetic: true,
		Lessons:   []Lesson{n.lesson(unitID, id, "", l)},
	}
}

func (n *normalizer) unitID(id, fallback string) string {
	if id == "" || n.units[id] {
		id = fallback
	}
	for n.units[id] {
		id = "_" + id
	}
	n.units[id] = true
	return id
}

// lesson assigns the lesson's identity. A missing or duplicate id falls back
// to the placeholder; synthetic ids are prefixed until unique.
func (n *normalizer) lesson(unitID, id, placeholder string, l Lesson) Lesson {
	if id == "" || n.keys[LessonKey(unitID, id)] {
		if placeholder != "" {
			id = placeholder
		}
	}
	for n.keys[LessonKey(unitID, id)] {
		id = "_" + id
	}
	l.ID = id
	l.UnitID = unitID
	l.Key = LessonKey(unitID, id)
	n.keys[l.Key] = true
	return l
}

func parseExercises(list []any) []Exercise {
	out := make([]Exercise, 0, len(list))
	seen := map[string]bool{}
	for i, re := range list {
		eo := asObject(re)
		if eo == nil {
			continue
		}
		id := eo.str("id")
		if id == "" || seen[id] {
			id = fmt.Sprintf("ex-%d", i)
		}
		for seen[id] {
			id = "_" + id
		}
		ex := parseExercise(id, eo)
		if ex == nil {
			continue
		}
		seen[id] = true
		out = append(out, ex)
	}
	return out
}

func parseExercise(id string, eo object) Exercise {
	prompt := eo.str("prompt", "question")
	switch ExerciseKind(eo.str("type")) {
	case MultipleChoiceKind:
		correct, ok := toInt(eo["correctIndex"])
		if !ok {
			if correct, ok = toInt(eo["answer"]); !ok {
				correct = -1
			}
		}
		return MultipleChoice{ID: id, Prompt: prompt, Options: eo.strings("options"), CorrectIndex: correct}
	case TrueFalseKind:
		return TrueFalse{ID: id, Prompt: prompt, Answer: eo.boolean("answer")}
	case TextKind:
		return FreeText{ID: id, Prompt: prompt, Reference: eo.str("answer")}
	case FillBlankKind:
		return FillBlank{ID: id, Prompt: prompt, Sentence: eo.str("sentence", "text"), Expected: eo.strings("answers")}
	case ReorderKind:
		items := eo.strings("items")
		order := eo.ints("correctOrder")
		if len(order) == 0 {
			order = make([]int, len(items))
			for i := range order {
				order[i] = i
			}
		}
		return Reorder{ID: id, Prompt: prompt, Items: items, CorrectOrder: order}
	case MatchingKind:
		var pairs []Pair
		for _, rp := range eo.list("pairs") {
			if po := asObject(rp); po != nil {
				pairs = append(pairs, Pair{Left: po.str("left"), Right: po.str("right")})
			}
		}
		right := eo.strings("rightOptions")
		if len(right) == 0 {
			for _, p := range pairs {
				right = append(right, p.Right)
			}
		}
		return Matching{ID: id, Prompt: prompt, Pairs: pairs, RightOptions: right}
	}
	return nil
}

func orDefault(s, def string) string {
	if hasText(s) {
		return s
	}
	return def
}
