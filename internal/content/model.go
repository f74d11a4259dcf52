package content

// LessonKind is the lesson variant.
type LessonKind string

const (
	KindVideo    LessonKind = "video" // primary authored lesson, countable
	KindText     LessonKind = "text"
	KindExam     LessonKind = "exam"
	KindCapstone LessonKind = "capstone"
)

// Course is a normalized course snapshot. It is read-only to the player.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Units       []Unit `json:"units"`
}

// Unit is an ordered group of lessons.
type Unit struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Lessons   []Lesson `json:"lessons"`
	Synthetic bool     `json:"synthetic,omitempty"`
}

// Lesson is immutable once normalized; Key is its identity.
type Lesson struct {
	Key            string         `json:"key"`
	UnitID         string         `json:"unitId"`
	ID             string         `json:"id"`
	Kind           LessonKind     `json:"kind"`
	Title          string         `json:"title"`
	Text           string         `json:"text,omitempty"`
	VideoRef       string         `json:"videoRef,omitempty"`
	DocumentRef    string         `json:"documentRef,omitempty"`
	Exercises      []Exercise     `json:"-"`
	ForceExercises bool           `json:"forceExercises"`
	FinalMessage   string         `json:"finalMessage,omitempty"`
	Synthetic      bool           `json:"synthetic,omitempty"`
	Capstone       *CapstoneBrief `json:"capstone,omitempty"`
}

// CapstoneBrief is the capstone lesson's own submission contract.
type CapstoneBrief struct {
	Instructions string   `json:"instructions,omitempty"`
	Checklist    []string `json:"checklist"`
}

// LessonKey joins unit and lesson ids into the stable lesson key.
func LessonKey(unitID, lessonID string) string {
	return unitID + "::" + lessonID
}

func (l Lesson) HasVideo() bool    { return l.VideoRef != "" }
func (l Lesson) HasDocument() bool { return l.DocumentRef != "" }

// Countable reports whether the lesson takes part in "{unit}.{n}" numbering
// and in completion percentage.
func (l Lesson) Countable() bool { return l.Kind == KindVideo }

// Lesson returns the lesson with the given key.
func (c Course) Lesson(key string) (Lesson, bool) {
	for _, u := range c.Units {
		for _, l := range u.Lessons {
			if l.Key == key {
				return l, true
			}
		}
	}
	return Lesson{}, false
}
