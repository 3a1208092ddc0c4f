package quiz

import "time"

// Kind is the question type.
type Kind string

const (
	KindSingle   Kind = "single"
	KindMultiple Kind = "multiple"
	KindJudgment Kind = "judgment"
)

// ParseKind maps a free-form type label to a Kind. Anything unrecognized
// is treated as single choice.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindMultiple:
		return KindMultiple
	case KindJudgment:
		return KindJudgment
	default:
		return KindSingle
	}
}

// Label returns a human-readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindMultiple:
		return "Multiple choice"
	case KindJudgment:
		return "True / false"
	default:
		return "Single choice"
	}
}

// JudgmentOptions is the fixed option list for judgment questions.
// Index 0 is the affirmative answer.
var JudgmentOptions = []string{"Correct", "Incorrect"}

// Question is a single quiz item. Questions are immutable once imported.
type Question struct {
	ID            string   `json:"id" validate:"required"`
	Text          string   `json:"question" validate:"required"`
	Kind          Kind     `json:"type" validate:"oneof=single multiple judgment"`
	Options       []string `json:"options" validate:"min=1"`
	CorrectAnswer Answer   `json:"correctAnswer"`
	Category      string   `json:"category,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Validate checks the correct-answer invariants: indices in range, and for
// multiple choice a non-empty duplicate-free set.
func (q Question) Validate() error {
	n := len(q.Options)
	switch q.Kind {
	case KindMultiple:
		idx, ok := q.CorrectAnswer.Indices()
		if !ok {
			return &ValidationError{Field: "correctAnswer", Reason: "multiple choice needs a set of indices"}
		}
		if len(idx) == 0 {
			return &ValidationError{Field: "correctAnswer", Reason: "empty answer set"}
		}
		seen := make(map[int]bool, len(idx))
		for _, i := range idx {
			if i < 0 || i >= n {
				return &ValidationError{Field: "correctAnswer", Reason: "index out of range"}
			}
			if seen[i] {
				return &ValidationError{Field: "correctAnswer", Reason: "duplicate index"}
			}
			seen[i] = true
		}
	default:
		i, ok := q.CorrectAnswer.Index()
		if !ok {
			return &ValidationError{Field: "correctAnswer", Reason: "needs a single index"}
		}
		if i < 0 || i >= n {
			return &ValidationError{Field: "correctAnswer", Reason: "index out of range"}
		}
	}
	return nil
}

// Bank is a named, ordered collection of questions.
type Bank struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
	CreatedAt Millis     `json:"createdAt"`
}

// Question looks up a question by id.
func (b *Bank) Question(id string) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// UserAnswer is one entry of the append-only answer log. IsCorrect is
// computed once at submission time and never recomputed.
type UserAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer Answer `json:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	Timestamp      Millis `json:"timestamp"`
}

// Mode distinguishes practice runs from exams.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeExam     Mode = "exam"
)

// StudySession is a completed practice or exam run.
type StudySession struct {
	ID        string       `json:"id"`
	BankID    string       `json:"bankId"`
	Answers   []UserAnswer `json:"answers"`
	StartTime Millis       `json:"startTime"`
	EndTime   *Millis      `json:"endTime,omitempty"`
	Mode      Mode         `json:"mode"`
	Score     *float64     `json:"score,omitempty"`
}

// DailyRecord accumulates activity for one local calendar date.
type DailyRecord struct {
	Date              string `json:"date"`
	QuestionsAnswered int    `json:"questionsAnswered"`
	CorrectAnswers    int    `json:"correctAnswers"`
	StudyTime         int    `json:"studyTime"`
}

// DateLayout is the layout of DailyRecord.Date.
const DateLayout = "2006-01-02"

// LocalDate formats t as a local calendar date.
func LocalDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Millis is a timestamp serialized as integer milliseconds since epoch.
type Millis int64

// MillisOf converts a time to Millis.
func MillisOf(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Time converts back to a time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}
