package catalog

// Difficulty is the authored difficulty level of a lesson.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// DefaultFilename is shown on a code sample that carries no filename.
const DefaultFilename = "example.py"

// Category groups an ordered list of lessons under a tab.
type Category struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Icon    string   `yaml:"icon"`
	Lessons []Lesson `yaml:"lessons"`
}

// Lesson is one unit of teaching content.
type Lesson struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Meta     Meta    `yaml:"meta"`
	Content  Content `yaml:"content"`
}

// Meta holds display metadata for a lesson.
type Meta struct {
	Duration   string     `yaml:"duration"`
	Difficulty Difficulty `yaml:"difficulty"`
}

// Content is the teaching body of a lesson. Explanation, CodeExample and
// Quiz are optional.
type Content struct {
	Explanation     string          `yaml:"explanation,omitempty"`
	CodeExample     *CodeExample    `yaml:"code_example,omitempty"`
	InteractiveCode InteractiveCode `yaml:"interactive_code"`
	Quiz            *Quiz           `yaml:"quiz,omitempty"`
}

// CodeExample is a static, highlighted code sample.
type CodeExample struct {
	Language string `yaml:"language"`
	Code     string `yaml:"code"`
	Filename string `yaml:"filename,omitempty"`
}

// DisplayFilename returns the filename, falling back to DefaultFilename.
func (c CodeExample) DisplayFilename() string {
	if c.Filename == "" {
		return DefaultFilename
	}
	return c.Filename
}

// InteractiveCode is the editable "try it" snippet. The snippet is never
// executed; SimulatedOutput is displayed when the learner runs it.
type InteractiveCode struct {
	DefaultCode     string `yaml:"default_code"`
	SimulatedOutput string `yaml:"simulated_output"`
}

// Quiz is a single multiple-choice question.
type Quiz struct {
	Question string       `yaml:"question"`
	Options  []QuizOption `yaml:"options"`
}

// QuizOption is one answer of a quiz with its explanation.
type QuizOption struct {
	Text        string `yaml:"text"`
	IsCorrect   bool   `yaml:"correct"`
	Explanation string `yaml:"explanation"`
}

// CorrectIndex returns the index of the correct option, or -1.
func (q Quiz) CorrectIndex() int {
	for i, o := range q.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// LessonRef is a lesson annotated with the category that owns it.
type LessonRef struct {
	Lesson
	CategoryID   string
	CategoryName string
}
