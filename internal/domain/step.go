package domain

// StepKind identifies one of the nine step kinds
type StepKind string

const (
	KindMultipleChoice StepKind = "multipleChoice"
	KindFillBlank      StepKind = "fillBlank"
	KindMatchColumns   StepKind = "matchColumns"
	KindSortOrder      StepKind = "sortOrder"
	KindSelectImage    StepKind = "selectImage"
	KindVocabulary     StepKind = "vocabulary"
	KindReading        StepKind = "reading"
	KindListening      StepKind = "listening"
	KindStatic         StepKind = "static"
)

// AllStepKinds lists every supported step kind
var AllStepKinds = []StepKind{
	KindMultipleChoice,
	KindFillBlank,
	KindMatchColumns,
	KindSortOrder,
	KindSelectImage,
	KindVocabulary,
	KindReading,
	KindListening,
	KindStatic,
}

// IsValid reports whether the kind is one of the nine supported kinds
func (k StepKind) IsValid() bool {
	for _, kind := range AllStepKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// IsInteractive reports whether the kind accepts an answer. Static steps are
// browse-only and are excluded from scoring.
func (k StepKind) IsInteractive() bool {
	return k != KindStatic
}

// HasInlineContent reports whether the kind carries a kind-specific content
// payload. Vocabulary, reading and listening steps derive correctness from an
// associated word or sentence reference instead.
func (k StepKind) HasInlineContent() bool {
	switch k {
	case KindVocabulary, KindReading, KindListening:
		return false
	}
	return true
}

// Step is an immutable content unit inside an activity. Position is unique
// within the parent activity and defines presentation order.
type Step struct {
	ID            StepID
	ActivityID    ActivityID
	Kind          StepKind
	Position      int
	Content       StepContent // nil for vocabulary/reading/listening
	VisualKind    string      // presentational, ignored by checking
	VisualContent string
	Word          *WordRef     // vocabulary steps
	Sentence      *SentenceRef // reading/listening steps
}

// WordRef is the word a vocabulary step asks for
type WordRef struct {
	ID          string
	Text        string
	Translation string
}

// SentenceRef is the sentence a reading or listening step reconstructs.
// Reading uses the original-language text, listening the translation.
type SentenceRef struct {
	Text        string
	Translation string
}

// StepContent is the kind-specific content payload of a step
type StepContent interface {
	ContentKind() StepKind
}

// -----------------------------------------------------------------------------
// multipleChoice content (3-way variant)
// -----------------------------------------------------------------------------

// MultipleChoiceVariant discriminates the three multipleChoice shapes
type MultipleChoiceVariant string

const (
	MCCore      MultipleChoiceVariant = "core"
	MCChallenge MultipleChoiceVariant = "challenge"
	MCLanguage  MultipleChoiceVariant = "language"
)

// MultipleChoiceOption is one selectable option. Core/language options carry
// correctness and feedback; challenge options carry a narrative consequence
// and dimension effects, with no notion of "correct".
type MultipleChoiceOption struct {
	Text         string
	Romanization string // language variant only
	IsCorrect    bool
	Feedback     string
	Consequence  string
	Effects      []ChallengeEffect
}

// MultipleChoiceContent is the content of a multipleChoice step
type MultipleChoiceContent struct {
	Variant             MultipleChoiceVariant
	Question            string
	Context             string // challenge and language variants
	ContextRomanization string // language variant only
	Options             []MultipleChoiceOption
}

// ContentKind implements StepContent
func (MultipleChoiceContent) ContentKind() StepKind { return KindMultipleChoice }

// IsChallenge reports whether this is the effect-carrying challenge variant
func (c MultipleChoiceContent) IsChallenge() bool { return c.Variant == MCChallenge }

// -----------------------------------------------------------------------------
// fillBlank content
// -----------------------------------------------------------------------------

// FillBlankContent is the content of a fillBlank step. Answers are positional
// expected values; distractors pad the word bank.
type FillBlankContent struct {
	Template    string
	Answers     []string
	Distractors []string
	Feedback    string
}

// ContentKind implements StepContent
func (FillBlankContent) ContentKind() StepKind { return KindFillBlank }

// -----------------------------------------------------------------------------
// matchColumns content
// -----------------------------------------------------------------------------

// MatchPair is one expected left/right pairing
type MatchPair struct {
	Left  string
	Right string
}

// MatchColumnsContent is the content of a matchColumns step
type MatchColumnsContent struct {
	Pairs []MatchPair
}

// ContentKind implements StepContent
func (MatchColumnsContent) ContentKind() StepKind { return KindMatchColumns }

// -----------------------------------------------------------------------------
// sortOrder content
// -----------------------------------------------------------------------------

// SortOrderContent is the content of a sortOrder step. Items are in the
// expected order.
type SortOrderContent struct {
	Items []string
}

// ContentKind implements StepContent
func (SortOrderContent) ContentKind() StepKind { return KindSortOrder }

// -----------------------------------------------------------------------------
// selectImage content
// -----------------------------------------------------------------------------

// SelectImageOption is one selectable image
type SelectImageOption struct {
	ImageURL  string
	AltText   string
	IsCorrect bool
}

// SelectImageContent is the content of a selectImage step
type SelectImageContent struct {
	Question string
	Options  []SelectImageOption
}

// ContentKind implements StepContent
func (SelectImageContent) ContentKind() StepKind { return KindSelectImage }

// -----------------------------------------------------------------------------
// static content (3-way variant)
// -----------------------------------------------------------------------------

// StaticVariant discriminates the three static shapes
type StaticVariant string

const (
	StaticText           StaticVariant = "text"
	StaticGrammarExample StaticVariant = "grammarExample"
	StaticGrammarRule    StaticVariant = "grammarRule"
)

// StaticContent is the content of a static step. Exactly the fields of the
// active variant are populated.
type StaticContent struct {
	Variant StaticVariant

	// text
	Text string

	// grammarExample
	Sentence     string
	Highlight    string
	Romanization string
	Translation  string

	// grammarRule
	Name    string
	Summary string
}

// ContentKind implements StepContent
func (StaticContent) ContentKind() StepKind { return KindStatic }
