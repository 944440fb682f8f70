package content

import (
	"errors"
	"reflect"
	"testing"

	"github.com/obilearn/obi/internal/domain"
)

func TestParse_MultipleChoiceCore(t *testing.T) {
	data := []byte(`{
		"variant": "core",
		"question": "What is the capital of France?",
		"options": [
			{"text": "Paris", "isCorrect": true, "feedback": "Right!"},
			{"text": "Lyon", "isCorrect": false}
		]
	}`)

	c, err := Parse(domain.KindMultipleChoice, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	mc, ok := c.(domain.MultipleChoiceContent)
	if !ok {
		t.Fatalf("Parse() returned %T, want MultipleChoiceContent", c)
	}
	if mc.Variant != domain.MCCore {
		t.Errorf("Variant = %q, want core", mc.Variant)
	}
	if mc.Question != "What is the capital of France?" {
		t.Errorf("Question = %q", mc.Question)
	}
	if len(mc.Options) != 2 {
		t.Fatalf("len(Options) = %d, want 2", len(mc.Options))
	}
	if !mc.Options[0].IsCorrect || mc.Options[0].Feedback != "Right!" {
		t.Errorf("option 0 = %+v", mc.Options[0])
	}
}

func TestParse_MultipleChoiceChallenge(t *testing.T) {
	data := []byte(`{
		"variant": "challenge",
		"context": "You arrive late to the meeting.",
		"question": "What do you do?",
		"options": [
			{
				"text": "Apologize",
				"consequence": "The room relaxes.",
				"effects": [{"dimension": "empathy", "effect": "positive"}]
			},
			{
				"text": "Say nothing",
				"consequence": "Eyebrows are raised.",
				"effects": [{"dimension": "empathy", "effect": "negative"}]
			}
		]
	}`)

	c, err := Parse(domain.KindMultipleChoice, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	mc := c.(domain.MultipleChoiceContent)
	if !mc.IsChallenge() {
		t.Fatal("IsChallenge() = false, want true")
	}
	if mc.Context != "You arrive late to the meeting." {
		t.Errorf("Context = %q", mc.Context)
	}
	if got := mc.Options[0].Effects; len(got) != 1 || got[0].Dimension != "empathy" || got[0].Effect != domain.EffectPositive {
		t.Errorf("option 0 effects = %+v", got)
	}
}

func TestParse_MultipleChoiceLanguage(t *testing.T) {
	data := []byte(`{
		"variant": "language",
		"context": "안녕하세요",
		"contextRomanization": "annyeonghaseyo",
		"question": "What does this mean?",
		"options": [
			{"text": "Hello", "romanization": "", "isCorrect": true},
			{"text": "Goodbye", "isCorrect": false, "feedback": "That is a farewell."}
		]
	}`)

	c, err := Parse(domain.KindMultipleChoice, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	mc := c.(domain.MultipleChoiceContent)
	if mc.Variant != domain.MCLanguage {
		t.Errorf("Variant = %q, want language", mc.Variant)
	}
	if mc.ContextRomanization != "annyeonghaseyo" {
		t.Errorf("ContextRomanization = %q", mc.ContextRomanization)
	}
	if mc.Options[1].Feedback != "That is a farewell." {
		t.Errorf("option 1 feedback = %q", mc.Options[1].Feedback)
	}
}

func TestParse_FillBlank(t *testing.T) {
	data := []byte(`{
		"template": "The cat ___ on the mat.",
		"answers": ["sat"],
		"distractors": ["ran", "flew"],
		"feedback": "Past tense of sit."
	}`)

	c, err := Parse(domain.KindFillBlank, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	fb := c.(domain.FillBlankContent)
	if !reflect.DeepEqual(fb.Answers, []string{"sat"}) {
		t.Errorf("Answers = %v", fb.Answers)
	}
	if len(fb.Distractors) != 2 {
		t.Errorf("Distractors = %v", fb.Distractors)
	}
}

func TestParse_MatchColumns(t *testing.T) {
	data := []byte(`{"pairs": [{"left": "dog", "right": "개"}, {"left": "cat", "right": "고양이"}]}`)

	c, err := Parse(domain.KindMatchColumns, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	mc := c.(domain.MatchColumnsContent)
	if len(mc.Pairs) != 2 || mc.Pairs[0] != (domain.MatchPair{Left: "dog", Right: "개"}) {
		t.Errorf("Pairs = %+v", mc.Pairs)
	}
}

func TestParse_SortOrder(t *testing.T) {
	c, err := Parse(domain.KindSortOrder, []byte(`{"items": ["I", "am", "here"]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	so := c.(domain.SortOrderContent)
	if !reflect.DeepEqual(so.Items, []string{"I", "am", "here"}) {
		t.Errorf("Items = %v", so.Items)
	}
}

func TestParse_SelectImage(t *testing.T) {
	data := []byte(`{
		"question": "Which one is an apple?",
		"options": [
			{"imageUrl": "https://cdn.example.com/apple.png", "altText": "apple", "isCorrect": true},
			{"imageUrl": "https://cdn.example.com/pear.png", "isCorrect": false}
		]
	}`)

	c, err := Parse(domain.KindSelectImage, data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	si := c.(domain.SelectImageContent)
	if si.Question != "Which one is an apple?" || len(si.Options) != 2 {
		t.Errorf("content = %+v", si)
	}
	if !si.Options[0].IsCorrect || si.Options[0].AltText != "apple" {
		t.Errorf("option 0 = %+v", si.Options[0])
	}
}

func TestParse_StaticVariants(t *testing.T) {
	tests := []struct {
		name string
		data string
		want domain.StaticContent
	}{
		{
			name: "text",
			data: `{"variant": "text", "text": "Welcome to lesson one."}`,
			want: domain.StaticContent{Variant: domain.StaticText, Text: "Welcome to lesson one."},
		},
		{
			name: "grammar example",
			data: `{"variant": "grammarExample", "sentence": "저는 학생이에요", "highlight": "이에요", "romanization": "jeoneun haksaeng-ieyo", "translation": "I am a student"}`,
			want: domain.StaticContent{
				Variant:      domain.StaticGrammarExample,
				Sentence:     "저는 학생이에요",
				Highlight:    "이에요",
				Romanization: "jeoneun haksaeng-ieyo",
				Translation:  "I am a student",
			},
		},
		{
			name: "grammar rule",
			data: `{"variant": "grammarRule", "name": "Topic particle", "summary": "Marks the topic of the sentence."}`,
			want: domain.StaticContent{Variant: domain.StaticGrammarRule, Name: "Topic particle", Summary: "Marks the topic of the sentence."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(domain.KindStatic, []byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := c.(domain.StaticContent); got != tt.want {
				t.Errorf("content = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParse_ReferenceKindsCarryNoContent(t *testing.T) {
	for _, kind := range []domain.StepKind{domain.KindVocabulary, domain.KindReading, domain.KindListening} {
		t.Run(string(kind), func(t *testing.T) {
			for _, data := range [][]byte{nil, []byte(""), []byte("null"), []byte("  null  ")} {
				c, err := Parse(kind, data)
				if err != nil {
					t.Fatalf("Parse(%q) error = %v", data, err)
				}
				if c != nil {
					t.Errorf("Parse(%q) = %v, want nil", data, c)
				}
			}

			_, err := Parse(kind, []byte(`{"anything": 1}`))
			if !errors.Is(err, domain.ErrInvalidContent) {
				t.Errorf("Parse(non-empty) error = %v, want ErrInvalidContent", err)
			}
		})
	}
}

func TestParse_InvalidKind(t *testing.T) {
	_, err := Parse("puzzle", []byte(`{}`))
	if !errors.Is(err, domain.ErrInvalidStepKind) {
		t.Errorf("Parse() error = %v, want ErrInvalidStepKind", err)
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		kind domain.StepKind
		data string
	}{
		{
			name: "unknown field fails whole parse",
			kind: domain.KindFillBlank,
			data: `{"template": "a ___", "answers": ["b"], "feedback": "f", "hint": "nope"}`,
		},
		{
			name: "trailing data",
			kind: domain.KindSortOrder,
			data: `{"items": ["a"]}{"items": ["b"]}`,
		},
		{
			name: "not json",
			kind: domain.KindMatchColumns,
			data: `pairs: dog`,
		},
		{
			name: "multipleChoice unknown variant",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "quiz", "question": "q", "options": [{"text": "a"}]}`,
		},
		{
			name: "multipleChoice missing variant",
			kind: domain.KindMultipleChoice,
			data: `{"question": "q", "options": [{"text": "a", "isCorrect": true}]}`,
		},
		{
			name: "core missing question",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "core", "options": [{"text": "a", "isCorrect": true}]}`,
		},
		{
			name: "core empty options",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "core", "question": "q", "options": []}`,
		},
		{
			name: "core option without text",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "core", "question": "q", "options": [{"isCorrect": true}]}`,
		},
		{
			name: "challenge missing context",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "challenge", "question": "q", "options": [{"text": "a", "consequence": "c"}]}`,
		},
		{
			name: "challenge option without consequence",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "challenge", "context": "ctx", "question": "q", "options": [{"text": "a"}]}`,
		},
		{
			name: "challenge effect without dimension",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "challenge", "context": "ctx", "question": "q", "options": [{"text": "a", "consequence": "c", "effects": [{"dimension": "", "effect": "positive"}]}]}`,
		},
		{
			name: "challenge invalid effect kind",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "challenge", "context": "ctx", "question": "q", "options": [{"text": "a", "consequence": "c", "effects": [{"dimension": "empathy", "effect": "sideways"}]}]}`,
		},
		{
			name: "language core-only field rejected",
			kind: domain.KindMultipleChoice,
			data: `{"variant": "language", "context": "ctx", "question": "q", "options": [{"text": "a", "consequence": "c"}]}`,
		},
		{
			name: "fillBlank missing template",
			kind: domain.KindFillBlank,
			data: `{"answers": ["a"], "feedback": "f"}`,
		},
		{
			name: "fillBlank empty answers",
			kind: domain.KindFillBlank,
			data: `{"template": "a ___", "answers": [], "feedback": "f"}`,
		},
		{
			name: "fillBlank missing feedback",
			kind: domain.KindFillBlank,
			data: `{"template": "a ___", "answers": ["b"]}`,
		},
		{
			name: "matchColumns empty pairs",
			kind: domain.KindMatchColumns,
			data: `{"pairs": []}`,
		},
		{
			name: "matchColumns one-sided pair",
			kind: domain.KindMatchColumns,
			data: `{"pairs": [{"left": "dog", "right": ""}]}`,
		},
		{
			name: "sortOrder empty items",
			kind: domain.KindSortOrder,
			data: `{"items": []}`,
		},
		{
			name: "selectImage empty options",
			kind: domain.KindSelectImage,
			data: `{"options": []}`,
		},
		{
			name: "selectImage option without URL",
			kind: domain.KindSelectImage,
			data: `{"options": [{"altText": "apple", "isCorrect": true}]}`,
		},
		{
			name: "static unknown variant",
			kind: domain.KindStatic,
			data: `{"variant": "video", "text": "t"}`,
		},
		{
			name: "static text without text",
			kind: domain.KindStatic,
			data: `{"variant": "text"}`,
		},
		{
			name: "grammarExample missing translation",
			kind: domain.KindStatic,
			data: `{"variant": "grammarExample", "sentence": "s", "highlight": "h"}`,
		},
		{
			name: "grammarRule missing summary",
			kind: domain.KindStatic,
			data: `{"variant": "grammarRule", "name": "n"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.kind, []byte(tt.data))
			if !errors.Is(err, domain.ErrInvalidContent) {
				t.Errorf("Parse() error = %v, want ErrInvalidContent", err)
			}
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind domain.StepKind
		c    domain.StepContent
	}{
		{
			name: "multipleChoice core",
			kind: domain.KindMultipleChoice,
			c: domain.MultipleChoiceContent{
				Variant:  domain.MCCore,
				Question: "q",
				Options: []domain.MultipleChoiceOption{
					{Text: "a", IsCorrect: true, Feedback: "yes"},
					{Text: "b"},
				},
			},
		},
		{
			name: "multipleChoice challenge",
			kind: domain.KindMultipleChoice,
			c: domain.MultipleChoiceContent{
				Variant:  domain.MCChallenge,
				Context:  "ctx",
				Question: "q",
				Options: []domain.MultipleChoiceOption{
					{Text: "a", Consequence: "c", Effects: []domain.ChallengeEffect{{Dimension: "empathy", Effect: domain.EffectPositive}}},
				},
			},
		},
		{
			name: "multipleChoice language",
			kind: domain.KindMultipleChoice,
			c: domain.MultipleChoiceContent{
				Variant:             domain.MCLanguage,
				Context:             "안녕",
				ContextRomanization: "annyeong",
				Question:            "q",
				Options: []domain.MultipleChoiceOption{
					{Text: "hello", Romanization: "r", IsCorrect: true},
				},
			},
		},
		{
			name: "fillBlank",
			kind: domain.KindFillBlank,
			c: domain.FillBlankContent{
				Template: "a ___ c",
				Answers:  []string{"b"},
				Feedback: "f",
			},
		},
		{
			name: "matchColumns",
			kind: domain.KindMatchColumns,
			c:    domain.MatchColumnsContent{Pairs: []domain.MatchPair{{Left: "l", Right: "r"}}},
		},
		{
			name: "sortOrder",
			kind: domain.KindSortOrder,
			c:    domain.SortOrderContent{Items: []string{"a", "b"}},
		},
		{
			name: "selectImage",
			kind: domain.KindSelectImage,
			c: domain.SelectImageContent{
				Question: "q",
				Options:  []domain.SelectImageOption{{ImageURL: "https://x/a.png", IsCorrect: true}},
			},
		},
		{
			name: "static text",
			kind: domain.KindStatic,
			c:    domain.StaticContent{Variant: domain.StaticText, Text: "t"},
		},
		{
			name: "static grammarRule",
			kind: domain.KindStatic,
			c:    domain.StaticContent{Variant: domain.StaticGrammarRule, Name: "n", Summary: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.c)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			back, err := Parse(tt.kind, data)
			if err != nil {
				t.Fatalf("Parse(Marshal()) error = %v", err)
			}
			if !reflect.DeepEqual(back, tt.c) {
				t.Errorf("round trip = %+v, want %+v", back, tt.c)
			}
		})
	}
}

func TestMarshal_Nil(t *testing.T) {
	data, err := Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error = %v", err)
	}
	if data != nil {
		t.Errorf("Marshal(nil) = %q, want nil", data)
	}
}
