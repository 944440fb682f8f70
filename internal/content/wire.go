package content

import "github.com/obilearn/obi/internal/domain"

// Wire shapes for step content. Each step kind (and each variant of the
// multipleChoice and static kinds) has exactly one closed shape: unknown keys
// fail the whole parse, and required fields are enforced after decoding.

type effectWire struct {
	Dimension string `json:"dimension"`
	Effect    string `json:"effect"`
}

type variantProbe struct {
	Variant string `json:"variant"`
}

// multipleChoice / core
type mcCoreOptionWire struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback,omitempty"`
}

type mcCoreWire struct {
	Variant  string             `json:"variant"`
	Question string             `json:"question"`
	Options  []mcCoreOptionWire `json:"options"`
}

// multipleChoice / challenge
type mcChallengeOptionWire struct {
	Text        string       `json:"text"`
	Consequence string       `json:"consequence"`
	Effects     []effectWire `json:"effects"`
}

type mcChallengeWire struct {
	Variant  string                  `json:"variant"`
	Context  string                  `json:"context"`
	Question string                  `json:"question"`
	Options  []mcChallengeOptionWire `json:"options"`
}

// multipleChoice / language
type mcLanguageOptionWire struct {
	Text         string `json:"text"`
	Romanization string `json:"romanization,omitempty"`
	IsCorrect    bool   `json:"isCorrect"`
	Feedback     string `json:"feedback,omitempty"`
}

type mcLanguageWire struct {
	Variant             string                 `json:"variant"`
	Context             string                 `json:"context"`
	ContextRomanization string                 `json:"contextRomanization,omitempty"`
	Question            string                 `json:"question"`
	Options             []mcLanguageOptionWire `json:"options"`
}

type fillBlankWire struct {
	Template    string   `json:"template"`
	Answers     []string `json:"answers"`
	Distractors []string `json:"distractors,omitempty"`
	Feedback    string   `json:"feedback"`
}

type matchPairWire struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type matchColumnsWire struct {
	Pairs []matchPairWire `json:"pairs"`
}

type sortOrderWire struct {
	Items []string `json:"items"`
}

type selectImageOptionWire struct {
	ImageURL  string `json:"imageUrl"`
	AltText   string `json:"altText,omitempty"`
	IsCorrect bool   `json:"isCorrect"`
}

type selectImageWire struct {
	Question string                  `json:"question,omitempty"`
	Options  []selectImageOptionWire `json:"options"`
}

// static / text
type staticTextWire struct {
	Variant string `json:"variant"`
	Text    string `json:"text"`
}

// static / grammarExample
type staticExampleWire struct {
	Variant      string `json:"variant"`
	Sentence     string `json:"sentence"`
	Highlight    string `json:"highlight"`
	Romanization string `json:"romanization,omitempty"`
	Translation  string `json:"translation"`
}

// static / grammarRule
type staticRuleWire struct {
	Variant string `json:"variant"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

func effectsFromWire(effects []effectWire) []domain.ChallengeEffect {
	if len(effects) == 0 {
		return nil
	}
	out := make([]domain.ChallengeEffect, len(effects))
	for i, e := range effects {
		out[i] = domain.ChallengeEffect{
			Dimension: e.Dimension,
			Effect:    domain.EffectKind(e.Effect),
		}
	}
	return out
}

func effectsToWire(effects []domain.ChallengeEffect) []effectWire {
	out := make([]effectWire, len(effects))
	for i, e := range effects {
		out[i] = effectWire{Dimension: e.Dimension, Effect: string(e.Effect)}
	}
	return out
}
