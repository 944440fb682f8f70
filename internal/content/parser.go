// Package content implements the step content contract: the strict,
// closed shape each of the nine step kinds must match on the wire. Parsing
// either yields a fully-typed payload or fails the whole step - the answer
// checker trusts the parsed shape unconditionally, so partial or lenient
// parsing is never acceptable.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/obilearn/obi/internal/domain"
)

// Parse decodes and validates the content payload for a step of the given
// kind. Vocabulary, reading and listening steps carry no payload: data must
// be empty or JSON null for them, and the returned content is nil.
func Parse(kind domain.StepKind, data []byte) (domain.StepContent, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStepKind, kind)
	}

	if !kind.HasInlineContent() {
		if len(data) > 0 && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			return nil, fmt.Errorf("%w: %s step must not carry content", domain.ErrInvalidContent, kind)
		}
		return nil, nil
	}

	switch kind {
	case domain.KindMultipleChoice:
		return parseMultipleChoice(data)
	case domain.KindFillBlank:
		return parseFillBlank(data)
	case domain.KindMatchColumns:
		return parseMatchColumns(data)
	case domain.KindSortOrder:
		return parseSortOrder(data)
	case domain.KindSelectImage:
		return parseSelectImage(data)
	case domain.KindStatic:
		return parseStatic(data)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStepKind, kind)
}

// strictUnmarshal decodes data into v rejecting unknown fields and trailing
// input.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected trailing data")
	}
	return nil
}

// probeVariant reads only the variant tag, tolerating the rest of the object
func probeVariant(data []byte) (string, error) {
	var probe variantProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", err
	}
	return probe.Variant, nil
}

func parseMultipleChoice(data []byte) (domain.StepContent, error) {
	variant, err := probeVariant(data)
	if err != nil {
		return nil, fmt.Errorf("%w: multipleChoice: %v", domain.ErrInvalidContent, err)
	}

	switch domain.MultipleChoiceVariant(variant) {
	case domain.MCCore:
		var wire mcCoreWire
		if err := strictUnmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("%w: multipleChoice/core: %v", domain.ErrInvalidContent, err)
		}
		if wire.Question == "" {
			return nil, fmt.Errorf("%w: multipleChoice/core: question is required", domain.ErrInvalidContent)
		}
		if len(wire.Options) == 0 {
			return nil, fmt.Errorf("%w: multipleChoice/core: at least one option is required", domain.ErrInvalidContent)
		}
		c := domain.MultipleChoiceContent{
			Variant:  domain.MCCore,
			Question: wire.Question,
			Options:  make([]domain.MultipleChoiceOption, len(wire.Options)),
		}
		for i, opt := range wire.Options {
			if opt.Text == "" {
				return nil, fmt.Errorf("%w: multipleChoice/core: option %d has no text", domain.ErrInvalidContent, i)
			}
			c.Options[i] = domain.MultipleChoiceOption{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
				Feedback:  opt.Feedback,
			}
		}
		return c, nil

	case domain.MCChallenge:
		var wire mcChallengeWire
		if err := strictUnmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("%w: multipleChoice/challenge: %v", domain.ErrInvalidContent, err)
		}
		if wire.Context == "" || wire.Question == "" {
			return nil, fmt.Errorf("%w: multipleChoice/challenge: context and question are required", domain.ErrInvalidContent)
		}
		if len(wire.Options) == 0 {
			return nil, fmt.Errorf("%w: multipleChoice/challenge: at least one option is required", domain.ErrInvalidContent)
		}
		c := domain.MultipleChoiceContent{
			Variant:  domain.MCChallenge,
			Context:  wire.Context,
			Question: wire.Question,
			Options:  make([]domain.MultipleChoiceOption, len(wire.Options)),
		}
		for i, opt := range wire.Options {
			if opt.Text == "" || opt.Consequence == "" {
				return nil, fmt.Errorf("%w: multipleChoice/challenge: option %d needs text and consequence", domain.ErrInvalidContent, i)
			}
			for _, eff := range opt.Effects {
				if eff.Dimension == "" {
					return nil, fmt.Errorf("%w: multipleChoice/challenge: option %d has an effect without a dimension", domain.ErrInvalidContent, i)
				}
				if !domain.EffectKind(eff.Effect).IsValid() {
					return nil, fmt.Errorf("%w: multipleChoice/challenge: option %d has invalid effect %q", domain.ErrInvalidContent, i, eff.Effect)
				}
			}
			c.Options[i] = domain.MultipleChoiceOption{
				Text:        opt.Text,
				Consequence: opt.Consequence,
				Effects:     effectsFromWire(opt.Effects),
			}
		}
		return c, nil

	case domain.MCLanguage:
		var wire mcLanguageWire
		if err := strictUnmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("%w: multipleChoice/language: %v", domain.ErrInvalidContent, err)
		}
		if wire.Context == "" || wire.Question == "" {
			return nil, fmt.Errorf("%w: multipleChoice/language: context and question are required", domain.ErrInvalidContent)
		}
		if len(wire.Options) == 0 {
			return nil, fmt.Errorf("%w: multipleChoice/language: at least one option is required", domain.ErrInvalidContent)
		}
		c := domain.MultipleChoiceContent{
			Variant:             domain.MCLanguage,
			Context:             wire.Context,
			ContextRomanization: wire.ContextRomanization,
			Question:            wire.Question,
			Options:             make([]domain.MultipleChoiceOption, len(wire.Options)),
		}
		for i, opt := range wire.Options {
			if opt.Text == "" {
				return nil, fmt.Errorf("%w: multipleChoice/language: option %d has no text", domain.ErrInvalidContent, i)
			}
			c.Options[i] = domain.MultipleChoiceOption{
				Text:         opt.Text,
				Romanization: opt.Romanization,
				IsCorrect:    opt.IsCorrect,
				Feedback:     opt.Feedback,
			}
		}
		return c, nil
	}

	return nil, fmt.Errorf("%w: multipleChoice: unknown variant %q", domain.ErrInvalidContent, variant)
}

func parseFillBlank(data []byte) (domain.StepContent, error) {
	var wire fillBlankWire
	if err := strictUnmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: fillBlank: %v", domain.ErrInvalidContent, err)
	}
	if wire.Template == "" {
		return nil, fmt.Errorf("%w: fillBlank: template is required", domain.ErrInvalidContent)
	}
	if len(wire.Answers) == 0 {
		return nil, fmt.Errorf("%w: fillBlank: at least one answer is required", domain.ErrInvalidContent)
	}
	if wire.Feedback == "" {
		return nil, fmt.Errorf("%w: fillBlank: feedback is required", domain.ErrInvalidContent)
	}
	return domain.FillBlankContent{
		Template:    wire.Template,
		Answers:     wire.Answers,
		Distractors: wire.Distractors,
		Feedback:    wire.Feedback,
	}, nil
}

func parseMatchColumns(data []byte) (domain.StepContent, error) {
	var wire matchColumnsWire
	if err := strictUnmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: matchColumns: %v", domain.ErrInvalidContent, err)
	}
	if len(wire.Pairs) == 0 {
		return nil, fmt.Errorf("%w: matchColumns: at least one pair is required", domain.ErrInvalidContent)
	}
	c := domain.MatchColumnsContent{Pairs: make([]domain.MatchPair, len(wire.Pairs))}
	for i, p := range wire.Pairs {
		if p.Left == "" || p.Right == "" {
			return nil, fmt.Errorf("%w: matchColumns: pair %d needs both sides", domain.ErrInvalidContent, i)
		}
		c.Pairs[i] = domain.MatchPair{Left: p.Left, Right: p.Right}
	}
	return c, nil
}

func parseSortOrder(data []byte) (domain.StepContent, error) {
	var wire sortOrderWire
	if err := strictUnmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: sortOrder: %v", domain.ErrInvalidContent, err)
	}
	if len(wire.Items) == 0 {
		return nil, fmt.Errorf("%w: sortOrder: at least one item is required", domain.ErrInvalidContent)
	}
	return domain.SortOrderContent{Items: wire.Items}, nil
}

func parseSelectImage(data []byte) (domain.StepContent, error) {
	var wire selectImageWire
	if err := strictUnmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: selectImage: %v", domain.ErrInvalidContent, err)
	}
	if len(wire.Options) == 0 {
		return nil, fmt.Errorf("%w: selectImage: at least one option is required", domain.ErrInvalidContent)
	}
	c := domain.SelectImageContent{
		Question: wire.Question,
		Options:  make([]domain.SelectImageOption, len(wire.Options)),
	}
	for i, opt := range wire.Options {
		if opt.ImageURL == "" {
			return nil, fmt.Errorf("%w: selectImage: option %d has no image URL", domain.ErrInvalidContent, i)
		}
		c.Options[i] = domain.SelectImageOption{
			ImageURL:  opt.ImageURL,
			AltText:   opt.AltText,
			IsCorrect: opt.IsCorrect,
		}
	}
	return c, nil
}

func parseStatic(data []byte) (domain.StepContent, error) {
	variant, err := probeVariant(data)
	if err != nil {
		return nil, fmt.Errorf("%w: static: %v", domain.ErrInvalidContent, err)
	}

	switch domain.StaticVariant(variant) {
	case domain.StaticText:
		var wire staticTextWire
		if err := strictUnmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("%w: static/text: %v", domain.ErrInvalidContent, err)
		}
		if wire.Text == "" {
			return nil, fmt.Errorf("%w: static/text: text is required", domain.ErrInvalidContent)
		}
		return domain.StaticContent{Variant: domain.StaticText, Text: wire.Text}, nil

	case domain.StaticGrammarExample:
		var wire staticExampleWire
		if err := strictUnmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("%w: static/grammarExample: %v", domain.ErrInvalidContent, err)
		}
		if wire.Sentence == "" || wire.Highlight == "" || wire.Translation == "" {
			return nil, fmt.Errorf("%w: static/grammarExample: sentence, highlight and translation are required", domain.ErrInvalidContent)
		}
		return domain.StaticContent{
			Variant:      domain.StaticGrammarExample,
			Sentence:     wire.Sentence,
			Highlight:    wire.Highlight,
			Romanization: wire.Romanization,
			Translation:  wire.Translation,
		}, nil

	case domain.StaticGrammarRule:
		var wire staticRuleWire
		if err := strictUnmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("%w: static/grammarRule: %v", domain.ErrInvalidContent, err)
		}
		if wire.Name == "" || wire.Summary == "" {
			return nil, fmt.Errorf("%w: static/grammarRule: name and summary are required", domain.ErrInvalidContent)
		}
		return domain.StaticContent{
			Variant: domain.StaticGrammarRule,
			Name:    wire.Name,
			Summary: wire.Summary,
		}, nil
	}

	return nil, fmt.Errorf("%w: static: unknown variant %q", domain.ErrInvalidContent, variant)
}

// Marshal renders a parsed content payload back to its wire shape. It is the
// inverse of Parse for every valid payload.
func Marshal(c domain.StepContent) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	switch v := c.(type) {
	case domain.MultipleChoiceContent:
		return marshalMultipleChoice(v)
	case domain.FillBlankContent:
		return json.Marshal(fillBlankWire{
			Template:    v.Template,
			Answers:     v.Answers,
			Distractors: v.Distractors,
			Feedback:    v.Feedback,
		})
	case domain.MatchColumnsContent:
		wire := matchColumnsWire{Pairs: make([]matchPairWire, len(v.Pairs))}
		for i, p := range v.Pairs {
			wire.Pairs[i] = matchPairWire{Left: p.Left, Right: p.Right}
		}
		return json.Marshal(wire)
	case domain.SortOrderContent:
		return json.Marshal(sortOrderWire{Items: v.Items})
	case domain.SelectImageContent:
		wire := selectImageWire{
			Question: v.Question,
			Options:  make([]selectImageOptionWire, len(v.Options)),
		}
		for i, opt := range v.Options {
			wire.Options[i] = selectImageOptionWire{
				ImageURL:  opt.ImageURL,
				AltText:   opt.AltText,
				IsCorrect: opt.IsCorrect,
			}
		}
		return json.Marshal(wire)
	case domain.StaticContent:
		return marshalStatic(v)
	}
	return nil, fmt.Errorf("%w: unsupported content type %T", domain.ErrInvalidContent, c)
}

func marshalMultipleChoice(c domain.MultipleChoiceContent) ([]byte, error) {
	switch c.Variant {
	case domain.MCCore:
		wire := mcCoreWire{
			Variant:  string(c.Variant),
			Question: c.Question,
			Options:  make([]mcCoreOptionWire, len(c.Options)),
		}
		for i, opt := range c.Options {
			wire.Options[i] = mcCoreOptionWire{Text: opt.Text, IsCorrect: opt.IsCorrect, Feedback: opt.Feedback}
		}
		return json.Marshal(wire)
	case domain.MCChallenge:
		wire := mcChallengeWire{
			Variant:  string(c.Variant),
			Context:  c.Context,
			Question: c.Question,
			Options:  make([]mcChallengeOptionWire, len(c.Options)),
		}
		for i, opt := range c.Options {
			wire.Options[i] = mcChallengeOptionWire{
				Text:        opt.Text,
				Consequence: opt.Consequence,
				Effects:     effectsToWire(opt.Effects),
			}
		}
		return json.Marshal(wire)
	case domain.MCLanguage:
		wire := mcLanguageWire{
			Variant:             string(c.Variant),
			Context:             c.Context,
			ContextRomanization: c.ContextRomanization,
			Question:            c.Question,
			Options:             make([]mcLanguageOptionWire, len(c.Options)),
		}
		for i, opt := range c.Options {
			wire.Options[i] = mcLanguageOptionWire{
				Text:         opt.Text,
				Romanization: opt.Romanization,
				IsCorrect:    opt.IsCorrect,
				Feedback:     opt.Feedback,
			}
		}
		return json.Marshal(wire)
	}
	return nil, fmt.Errorf("%w: multipleChoice: unknown variant %q", domain.ErrInvalidContent, c.Variant)
}

func marshalStatic(c domain.StaticContent) ([]byte, error) {
	switch c.Variant {
	case domain.StaticText:
		return json.Marshal(staticTextWire{Variant: string(c.Variant), Text: c.Text})
	case domain.StaticGrammarExample:
		return json.Marshal(staticExampleWire{
			Variant:      string(c.Variant),
			Sentence:     c.Sentence,
			Highlight:    c.Highlight,
			Romanization: c.Romanization,
			Translation:  c.Translation,
		})
	case domain.StaticGrammarRule:
		return json.Marshal(staticRuleWire{Variant: string(c.Variant), Name: c.Name, Summary: c.Summary})
	}
	return nil, fmt.Errorf("%w: static: unknown variant %q", domain.ErrInvalidContent, c.Variant)
}
