// Package result turns raw engine output into the canonical response shape.
package result

import "fmt"

// Keys the engine uses around its payload.
const (
	FailureKey       = "hata"
	StructuredKey    = "structured"
	StructuredKeyAlt = "yapilandirilmis_veri"
)

type Kind int

const (
	KindStructured Kind = iota
	KindFailure
)

func (k Kind) String() string {
	if k == KindFailure {
		return "failure"
	}
	return "structured"
}

// Outcome is either a flat field mapping or an engine-reported failure.
type Outcome struct {
	Kind    Kind
	Fields  map[string]any
	Message string
}

func Structured(fields map[string]any) Outcome {
	if fields == nil {
		fields = map[string]any{}
	}
	return Outcome{Kind: KindStructured, Fields: fields}
}

func Failure(msg string) Outcome {
	return Outcome{Kind: KindFailure, Message: msg}
}

func (o Outcome) IsFailure() bool { return o.Kind == KindFailure }

// Normalize classifies raw engine output. A failure key always wins over a
// payload key; wrapper keys never leak into Fields.
func Normalize(raw any) Outcome {
	m, ok := asMap(raw)
	if !ok {
		return Structured(map[string]any{StructuredKey: raw})
	}

	if msg, ok := m[FailureKey]; ok {
		return Failure(messageOf(msg))
	}

	for _, key := range []string{StructuredKey, StructuredKeyAlt} {
		nested, ok := m[key]
		if !ok {
			continue
		}
		if nested == nil {
			return Structured(nil)
		}
		if fields, ok := asMap(nested); ok {
			return Structured(fields)
		}
		return Structured(map[string]any{StructuredKey: nested})
	}

	return Structured(m)
}

// payload returns the field mapping diagnostics look at, without classifying.
func payload(raw any) (map[string]any, bool) {
	m, ok := asMap(raw)
	if !ok {
		return nil, false
	}
	for _, key := range []string{StructuredKey, StructuredKeyAlt} {
		if nested, ok := asMap(m[key]); ok && len(nested) > 0 {
			return nested, true
		}
	}
	return m, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case map[string]string:
		if m == nil {
			return nil, false
		}
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func messageOf(v any) string {
	switch msg := v.(type) {
	case string:
		return msg
	case nil:
		return ""
	case error:
		return msg.Error()
	default:
		return fmt.Sprint(msg)
	}
}
