package result

import (
	"fmt"
	"reflect"
)

// LineItemsKey holds the invoice's product line list.
const LineItemsKey = "urun_kalemleri"

// ExpectedFields are the invoice fields the verbose report checks for.
var ExpectedFields = []string{
	"fatura_no", "fatura_tarihi", "satici_unvan", "alici_unvan", "odenecek_tutar",
	"mal_hizmet_toplam_tutari", "ettn", "vergi_no", "tc_no", "telefon", "email",
}

type FieldCheck struct {
	Field   string `json:"field"`
	Present bool   `json:"present"`
}

// Summary is a read-only report over an engine result.
type Summary struct {
	FieldCount int          `json:"field_count"`
	LineItems  int          `json:"line_items"`
	Checklist  []FieldCheck `json:"checklist"`
}

// Found returns the number of expected fields that carried a value.
func (s Summary) Found() int {
	n := 0
	for _, c := range s.Checklist {
		if c.Present {
			n++
		}
	}
	return n
}

// Summarize inspects raw without modifying it. Panics raised while walking
// engine values are turned into errors.
func Summarize(raw any) (s Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = Summary{}, fmt.Errorf("summarize: %v", r)
		}
	}()

	fields, _ := payload(raw)
	s.FieldCount = len(fields)
	if items, ok := fields[LineItemsKey]; ok {
		s.LineItems = listLen(items)
	}
	s.Checklist = make([]FieldCheck, len(ExpectedFields))
	for i, f := range ExpectedFields {
		s.Checklist[i] = FieldCheck{Field: f, Present: hasValue(fields[f])}
	}
	return s, nil
}

func hasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len() > 0
	}
	return true
}

func listLen(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len()
	}
	return 0
}
