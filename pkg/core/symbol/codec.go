// Package symbol maps between the human-facing roster symbols and the internal
// shift categories. Decoding is deliberately fail-open: a stray character in an
// imported sheet should never turn into an exotic constraint, so anything
// unrecognized is treated as plain work.
package symbol

import (
	"strings"

	"github.com/shiftgrid/shiftgrid/pkg/core/model"
)

// Canonical output symbols, one per category. Work is a blank cell.
const (
	SymbolWork  = ""
	SymbolOff   = "×"
	SymbolEarly = "早"
	SymbolLate  = "遅"
)

// decodeTable covers the canonical symbols plus the Unicode variants that show
// up in pasted sheets: half/full-width latin forms and filled/unfilled glyphs.
var decodeTable = map[string]model.ShiftCategory{
	"×": model.Off,
	"x": model.Off,
	"X": model.Off,
	"ｘ": model.Off,
	"Ｘ": model.Off,
	"✕": model.Off,
	"✗": model.Off,
	"休": model.Off,

	"早": model.Early,
	"△": model.Early,

	"遅": model.Late,
	"▲": model.Late,

	"○": model.Work,
	"●": model.Work,
	"◯": model.Work,
	"〇": model.Work,
}

// annotations decode to Work for the solver but are echoed verbatim in output
// instead of being normalized to a blank cell.
var annotations = map[string]string{
	"特": "special duty",
	"主": "primary responsibility",
	"研": "training",
	"出": "business trip",
}

// Decode maps a roster symbol to its shift category. The second return is
// false for unrecognized symbols, which decode to Work; the caller decides
// whether to warn. Empty and whitespace-only symbols are plain work.
func Decode(symbol string) (model.ShiftCategory, bool) {
	trimmed := strings.TrimSpace(symbol)
	if trimmed == "" {
		return model.Work, true
	}
	if category, ok := decodeTable[trimmed]; ok {
		return category, true
	}
	if _, ok := annotations[trimmed]; ok {
		return model.Work, true
	}
	return model.Work, false
}

// IsAnnotation reports whether symbol is one of the work annotations that must
// be carried through to the output untouched.
func IsAnnotation(symbol string) bool {
	_, ok := annotations[strings.TrimSpace(symbol)]
	return ok
}

// AnnotationMeaning returns the human description of an annotation symbol.
func AnnotationMeaning(symbol string) (string, bool) {
	meaning, ok := annotations[strings.TrimSpace(symbol)]
	return meaning, ok
}

// Encode maps a category back to its output symbol. When the cell was locked
// by an annotation pre-fill, original carries that symbol and is returned
// unchanged; everything else normalizes to the canonical symbol.
func Encode(category model.ShiftCategory, original string) string {
	if category == model.Work && IsAnnotation(original) {
		return strings.TrimSpace(original)
	}
	switch category {
	case model.Off:
		return SymbolOff
	case model.Early:
		return SymbolEarly
	case model.Late:
		return SymbolLate
	}
	return SymbolWork
}
