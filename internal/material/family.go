package material

import "strings"

// #region keyword-tables

var metalKeywords = []string{
	"steel", "stainless", "aluminum", "aluminium", "alu",
	"titanium", "ti6al4v", "inconel", "brass", "copper",
	"bronze", "magnesium", "zinc", "metal", "alloy",
}

var polymerKeywords = []string{
	"plastic", "polymer", "abs", "pla", "petg", "nylon",
	"polyamide", "pa6", "pa12", "pp", "polypropylene",
	"pe", "polyethylene", "hdpe", "ldpe", "pc", "polycarbonate",
	"pom", "delrin", "acetal", "pmma", "acrylic", "peek",
	"pei", "ultem", "tpu", "resin",
}

// #endregion

// #region classify

// ClassifyFamily maps free-text material input to a coarse family.
// Metal wins on ties: "metal-filled plastic" reads as metal intent for
// gating purposes, which is the conservative direction (fewer exclusions
// come from polymer than from metal).
func ClassifyFamily(text string) Family {
	t := strings.ToLower(text)
	for _, kw := range metalKeywords {
		if containsToken(t, kw) {
			return FamilyMetal
		}
	}
	for _, kw := range polymerKeywords {
		if containsToken(t, kw) {
			return FamilyPolymer
		}
	}
	return FamilyUnknown
}

// containsToken matches kw as a whole token so that "plate" does not
// trip on "pla" and "tip" does not trip on "ti".
func containsToken(text, kw string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		leftOK := start == 0 || !isWordChar(text[start-1])
		rightOK := end == len(text) || !isWordChar(text[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// #endregion
