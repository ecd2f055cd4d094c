package sku

import "regexp"

var legacyPattern = regexp.MustCompile(`^TCM-([A-Z]+)-`)

// ConvertLegacy maps an old-style code onto the current format. Valid codes
// pass through, codes shaped like TCM-<LETTERS>-... keep their letters when
// those are valid, and anything else is regenerated from the names.
func ConvertLegacy(oldSKU, chineseName, pinyinName string) string {
	if Validate(oldSKU) {
		return oldSKU
	}
	if m := legacyPattern.FindStringSubmatch(oldSKU); m != nil && Validate(m[1]) {
		return m[1]
	}
	return Generate(chineseName, pinyinName)
}
