// Package sku derives short stock-keeping codes for herbal medicines.
package sku

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxLength is the longest code Generate will emit from pinyin initials.
const MaxLength = 4

// UnnamedCode is returned when neither name carries anything to derive a
// code from. It passes Validate so batches can still suffix it.
const UnnamedCode = "X"

var skuPattern = regexp.MustCompile(`^[A-Z]{1,4}$`)

// Generate returns the base code for a medicine. Curated names win; otherwise
// the code is built from pinyin syllable initials.
//
// When the pinyin carries no letters the code falls back to the base-36 form
// of the first rune of chineseName. That path can yield digits and therefore
// codes that fail Validate. With both names empty the result is UnnamedCode.
func Generate(chineseName, pinyinName string) string {
	if code, ok := Curated(chineseName); ok {
		return code
	}
	if initials := Initials(pinyinName); initials != "" {
		return initials
	}
	return runeFallback(chineseName)
}

// Initials upper-cases the first letter of every pinyin syllable, keeping at
// most MaxLength letters. Digits (tone numbers), whitespace, hyphens and
// underscores separate syllables: the input is split on them before they are
// dropped, so "dang gui" gives "DG". Stripping first would merge the name into
// one run and give "D". An unbroken "danggui" still gives "D".
func Initials(pinyinName string) string {
	syllables := strings.FieldsFunc(strings.ToLower(pinyinName), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
	var b strings.Builder
	for _, syl := range syllables {
		if b.Len() == MaxLength {
			break
		}
		b.WriteByte(syl[0] - 'a' + 'A')
	}
	return b.String()
}

func runeFallback(chineseName string) string {
	r, size := utf8.DecodeRuneInString(chineseName)
	if size == 0 {
		return UnnamedCode
	}
	code := strings.ToUpper(strconv.FormatInt(int64(r), 36))
	if len(code) > 2 {
		code = code[:2]
	}
	return code
}

// Validate reports whether sku is one to four upper-case ASCII letters.
func Validate(sku string) bool {
	return skuPattern.MatchString(sku)
}
