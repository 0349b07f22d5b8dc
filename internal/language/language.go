package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

// EnglishCode is the engine-native code used for sources and fallbacks.
const EnglishCode = "eng_Latn"

// BatchAll is the submission tag that fans out one job per supported language.
const BatchAll = "ALL22"

type entry struct {
	tag     string   // short ISO-style tag ("hi")
	nllb    string   // engine-native code ("hin_Deva")
	display string   // human-readable name
	words   []string // full word forms ("hindi")
}

var languages = []entry{
	{"ar", "arb_Arab", "Arabic", []string{"arabic"}},
	{"bn", "ben_Beng", "Bengali", []string{"bengali"}},
	{"zh", "zho_Hans", "Chinese", []string{"chinese"}},
	{"nl", "nld_Latn", "Dutch", []string{"dutch"}},
	{"en", "eng_Latn", "English", []string{"english"}},
	{"fr", "fra_Latn", "French", []string{"french"}},
	{"de", "deu_Latn", "German", []string{"german"}},
	{"gu", "guj_Gujr", "Gujarati", []string{"gujarati"}},
	{"hi", "hin_Deva", "Hindi", []string{"hindi"}},
	{"it", "ita_Latn", "Italian", []string{"italian"}},
	{"ja", "jpn_Jpan", "Japanese", []string{"japanese"}},
	{"kn", "kan_Knda", "Kannada", []string{"kannada"}},
	{"ko", "kor_Hang", "Korean", []string{"korean"}},
	{"ml", "mal_Mlym", "Malayalam", []string{"malayalam"}},
	{"mr", "mar_Deva", "Marathi", []string{"marathi"}},
	{"pt", "por_Latn", "Portuguese", []string{"portuguese"}},
	{"pa", "pan_Guru", "Punjabi", []string{"punjabi"}},
	{"ru", "rus_Cyrl", "Russian", []string{"russian"}},
	{"es", "spa_Latn", "Spanish", []string{"spanish"}},
	{"ta", "tam_Taml", "Tamil", []string{"tamil"}},
	{"te", "tel_Telu", "Telugu", []string{"telugu"}},
	{"tr", "tur_Latn", "Turkish", []string{"turkish"}},
	{"ur", "urd_Arab", "Urdu", []string{"urdu"}},
}

// Index maps built at init time.
var (
	byTag  map[string]*entry
	byWord map[string]*entry
)

func init() {
	byTag = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byTag[e.tag] = e
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(tag string) *entry {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil
	}
	if e, ok := byTag[tag]; ok {
		return e
	}
	if e, ok := byWord[tag]; ok {
		return e
	}
	return nil
}

// Resolve converts a caller-facing tag to the engine-native NLLB code.
// Empty input resolves to English, codes already containing an underscore
// pass through unchanged, and unrecognized tags fall back to English.
func Resolve(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return EnglishCode
	}
	if strings.Contains(tag, "_") {
		return tag
	}
	if e := lookup(tag); e != nil {
		return e.nllb
	}
	return EnglishCode
}

// Supported reports whether a tag resolves without the English fallback.
func Supported(tag string) bool {
	tag = strings.TrimSpace(tag)
	if strings.Contains(tag, "_") {
		return true
	}
	return lookup(tag) != nil
}

// AllTags returns the ordered list of short tags covered by a BatchAll
// submission.
func AllTags() []string {
	tags := make([]string, len(languages))
	for i := range languages {
		tags[i] = languages[i].tag
	}
	return tags
}

var titleCaser = cases.Title(xlang.Und)

// DisplayName returns a human-readable language name for any recognized tag.
// Returns "Unknown" for empty input, or a title-cased rendering of the tag
// for unrecognized input.
func DisplayName(tag string) string {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "Unknown"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	for i := range languages {
		if languages[i].nllb == trimmed {
			return languages[i].display
		}
	}
	return titleCaser.String(strings.ToLower(trimmed))
}
