// Package textproc normalizes and tokenizes feedback text for every
// downstream analysis stage. All functions are pure.
package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"github.com/russross/blackfriday/v2"
	prose "github.com/tsawler/prose/v3"
)

var (
	linkPattern   = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern    = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	letterPattern = regexp.MustCompile(`[^a-z']+`)
)

// Processed is the shared preprocessing result. Tokens are the lowercased,
// stopword-free, lemmatized tokens; RawTokens keep original case and
// punctuation for the signals that need them; Doc is the tagged and segmented
// document over the flattened text.
type Processed struct {
	Normalized string
	Tokens     []string
	RawTokens  []string
	Doc        *prose.Document
}

// RemoveLinks strips markdown links (keeping the anchor text) and bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// Flatten renders any markdown to plain text and removes links.
func Flatten(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := tagPattern.ReplaceAllString(string(output), " ")
	plain = strings.Join(strings.Fields(plain), " ")

	return RemoveLinks(plain)
}

// Preprocess flattens, tokenizes and tags text. The filtered token sequence
// is lowercased, letter-only (apostrophes kept), stopword-free and
// lemmatized; tokens of length <= 2 are dropped.
func Preprocess(text string) (*Processed, error) {
	plain := Flatten(text)

	doc, err := prose.NewDocument(plain)
	if err != nil {
		return nil, err
	}

	docTokens := doc.Tokens()
	rawTokens := make([]string, 0, len(docTokens))
	for _, tok := range docTokens {
		rawTokens = append(rawTokens, tok.Text)
	}

	tokens := tokenizePlain(plain)

	return &Processed{
		Normalized: strings.Join(tokens, " "),
		Tokens:     tokens,
		RawTokens:  rawTokens,
		Doc:        doc,
	}, nil
}

// Tokenize applies the same normalization as Preprocess without the tagging
// pass. Corpus-wide stages that only need the filtered tokens use this.
func Tokenize(text string) []string {
	return tokenizePlain(Flatten(text))
}

func tokenizePlain(plain string) []string {
	cleaned := letterPattern.ReplaceAllString(strings.ToLower(plain), " ")
	cleaned = stopwords.CleanString(cleaned, "en", false)

	var tokens []string
	for _, field := range strings.Fields(cleaned) {
		field = strings.Trim(field, "'")
		if len(field) <= 2 {
			continue
		}
		tokens = append(tokens, Lemmatize(field))
	}
	return tokens
}

// Lemmatize reduces regular English plurals to their singular form. Irregular
// forms pass through unchanged; that matches the noun-centric lemmatization
// the aspect vocabulary needs.
func Lemmatize(token string) string {
	switch {
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "sses"),
		strings.HasSuffix(token, "shes"),
		strings.HasSuffix(token, "ches"),
		strings.HasSuffix(token, "xes"),
		strings.HasSuffix(token, "zes"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ss"), strings.HasSuffix(token, "us"):
		return token
	case strings.HasSuffix(token, "s") && len(token) > 3:
		return token[:len(token)-1]
	}
	return token
}

// Keywords returns up to max distinct tokens of length >= minLen, in first
// occurrence order.
func Keywords(tokens []string, minLen, max int) []string {
	seen := make(map[string]struct{}, len(tokens))
	var keywords []string
	for _, token := range tokens {
		if len(token) < minLen {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) == max {
			break
		}
	}
	return keywords
}

// UppercaseRatio is the share of uppercase characters in text.
func UppercaseRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(len(text))
}

// WordStats computes basic word-level statistics over the raw text.
func WordStats(text string) (wordCount, charCount int, avgWordLength float64) {
	words := strings.Fields(text)
	wordCount = len(words)
	charCount = len(text)
	if wordCount == 0 {
		return wordCount, charCount, 0
	}
	total := 0
	for _, w := range words {
		total += len(w)
	}
	return wordCount, charCount, float64(total) / float64(wordCount)
}
