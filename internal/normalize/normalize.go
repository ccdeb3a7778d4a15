package normalize

import (
	"strings"
	"unicode"

	"rednote-trends/internal/model"
)

// maxTermRunes caps dictionary lookups during longest-match segmentation.
const maxTermRunes = 8

// Normalizer turns raw post text into filtered tokens plus a sentiment hint.
// It is a total function over posts: malformed or empty text yields an empty
// token list and a neutral hint.
type Normalizer struct {
	dict     map[string]struct{}
	dictMax  int // longest dictionary term, in runes
	stop     map[string]struct{}
	positive []string
	negative []string
}

// New builds a Normalizer from a lexicon.
func New(lex Lexicon) *Normalizer {
	n := &Normalizer{
		dict:     make(map[string]struct{}, len(lex.Dictionary)),
		stop:     make(map[string]struct{}, len(lex.Stopwords)),
		positive: lex.Positive,
		negative: lex.Negative,
	}
	for _, t := range lex.Dictionary {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		n.dict[t] = struct{}{}
		if l := len([]rune(t)); l > n.dictMax {
			n.dictMax = l
		}
	}
	if n.dictMax > maxTermRunes {
		n.dictMax = maxTermRunes
	}
	for _, s := range lex.Stopwords {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			n.stop[s] = struct{}{}
		}
	}
	return n
}

// Normalize derives the analyzer's view of a post. Title and body are
// folded together; the post itself is never modified.
func (n *Normalizer) Normalize(p model.Post) model.NormalizedPost {
	folded := fold(p.Title + "\n" + p.Text)
	tokens := n.tokenize(folded)
	return model.NormalizedPost{
		PostID:        p.ID,
		Tokens:        tokens,
		SentimentHint: n.sentiment(folded),
	}
}

// fold lowercases and collapses runs of a repeated rune (elongated
// punctuation, emoji spam) down to two occurrences.
func fold(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	var prev rune = -1
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run > 2 {
				continue
			}
		} else {
			prev = r
			run = 1
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tokenize splits folded text into word tokens. Latin/digit runs split on
// non-alphanumeric boundaries; Han runs are segmented by greedy longest
// match against the dictionary with a sliding bigram window as fallback,
// since CJK text carries no whitespace word boundaries.
func (n *Normalizer) tokenize(s string) []string {
	var out []string
	var latin []rune
	var han []rune

	flushLatin := func() {
		if len(latin) > 0 {
			n.emit(&out, string(latin))
			latin = latin[:0]
		}
	}
	flushHan := func() {
		if len(han) > 0 {
			n.segmentHan(&out, han)
			han = han[:0]
		}
	}

	for _, r := range s {
		switch {
		case unicode.Is(unicode.Han, r):
			flushLatin()
			han = append(han, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushHan()
			latin = append(latin, r)
		default:
			flushLatin()
			flushHan()
		}
	}
	flushLatin()
	flushHan()
	return out
}

// segmentHan walks one contiguous Han run. At each position the longest
// dictionary term wins; otherwise a bigram window slides forward one rune.
// Single stopword runes are skipped without producing a token.
func (n *Normalizer) segmentHan(out *[]string, run []rune) {
	i := 0
	for i < len(run) {
		matched := 0
		limit := n.dictMax
		if rest := len(run) - i; limit > rest {
			limit = rest
		}
		for l := limit; l >= 2; l-- {
			if _, ok := n.dict[string(run[i:i+l])]; ok {
				matched = l
				break
			}
		}
		if matched > 0 {
			n.emit(out, string(run[i:i+matched]))
			i += matched
			continue
		}
		if _, stop := n.stop[string(run[i])]; stop {
			i++
			continue
		}
		if i+1 < len(run) {
			if _, stop := n.stop[string(run[i+1])]; !stop {
				n.emit(out, string(run[i:i+2]))
			}
		}
		i++
	}
}

// emit appends a token unless it is a stopword or pure digits.
func (n *Normalizer) emit(out *[]string, tok string) {
	if tok == "" {
		return
	}
	if _, ok := n.stop[tok]; ok {
		return
	}
	allDigit := true
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			allDigit = false
			break
		}
	}
	if allDigit {
		return
	}
	*out = append(*out, tok)
}

// sentiment counts positive vs negative marker occurrences in the folded
// text. Substring counting (not token membership) keeps multi-rune markers
// visible regardless of how segmentation cut them. Ties resolve to neutral.
func (n *Normalizer) sentiment(folded string) model.Sentiment {
	var pos, neg int
	for _, t := range n.positive {
		pos += strings.Count(folded, strings.ToLower(t))
	}
	for _, t := range n.negative {
		neg += strings.Count(folded, strings.ToLower(t))
	}
	switch {
	case pos > neg:
		return model.SentimentPositive
	case neg > pos:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}
