package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"rednote-trends/internal/model"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return New(DefaultLexicon())
}

func hasToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}
	return false
}

func TestNormalizeEmptyPost(t *testing.T) {
	n := newTestNormalizer(t)
	np := n.Normalize(model.Post{ID: "p1"})
	if len(np.Tokens) != 0 {
		t.Errorf("expected no tokens, got %v", np.Tokens)
	}
	if np.SentimentHint != model.SentimentNeutral {
		t.Errorf("expected neutral hint, got %s", np.SentimentHint)
	}
	if np.PostID != "p1" {
		t.Errorf("post id not carried: %q", np.PostID)
	}
}

func TestDictionarySegmentation(t *testing.T) {
	n := newTestNormalizer(t)
	np := n.Normalize(model.Post{ID: "p1", Text: "阿凡达太好看了"})
	if !hasToken(np.Tokens, "阿凡达") {
		t.Errorf("expected dictionary term 阿凡达 in tokens, got %v", np.Tokens)
	}
	if !hasToken(np.Tokens, "好看") {
		t.Errorf("expected dictionary term 好看 in tokens, got %v", np.Tokens)
	}
	if hasToken(np.Tokens, "太") || hasToken(np.Tokens, "了") {
		t.Errorf("stopword leaked into tokens: %v", np.Tokens)
	}
}

func TestBigramFallback(t *testing.T) {
	n := newTestNormalizer(t)
	// No dictionary term covers this run; the sliding window must still
	// produce word-sized tokens instead of dropping the text.
	np := n.Normalize(model.Post{ID: "p1", Text: "天气预报"})
	if len(np.Tokens) == 0 {
		t.Fatalf("expected bigram tokens for undictionaried CJK run")
	}
	if !hasToken(np.Tokens, "天气") {
		t.Errorf("expected bigram 天气, got %v", np.Tokens)
	}
}

func TestLatinTokensCaseFolded(t *testing.T) {
	n := newTestNormalizer(t)
	np := n.Normalize(model.Post{ID: "p1", Text: "Watch AVATAR with the crew"})
	if !hasToken(np.Tokens, "avatar") {
		t.Errorf("expected folded latin token avatar, got %v", np.Tokens)
	}
	if hasToken(np.Tokens, "the") || hasToken(np.Tokens, "with") {
		t.Errorf("english stopword leaked: %v", np.Tokens)
	}
}

func TestRepeatedRunCollapse(t *testing.T) {
	if got := fold("好看！！！！！！"); got != "好看！！" {
		t.Errorf("fold collapse mismatch: %q", got)
	}
	if got := fold("Sooo"); got != "soo" {
		t.Errorf("fold collapse mismatch: %q", got)
	}
}

func TestSentimentHints(t *testing.T) {
	n := newTestNormalizer(t)
	cases := []struct {
		text string
		want model.Sentiment
	}{
		{"这部电影太好看了，强推！", model.SentimentPositive},
		{"剧情拖沓，看完很失望", model.SentimentNegative},
		{"明天去影院", model.SentimentNeutral},
		{"好看但是结尾让人失望", model.SentimentNeutral}, // one positive vs one negative marker
	}
	for _, c := range cases {
		np := n.Normalize(model.Post{ID: "x", Text: c.text})
		if np.SentimentHint != c.want {
			t.Errorf("sentiment for %q: got %s want %s", c.text, np.SentimentHint, c.want)
		}
	}
}

func TestLoadLexiconMergesOverDefaults(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "lexicon.yaml")
	content := "dictionary:\n  - 流浪地球\npositive:\n  - 燃爆\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}
	lex, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon error: %v", err)
	}
	n := New(lex)
	np := n.Normalize(model.Post{ID: "p1", Text: "流浪地球真的燃爆"})
	if !hasToken(np.Tokens, "流浪地球") {
		t.Errorf("merged dictionary term missing: %v", np.Tokens)
	}
	if np.SentimentHint != model.SentimentPositive {
		t.Errorf("merged positive marker not applied, got %s", np.SentimentHint)
	}
	// defaults must survive the merge
	np = n.Normalize(model.Post{ID: "p2", Text: "阿凡达"})
	if !hasToken(np.Tokens, "阿凡达") {
		t.Errorf("default dictionary lost after merge: %v", np.Tokens)
	}
}
