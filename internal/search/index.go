// Package search provides a simple, deterministic, concurrency-safe in-memory
// search index built from published article bodies. It is intentionally small
// and dependency-free, but engineered with production-grade ergonomics:
//
//   - No logging in the library (callers decide how/what to log)
//   - Clear, documented types and functional options (Option pattern)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Immutable, read-only index after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//   - Sensible defaults (paragraph filtering, result caps)
//   - Minimal Index interface (TopK(query, k int) []Result)
//
// Each article is split into paragraphs; every paragraph remembers the slug
// and title of the article it came from, so results link back to the source.
// Scoring uses Jaccard similarity between the query token set and each
// paragraph's token set: score = |Q ∩ P| / |Q ∪ P|.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Document is one article fed into the index. Body is Markdown; it is
// flattened to plain text before indexing.
type Document struct {
	Slug  string
	Title string
	Body  string
}

// Result is a ranked snippet with its similarity score and the article it
// was taken from.
type Result struct {
	Slug    string
	Title   string
	Snippet string
	Score   float64
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	minParagraphRunes int
	stopwords         map[string]struct{}
	maxDocs           int
}

func defaultConfig() config {
	return config{
		minParagraphRunes: 40,
		stopwords:         nil,
		maxDocs:           0,
	}
}

func WithMinParagraphRunes(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minParagraphRunes = n
		}
	}
}

func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

func WithMaxDocs(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDocs = n
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

type para struct {
	slug   string
	title  string
	text   string
	tokens map[string]struct{}
	tLen   int
}

type index struct {
	cfg   config
	paras []para
}

// NewIndex builds an Index from article documents. Bodies are flattened from
// Markdown and split into paragraphs on blank lines; paragraphs shorter than
// the configured minimum are skipped.
func NewIndex(docs []Document, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	paras := make([]para, 0, len(docs)*4)
	count := 0
outer:
	for _, d := range docs {
		for _, raw := range splitParas(FlattenMarkdown(d.Body)) {
			t := strings.TrimSpace(normalizeWhitespace(raw))
			if t == "" {
				continue
			}
			if cfg.minParagraphRunes > 0 && utf8.RuneCountInString(t) < cfg.minParagraphRunes {
				continue
			}
			toks := tokenize(t, cfg.stopwords)
			if len(toks) == 0 {
				continue
			}
			paras = append(paras, para{slug: d.Slug, title: d.Title, text: t, tokens: toks, tLen: len(toks)})
			count++
			if cfg.maxDocs > 0 && count >= cfg.maxDocs {
				break outer
			}
		}
	}
	return &index{cfg: cfg, paras: paras}
}

// TopK returns up to k best-matching paragraphs by Jaccard similarity.
func (i *index) TopK(q string, k int) []Result {
	if len(i.paras) == 0 {
		return nil
	}
	if strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	type scored struct {
		p        para
		score    float64
		lenRunes int
	}

	buf := make([]scored, 0, min(k*4, len(i.paras)))
	for _, d := range i.paras {
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		union := float64(qLen + d.tLen - over)
		if union <= 0 {
			continue
		}
		score := float64(over) / union
		if score <= 0 {
			continue
		}
		buf = append(buf, scored{
			p:        d,
			score:    score,
			lenRunes: utf8.RuneCountInString(d.text),
		})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		if buf[a].lenRunes != buf[b].lenRunes {
			return buf[a].lenRunes < buf[b].lenRunes
		}
		return buf[a].p.text < buf[b].p.text
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Result, k)
	for i := 0; i < k; i++ {
		out[i] = Result{
			Slug:    buf[i].p.slug,
			Title:   buf[i].p.title,
			Snippet: buf[i].p.text,
			Score:   buf[i].score,
		}
	}
	return out
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	s = strings.ToLower(s)
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func normalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

var paraSplitRE = regexp.MustCompile(`\n\s*\n`)

func splitParas(s string) []string {
	chunks := paraSplitRE.Split(s, -1)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if t := strings.TrimSpace(c); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
