package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxVocabularyTerms caps the fitted vocabulary. Terms are kept by corpus
// document frequency so a huge catalog does not blow up per-request work.
const maxVocabularyTerms = 500

// stopWords filters common English words that add noise to text matching.
var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "such": true,
	"per": true, "any": true, "may": true, "out": true, "over": true,
}

// tokenize lowercases text and splits it into keyword tokens, skipping stop
// words. + # . count as word characters so "c++", "c#" and "node.js"
// survive tokenization.
func tokenize(text string) []string {
	var tokens []string
	var word strings.Builder
	flush := func() {
		w := word.String()
		word.Reset()
		w = strings.TrimRight(w, ".")
		if len([]rune(w)) >= 2 && !stopWords[w] {
			tokens = append(tokens, w)
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// terms produces the term sequence for one document: unigrams plus adjacent
// bigrams of the token stream.
func terms(text string) []string {
	tokens := tokenize(text)
	result := make([]string, 0, 2*len(tokens))
	result = append(result, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		result = append(result, tokens[i]+" "+tokens[i+1])
	}
	return result
}

// vectorizer holds a vocabulary and IDF weights fitted over one corpus.
// Vectors from different vectorizers are never comparable.
type vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// fitVectorizer builds the vocabulary and smoothed IDF weights over the
// given term-sequences. Vocabulary selection is deterministic: terms are
// ranked by document frequency, ties broken lexicographically.
func fitVectorizer(docs [][]string) *vectorizer {
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}

	allTerms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		allTerms = append(allTerms, term)
	}
	sort.Slice(allTerms, func(i, j int) bool {
		if docFreq[allTerms[i]] != docFreq[allTerms[j]] {
			return docFreq[allTerms[i]] > docFreq[allTerms[j]]
		}
		return allTerms[i] < allTerms[j]
	})
	if len(allTerms) > maxVocabularyTerms {
		allTerms = allTerms[:maxVocabularyTerms]
	}

	v := &vectorizer{
		vocab: make(map[string]int, len(allTerms)),
		idf:   make([]float64, len(allTerms)),
	}
	n := float64(len(docs))
	for i, term := range allTerms {
		v.vocab[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// transform maps a term sequence to an L2-normalized TF-IDF vector. A
// document sharing no vocabulary terms yields the zero vector.
func (v *vectorizer) transform(doc []string) []float64 {
	vec := make([]float64, len(v.idf))
	for _, term := range doc {
		if idx, ok := v.vocab[term]; ok {
			vec[idx] += v.idf[idx]
		}
	}

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// cosine returns the cosine similarity of two L2-normalized vectors.
// Zero vectors are orthogonal to everything, including each other.
func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	// Guard against float drift outside [0,1].
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}

// textSimilarities fits a vocabulary over the catalog documents plus the
// candidate document and returns the cosine similarity of each catalog
// document against the candidate, all in [0,1].
func textSimilarities(catalogDocs []string, candidateDoc string) []float64 {
	candidateTerms := terms(candidateDoc)

	corpus := make([][]string, 0, len(catalogDocs)+1)
	for _, doc := range catalogDocs {
		corpus = append(corpus, terms(doc))
	}
	corpus = append(corpus, candidateTerms)

	v := fitVectorizer(corpus)
	candidateVec := v.transform(candidateTerms)

	sims := make([]float64, len(catalogDocs))
	for i := range catalogDocs {
		sims[i] = cosine(v.transform(corpus[i]), candidateVec)
	}
	return sims
}
