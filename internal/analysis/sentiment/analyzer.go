// Package sentiment classifies free-text reviews as positive, neutral or
// negative using keyword buckets.
package sentiment

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tableside/concierge/internal/model/review"
)

// Decision 给出评论的情感判断以及得分。
type Decision struct {
	Sentiment review.Sentiment
	Score     int
	Matched   []string
}

// 中文关键词没有词边界，单字词容易误判（如“贵店”），只收录明确的短语
var keywordBuckets = map[review.Sentiment][]string{
	review.Positive: {
		"great", "excellent", "amazing", "awesome", "delicious", "tasty", "friendly", "love", "loved",
		"perfect", "wonderful", "fantastic", "fresh", "recommend", "best", "cozy", "attentive", "thanks",
		"thank you", "好吃", "美味", "满意", "喜欢", "推荐", "热情", "太棒了", "新鲜", "舒服",
	},
	review.Negative: {
		"bad", "terrible", "awful", "cold", "slow", "rude", "dirty", "overpriced", "bland", "disappointing",
		"disappointed", "worst", "never again", "horrible", "stale", "waited", "raw", "noisy", "难吃", "失望",
		"太慢", "不新鲜", "太贵", "很贵", "好贵", "很脏", "太脏", "态度差", "再也不来",
	},
}

// negators flip the bucket of a keyword that follows within negationWindow
// words of the same clause.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "nothing": true, "none": true, "hardly": true,
	"without": true, "wasn't": true, "isn't": true, "didn't": true, "don't": true,
	"wasnt": true, "isnt": true, "didnt": true, "dont": true,
}

// cjkNegators must directly precede the keyword.
var cjkNegators = []string{"不", "没", "没有"}

const negationWindow = 3

// Analyze 根据评论正文推断情感倾向，正负得分相同时视为中性。
// 每次出现都计分：正常命中 +3，被否定的命中给相反倾向 +2。
func Analyze(body string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(body))
	if normalized == "" {
		return Decision{Sentiment: review.Neutral}
	}

	scores := make(map[review.Sentiment]int)
	var matched []string
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			hits := occurrences(normalized, word)
			if len(hits) == 0 {
				continue
			}
			matched = append(matched, word)
			for _, idx := range hits {
				if negated(normalized[:idx], word) {
					scores[flip(label)] += 2
					continue
				}
				scores[label] += 3
			}
		}
	}
	sort.Strings(matched)

	// 感叹号只放大已有的倾向
	if exclamations := strings.Count(body, "!") + strings.Count(body, "！"); exclamations > 0 {
		switch {
		case scores[review.Positive] > scores[review.Negative]:
			scores[review.Positive] += exclamations
		case scores[review.Negative] > scores[review.Positive]:
			scores[review.Negative] += exclamations
		}
	}

	pos, neg := scores[review.Positive], scores[review.Negative]
	switch {
	case pos > neg:
		return Decision{Sentiment: review.Positive, Score: pos - neg, Matched: matched}
	case neg > pos:
		return Decision{Sentiment: review.Negative, Score: neg - pos, Matched: matched}
	default:
		return Decision{Sentiment: review.Neutral, Matched: matched}
	}
}

// occurrences returns the byte offsets of word in text. Latin keywords only
// count as whole words, so "slow" does not match "slow-cooked".
func occurrences(text, word string) []int {
	latin := isLatin(word)
	var hits []int
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			break
		}
		start, end := from+i, from+i+len(word)
		if !latin || (boundaryBefore(text, start) && boundaryAfter(text, end)) {
			hits = append(hits, start)
		}
		from = end
	}
	return hits
}

func negated(prefix, word string) bool {
	if !isLatin(word) {
		for _, n := range cjkNegators {
			if strings.HasSuffix(prefix, n) {
				return true
			}
		}
		return false
	}

	clause := prefix
	if i := strings.LastIndexAny(prefix, ",.;:!?"); i >= 0 {
		clause = prefix[i+1:]
	}
	words := strings.Fields(clause)
	if len(words) > negationWindow {
		words = words[len(words)-negationWindow:]
	}
	for _, w := range words {
		if negators[strings.Trim(w, `"()`)] {
			return true
		}
	}
	return false
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\''
}

func isLatin(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func flip(s review.Sentiment) review.Sentiment {
	if s == review.Positive {
		return review.Negative
	}
	return review.Positive
}
