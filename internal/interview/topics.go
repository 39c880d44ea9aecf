package interview

import (
	"strings"
)

// MaxRelatedTopics bounds the related topics attached to an answer.
const MaxRelatedTopics = 5

var topicKeywords = []string{
	"programming", "javascript", "python", "react", "database", "sql",
	"algorithm", "data structure", "api", "frontend", "backend", "devops",
}

// ExtractTopics finds well-known topic keywords in text, in keyword order,
// title-cased and capped at MaxRelatedTopics.
func ExtractTopics(text string) []string {
	lower := strings.ToLower(text)
	topics := make([]string, 0, MaxRelatedTopics)
	for _, kw := range topicKeywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		topics = append(topics, titleCase(kw))
		if len(topics) == MaxRelatedTopics {
			break
		}
	}
	return topics
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
