package interview

import (
	"math/rand/v2"
	"strings"
)

// DefaultFollowUp is asked when neither the model nor the keyword tables produce a follow-up.
const DefaultFollowUp = "Can you elaborate more on that approach?"

// minWordsForGenericFollowUp is the answer length above which a generic follow-up is asked.
const minWordsForGenericFollowUp = 15

type followUpRule struct {
	keyword   string
	questions []string
}

// contextualFollowUps are checked in order; the first keyword found in the answer wins.
var contextualFollowUps = []followUpRule{
	{keyword: "machine learning", questions: []string{
		"What specific machine learning algorithms have you worked with?",
		"Can you describe a machine learning project you're proud of?",
		"How do you handle overfitting in your models?",
		"What's your experience with data preprocessing?",
	}},
	{keyword: "communication", questions: []string{
		"Can you give an example of when you had to explain technical concepts to non-technical stakeholders?",
		"How do you handle disagreements in team meetings?",
		"Describe a time when clear communication saved a project.",
	}},
	{keyword: "project", questions: []string{
		"What was the most challenging aspect of that project?",
		"How did you manage the project timeline and deliverables?",
		"What would you do differently if you could restart that project?",
	}},
	{keyword: "experience", questions: []string{
		"What was the biggest lesson you learned from that experience?",
		"How has that experience shaped your approach to similar situations?",
		"Can you walk me through your decision-making process in that situation?",
	}},
	{keyword: "skill", questions: []string{
		"How did you develop that skill?",
		"Can you give me a specific example of using that skill?",
		"What's the most advanced application of that skill you've done?",
	}},
	{keyword: "challenge", questions: []string{
		"How did you overcome that challenge?",
		"What resources or help did you seek?",
		"What did you learn from facing that challenge?",
	}},
}

var genericFollowUps = []string{
	"Can you elaborate on that with a specific example?",
	"What was the most challenging part of that?",
	"How did that experience change your perspective?",
	"What would you do differently next time?",
}

// FollowUpPicker chooses among candidate follow-ups. It returns an index in [0, n).
type FollowUpPicker func(n int) int

// RandomPicker picks uniformly at random.
func RandomPicker(n int) int { return rand.IntN(n) }

// ContextualFollowUp picks a follow-up from keyword tables. Answers that mention
// no keyword get a generic follow-up when they are long enough; short ones get none.
func ContextualFollowUp(answer string, pick FollowUpPicker) (string, bool) {
	if pick == nil {
		pick = RandomPicker
	}
	lower := strings.ToLower(answer)
	for _, rule := range contextualFollowUps {
		if strings.Contains(lower, rule.keyword) {
			return rule.questions[pick(len(rule.questions))], true
		}
	}
	if len(strings.Fields(answer)) > minWordsForGenericFollowUp {
		return genericFollowUps[pick(len(genericFollowUps))], true
	}
	return "", false
}

// cleanFollowUp strips quotes and labels models like to add around a single question.
func cleanFollowUp(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"Follow-up question:", "Follow-up Question:", "Follow-up:", "Question:"} {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	text = strings.Trim(text, "\"'`* \n")
	return strings.TrimSpace(text)
}
