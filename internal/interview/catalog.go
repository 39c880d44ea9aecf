package interview

import (
	"strings"

	"github.com/jonathan/interview-partner/internal/types"
)

// MinutesPerQuestion is the estimated time budget of one question.
const MinutesPerQuestion = 3

// Option is a selectable value with a display label.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// DifficultyOption is a difficulty level with its expected interview length.
type DifficultyOption struct {
	Option
	DurationMinutes int `json:"duration_minutes"`
}

// Criterion is one dimension of answer scoring.
type Criterion struct {
	Description string   `json:"description"`
	Weight      int      `json:"weight"`
	Factors     []string `json:"factors"`
}

// Catalog is everything the setup screens offer.
type Catalog struct {
	Roles            []string           `json:"roles"`
	ExperienceLevels []Option           `json:"experience_levels"`
	Difficulties     []DifficultyOption `json:"difficulty_levels"`
	QuestionTypes    []Option           `json:"question_types"`
}

// Roles offered by the setup flow. Free-text roles are accepted too.
var Roles = []string{
	"Software Developer",
	"Frontend Developer",
	"Backend Developer",
	"Full Stack Developer",
	"Data Scientist",
	"DevOps Engineer",
	"Product Manager",
	"Mobile Developer",
	"QA Engineer",
	"Machine Learning Engineer",
}

// ExperienceLevels describes each experience bracket.
var ExperienceLevels = []Option{
	{Value: string(types.ExperienceFresher), Label: "Fresher", Description: "No professional experience yet"},
	{Value: string(types.ExperienceZeroToOne), Label: "0-1 years", Description: "Entry level"},
	{Value: string(types.ExperienceOneToTwo), Label: "1-2 years", Description: "Junior"},
	{Value: string(types.ExperienceTwoToThree), Label: "2-3 years", Description: "Mid level"},
	{Value: string(types.ExperienceThreeToFive), Label: "3-5 years", Description: "Senior"},
	{Value: string(types.ExperienceFivePlus), Label: "5+ years", Description: "Lead / staff"},
}

// Difficulties lists the difficulty levels with their expected durations.
var Difficulties = []DifficultyOption{
	{Option: Option{Value: string(types.DifficultyEasy), Label: "Easy", Description: "Fundamentals and warm-up questions"}, DurationMinutes: 20},
	{Option: Option{Value: string(types.DifficultyMedium), Label: "Medium", Description: "Typical screening interview"}, DurationMinutes: 30},
	{Option: Option{Value: string(types.DifficultyHard), Label: "Hard", Description: "Deep technical and design questions"}, DurationMinutes: 45},
	{Option: Option{Value: string(types.DifficultyExpert), Label: "Expert", Description: "Senior-level system design and leadership"}, DurationMinutes: 60},
}

// QuestionTypes describes each question type.
var QuestionTypes = []Option{
	{Value: string(types.QuestionTechnical), Label: "Technical", Description: "Knowledge of tools, languages and concepts"},
	{Value: string(types.QuestionBehavioral), Label: "Behavioral", Description: "Past behaviour and teamwork"},
	{Value: string(types.QuestionSituational), Label: "Situational", Description: "How you would handle a hypothetical scenario"},
	{Value: string(types.QuestionResumeSpecific), Label: "Resume specific", Description: "Questions about your own experience"},
}

// DefaultCatalog returns the setup catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Roles:            Roles,
		ExperienceLevels: ExperienceLevels,
		Difficulties:     Difficulties,
		QuestionTypes:    QuestionTypes,
	}
}

// DurationFor returns the expected interview length of a difficulty, or 0 when unknown.
func DurationFor(d types.Difficulty) int {
	for _, opt := range Difficulties {
		if opt.Value == string(d) {
			return opt.DurationMinutes
		}
	}
	return 0
}

// ScoringCriteria are the answer-scoring dimensions; weights sum to 100.
var ScoringCriteria = map[string]Criterion{
	"technical_accuracy": {
		Description: "Correctness of technical information and concepts",
		Weight:      25,
		Factors:     []string{"Factual accuracy", "Technical depth", "Industry knowledge", "Best practices"},
	},
	"communication_clarity": {
		Description: "How well the candidate communicates their thoughts",
		Weight:      20,
		Factors:     []string{"Clarity of expression", "Structure", "Examples usage", "Articulation"},
	},
	"depth_of_knowledge": {
		Description: "Understanding of underlying concepts and principles",
		Weight:      20,
		Factors:     []string{"Conceptual understanding", "Problem analysis", "Edge cases", "Alternatives"},
	},
	"problem_solving": {
		Description: "Approach to solving problems and thinking process",
		Weight:      20,
		Factors:     []string{"Logical reasoning", "Systematic approach", "Creativity", "Efficiency"},
	},
	"confidence": {
		Description: "Confidence and professionalism in responses",
		Weight:      15,
		Factors:     []string{"Decisiveness", "Self-assurance", "Professional demeanor", "Adaptability"},
	},
}

// PopularQuestions are common questions grouped by category.
var PopularQuestions = map[string][]string{
	"programming_basics": {
		"What is the difference between == and === in JavaScript?",
		"Explain the concept of closures in programming",
		"What is the difference between stack and heap memory?",
		"How does garbage collection work?",
		"What are the principles of Object-Oriented Programming?",
	},
	"data_structures": {
		"What is bubble sort and how does it work?",
		"Explain the difference between array and linked list",
		"What is a binary search tree?",
		"How do hash tables work?",
		"What is the time complexity of different sorting algorithms?",
	},
	"web_development": {
		"Explain REST API and its principles",
		"What is the difference between HTTP and HTTPS?",
		"How does authentication work in web applications?",
		"What is CORS and why is it important?",
		"Explain the MVC architecture pattern",
	},
	"database": {
		"What is the difference between SQL and NoSQL databases?",
		"Explain database normalization",
		"What are database indexes and why are they important?",
		"How do database transactions work?",
		"What is the CAP theorem?",
	},
	"system_design": {
		"How would you design a URL shortener like bit.ly?",
		"Explain microservices architecture",
		"What is load balancing and how does it work?",
		"How do you handle scaling in distributed systems?",
		"What is caching and different caching strategies?",
	},
	"career_advice": {
		"How do I prepare for technical interviews?",
		"What skills should I focus on as a junior developer?",
		"How do I transition from one tech stack to another?",
		"What are the best practices for code reviews?",
		"How do I negotiate salary in tech interviews?",
	},
}

// Interview types accepted by Tips.
const (
	TipsTechnical    = "technical"
	TipsBehavioral   = "behavioral"
	TipsSystemDesign = "system_design"
)

// MaxTips bounds the number of tips returned.
const MaxTips = 10

var technicalTips = []string{
	"Practice coding problems on platforms like LeetCode and HackerRank",
	"Understand time and space complexity of your solutions",
	"Think out loud during problem-solving",
	"Ask clarifying questions before starting to code",
	"Test your code with edge cases",
}

var fresherTips = []string{
	"Focus on fundamental data structures and algorithms",
	"Practice basic programming concepts thoroughly",
	"Prepare to explain your academic projects in detail",
	"Show enthusiasm for learning and growth",
}

var experiencedTips = []string{
	"Be prepared to discuss system design and architecture",
	"Share real-world problem-solving experiences",
	"Discuss trade-offs in your technical decisions",
	"Prepare to mentor junior developers scenarios",
}

var behavioralTips = []string{
	"Use the STAR method (Situation, Task, Action, Result)",
	"Prepare specific examples from your experience",
	"Show how you handle conflict and teamwork",
	"Demonstrate leadership and problem-solving skills",
	"Research the company culture and values",
}

var systemDesignTips = []string{
	"Start with requirements gathering and clarifications",
	"Think about scalability from the beginning",
	"Consider data storage and retrieval patterns",
	"Discuss trade-offs between different approaches",
	"Address monitoring, logging, and error handling",
}

var roleTips = map[string][]string{
	"software developer": {"Practice algorithms and data structures", "Know your chosen programming language deeply"},
	"software engineer":  {"Practice algorithms and data structures", "Know your chosen programming language deeply"},
	"frontend developer": {"Understand modern frameworks", "Know CSS and responsive design"},
	"backend developer":  {"Understand databases and APIs", "Know about scalability and performance"},
	"devops engineer":    {"Understand CI/CD pipelines", "Know cloud platforms and containerization"},
	"data scientist":     {"Understand statistics and machine learning", "Be able to explain your model choices"},
}

// Tips returns up to MaxTips interview tips for an interview type, tailored
// by experience level and role. Technical interviews add level-specific tips:
// fresher and 0-1 years get fundamentals, 3+ years get experienced tips.
func Tips(role, experienceLevel, interviewType string) []string {
	var tips []string
	switch interviewType {
	case TipsBehavioral:
		tips = append(tips, behavioralTips...)
	case TipsSystemDesign:
		tips = append(tips, systemDesignTips...)
	default:
		tips = append(tips, technicalTips...)
		switch experienceTier(experienceLevel) {
		case "fresher":
			tips = append(tips, fresherTips...)
		case "experienced":
			tips = append(tips, experiencedTips...)
		}
	}

	tips = append(tips, roleTips[strings.ToLower(strings.TrimSpace(role))]...)
	if len(tips) > MaxTips {
		tips = tips[:MaxTips]
	}
	return tips
}

// experienceTier groups brackets for tip selection. The literal tier names are accepted as well.
func experienceTier(level string) string {
	switch level {
	case "fresher", string(types.ExperienceFresher), string(types.ExperienceZeroToOne):
		return "fresher"
	case "experienced", string(types.ExperienceThreeToFive), string(types.ExperienceFivePlus):
		return "experienced"
	default:
		return ""
	}
}

// roleQuestionBank is the local question bank used when no model is available.
var roleQuestionBank = map[string][]string{
	"software_developer": {
		"Tell me about yourself and your programming background.",
		"Why are you interested in this software developer role?",
		"What programming languages are you most comfortable with?",
		"Describe a challenging project you've worked on recently.",
		"How do you approach debugging complex issues?",
		"What's your experience with version control systems like Git?",
		"How do you stay updated with new technologies?",
		"Describe your experience with databases.",
		"What's your approach to writing clean, maintainable code?",
		"How do you handle code reviews and feedback?",
	},
	"data_scientist": {
		"Tell me about your background in data science.",
		"Why are you interested in this data scientist role?",
		"What machine learning algorithms are you most familiar with?",
		"Describe a data science project you're proud of.",
		"How do you handle missing data in datasets?",
		"What's your experience with Python libraries like pandas and scikit-learn?",
		"How do you validate the performance of your models?",
		"Describe your experience with data visualization.",
		"How do you communicate technical results to non-technical stakeholders?",
		"What's your approach to feature engineering?",
	},
	"product_manager": {
		"Tell me about your background in product management.",
		"Why are you interested in this product manager role?",
		"How do you prioritize features in a product roadmap?",
		"Describe a product launch you've managed.",
		"How do you gather and analyze user feedback?",
		"What's your approach to working with engineering teams?",
		"How do you measure product success?",
		"Describe a time when you had to make a difficult product decision.",
		"How do you handle competing stakeholder demands?",
		"What's your experience with A/B testing?",
	},
}

// roleKey normalises a role name into a question bank key.
func roleKey(role string) string {
	key := strings.ToLower(strings.TrimSpace(role))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if _, ok := roleQuestionBank[key]; ok {
		return key
	}
	switch {
	case strings.Contains(key, "data") || strings.Contains(key, "machine_learning"):
		return "data_scientist"
	case strings.Contains(key, "product"):
		return "product_manager"
	default:
		return "software_developer"
	}
}

// BankQuestions returns the local question bank for a role.
func BankQuestions(role string) []string {
	return roleQuestionBank[roleKey(role)]
}
