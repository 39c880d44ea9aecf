package scoring

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-partner/internal/types"
)

// ATS category names and their maximum points.
const (
	CategoryLength      = "length"
	CategoryContact     = "contact"
	CategorySkills      = "skills"
	CategoryExperience  = "experience"
	CategoryEducation   = "education"
	CategoryActionVerbs = "action_verbs"
	CategoryFormatting  = "formatting"
)

var categoryMax = map[string]int{
	CategoryLength:      15,
	CategoryContact:     15,
	CategorySkills:      25,
	CategoryExperience:  20,
	CategoryEducation:   10,
	CategoryActionVerbs: 10,
	CategoryFormatting:  5,
}

// DefaultMinResumeChars is the shortest resume text accepted for a session.
const DefaultMinResumeChars = 100

// KnownSkills is the keyword list the skills category matches against.
var KnownSkills = []string{
	"go", "golang", "python", "java", "javascript", "typescript", "c++", "c#",
	"ruby", "rust", "kotlin", "swift", "php", "scala", "sql", "nosql",
	"react", "angular", "vue", "node.js", "django", "flask", "spring",
	"html", "css", "graphql", "rest", "grpc", "postgresql", "mysql",
	"mongodb", "redis", "kafka", "rabbitmq", "elasticsearch", "aws", "azure",
	"gcp", "docker", "kubernetes", "terraform", "ansible", "jenkins", "git",
	"linux", "ci/cd", "microservices", "machine learning", "deep learning",
	"tensorflow", "pytorch", "pandas", "numpy", "spark", "hadoop", "tableau",
	"figma", "agile", "scrum",
}

// sectionOnlySkills are keywords that are also ordinary English words. They
// count only inside a skills section or a labelled skills line.
var sectionOnlySkills = map[string]bool{
	"go":     true,
	"rest":   true,
	"spring": true,
	"swift":  true,
}

// ActionVerbs are the impact verbs the action_verbs category rewards.
var ActionVerbs = []string{
	"achieved", "analyzed", "architected", "automated", "built", "collaborated",
	"created", "delivered", "designed", "developed", "implemented", "improved",
	"increased", "launched", "led", "managed", "mentored", "optimized",
	"reduced", "resolved", "spearheaded", "streamlined",
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	linkPattern  = regexp.MustCompile(`(?i)(linkedin\.com/|github\.com/|gitlab\.com/|portfolio|https?://)`)

	experienceHeading = regexp.MustCompile(`(?im)^\s*(work experience|professional experience|experience|employment history|employment|work history)\s*:?\s*$`)
	educationHeading  = regexp.MustCompile(`(?im)^\s*(education|academic background|academics|qualifications)\s*:?\s*$`)
	degreePattern     = regexp.MustCompile(`(?i)\b(bachelor|master|ph\.?d|mba|b\.?tech|m\.?tech|b\.?sc|m\.?sc|degree|university|college|institute)\b`)
	sectionHeading    = regexp.MustCompile(`(?im)^\s*(professional summary|summary|objective|profile|work experience|professional experience|experience|employment|education|skills|technical skills|projects|certifications|achievements|awards|publications|interests|languages)\s*:?\s*$`)
	bulletLine        = regexp.MustCompile(`(?m)^\s*([-*•▪◦‣]|\d+[.)])\s+\S`)
	quantified        = regexp.MustCompile(`(?i)(\$\s?\d[\d,.]*[kmb]?|\b\d[\d,.]*\s?(%|percent|x\b|\+|k\b|users|customers|ms\b))`)

	month     = `(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+`
	dateRange = regexp.MustCompile(`(?i)\b(` + month + `)?(19|20)\d{2}\s*(-|–|—|to)\s*((` + month + `)?(19|20)\d{2}|present|current|now)\b`)

	skillsHeading = regexp.MustCompile(`(?i)^\s*(skills|technical skills|core skills|tech stack|technologies)\s*:?\s*$`)
	skillsLabel   = regexp.MustCompile(`(?im)^\s*(skills|technical skills|core skills|tech stack|technologies|languages|tools)\s*:\s*\S.*$`)

	skillPatterns = compileKeywords(KnownSkills)
	verbPatterns  = compileKeywords(ActionVerbs)
)

// compileKeywords builds one case-insensitive matcher per keyword. Word
// boundaries are explicit so that keywords ending in symbols ("c++") match.
func compileKeywords(words []string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(words))
	for _, w := range words {
		out[w] = regexp.MustCompile(`(?i)(^|[^a-z0-9+#])` + regexp.QuoteMeta(w) + `($|[^a-z0-9+#])`)
	}
	return out
}

// ResumeTooShortError is returned when resume text is below the minimum length.
type ResumeTooShortError struct {
	Length int
	Min    int
}

func (e *ResumeTooShortError) Error() string {
	return fmt.Sprintf("resume text too short: %d characters, need at least %d", e.Length, e.Min)
}

// ValidateResumeText rejects resume text shorter than minChars after trimming.
// A non-positive minChars uses DefaultMinResumeChars.
func ValidateResumeText(text string, minChars int) error {
	if minChars <= 0 {
		minChars = DefaultMinResumeChars
	}
	n := utf8.RuneCountInString(strings.Join(strings.Fields(text), " "))
	if n < minChars {
		return &ResumeTooShortError{Length: n, Min: minChars}
	}
	return nil
}

// ScoreResume computes the ATS score of resume text.
func ScoreResume(text string) types.ATSResult {
	words := strings.Fields(text)
	result := types.ATSResult{WordCount: len(words)}
	var suggestions []string

	// length
	length := types.CategoryScore{Name: CategoryLength}
	switch n := len(words); {
	case n < 50:
		length.Score = 0
		suggestions = append(suggestions, "Your resume is very short. Describe your roles, projects and results in more detail.")
	case n < 150:
		length.Score = 5
		suggestions = append(suggestions, "Add more detail about your experience; aim for 300 to 800 words.")
	case n < 300:
		length.Score = 10
		suggestions = append(suggestions, "Expand your experience section; aim for 300 to 800 words.")
	case n <= 800:
		length.Score = 15
	default:
		length.Score = 10
		suggestions = append(suggestions, "Your resume is long. Trim it to the most relevant 800 words.")
	}
	length.Details = []string{fmt.Sprintf("%d words", len(words))}

	// contact
	contact := types.CategoryScore{Name: CategoryContact}
	if emailPattern.MatchString(text) {
		contact.Score += 6
		contact.Details = append(contact.Details, "email")
	} else {
		suggestions = append(suggestions, "Add a professional email address.")
	}
	if phonePattern.MatchString(text) {
		contact.Score += 5
		contact.Details = append(contact.Details, "phone")
	} else {
		suggestions = append(suggestions, "Add a phone number.")
	}
	if linkPattern.MatchString(text) {
		contact.Score += 4
		contact.Details = append(contact.Details, "profile link")
	} else {
		suggestions = append(suggestions, "Add a LinkedIn, GitHub or portfolio link.")
	}

	// skills
	skills := types.CategoryScore{Name: CategorySkills}
	result.MatchedSkills = matchSkills(text)
	skills.Score = 3 * len(result.MatchedSkills)
	skills.Details = result.MatchedSkills
	if len(result.MatchedSkills) < 5 {
		suggestions = append(suggestions, "List more of your technical skills using standard names (for example Python, SQL, Docker).")
	}

	// experience
	experience := types.CategoryScore{Name: CategoryExperience}
	if experienceHeading.MatchString(text) {
		experience.Score += 8
		experience.Details = append(experience.Details, "experience section")
	} else {
		suggestions = append(suggestions, "Add a clearly labelled Experience section.")
	}
	if ranges := len(dateRange.FindAllStringIndex(text, -1)); ranges > 0 {
		experience.Score += min(9, 3*ranges)
		experience.Details = append(experience.Details, fmt.Sprintf("%d date ranges", ranges))
	} else {
		suggestions = append(suggestions, "Add date ranges (for example 2021 - Present) to each role.")
	}
	if q := len(quantified.FindAllStringIndex(text, -1)); q > 0 {
		experience.Score += min(3, q)
		experience.Details = append(experience.Details, fmt.Sprintf("%d quantified results", q))
	} else {
		suggestions = append(suggestions, "Quantify your impact with numbers, percentages or amounts.")
	}

	// education
	education := types.CategoryScore{Name: CategoryEducation}
	if educationHeading.MatchString(text) {
		education.Score += 4
		education.Details = append(education.Details, "education section")
	} else {
		suggestions = append(suggestions, "Add an Education section.")
	}
	if degreePattern.MatchString(text) {
		education.Score += 6
		education.Details = append(education.Details, "degree or institution")
	} else {
		suggestions = append(suggestions, "Mention your degree and institution.")
	}

	// action verbs
	verbs := types.CategoryScore{Name: CategoryActionVerbs}
	result.ActionVerbs = matchKeywords(text, verbPatterns)
	verbs.Score = 2 * len(result.ActionVerbs)
	verbs.Details = result.ActionVerbs
	if len(result.ActionVerbs) < 5 {
		suggestions = append(suggestions, "Start bullet points with strong action verbs such as led, built or optimized.")
	}

	// formatting
	formatting := types.CategoryScore{Name: CategoryFormatting}
	bullets := len(bulletLine.FindAllStringIndex(text, -1))
	if bullets >= 3 {
		formatting.Score += 3
	} else {
		suggestions = append(suggestions, "Use bullet points to describe responsibilities and achievements.")
	}
	headings := distinctHeadings(text)
	if headings >= 3 {
		formatting.Score += 2
	} else {
		suggestions = append(suggestions, "Organise the resume into clear sections (Summary, Experience, Education, Skills).")
	}
	formatting.Details = []string{fmt.Sprintf("%d bullets", bullets), fmt.Sprintf("%d sections", headings)}

	result.Categories = []types.CategoryScore{length, contact, skills, experience, education, verbs, formatting}
	total := 0
	for i := range result.Categories {
		c := &result.Categories[i]
		c.MaxScore = categoryMax[c.Name]
		c.Score = min(c.MaxScore, max(0, c.Score))
		total += c.Score
	}
	result.TotalScore = clamp(float64(total))
	result.Grade = Grade(result.TotalScore)
	result.Suggestions = suggestions
	return result
}

// Grade maps a total ATS score to its label.
func Grade(total int) string {
	switch {
	case total >= 80:
		return "Excellent"
	case total >= 60:
		return "Good"
	case total >= 40:
		return "Fair"
	default:
		return "Needs Work"
	}
}

func matchKeywords(text string, patterns map[string]*regexp.Regexp) []string {
	var found []string
	for word, re := range patterns {
		if re.MatchString(text) {
			found = append(found, word)
		}
	}
	sort.Strings(found)
	return found
}

// matchSkills matches KnownSkills against text. Keywords in
// sectionOnlySkills are looked up in the skills section only.
func matchSkills(text string) []string {
	listed := skillsText(text)
	var found []string
	for word, re := range skillPatterns {
		scope := text
		if sectionOnlySkills[word] {
			scope = listed
		}
		if scope != "" && re.MatchString(scope) {
			found = append(found, word)
		}
	}
	sort.Strings(found)
	return found
}

// skillsText returns the lines under a skills heading, up to the next
// section heading, plus any "Skills: ..." style labelled lines.
func skillsText(text string) string {
	var sb strings.Builder
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		switch {
		case skillsHeading.MatchString(line):
			inSection = true
			continue
		case sectionHeading.MatchString(line):
			inSection = false
		}
		if inSection || skillsLabel.MatchString(line) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func distinctHeadings(text string) int {
	seen := make(map[string]struct{})
	for _, m := range sectionHeading.FindAllStringSubmatch(text, -1) {
		seen[strings.ToLower(m[1])] = struct{}{}
	}
	return len(seen)
}
