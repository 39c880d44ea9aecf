package ingestion

import (
	"strings"

	"github.com/jonathan/interview-partner/internal/types"
)

// BuildResume renders a resume-builder form as plain text with the section
// headings and bullet layout the ATS scorer recognises.
func BuildResume(form types.ResumeForm) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(form.FullName))
	sb.WriteString("\n")
	contact := nonEmpty(form.Email, form.Phone, form.Location)
	contact = append(contact, nonEmpty(form.Links...)...)
	sb.WriteString(strings.Join(contact, " | "))
	sb.WriteString("\n")

	if s := strings.TrimSpace(form.Summary); s != "" {
		section(&sb, "Summary")
		sb.WriteString(s)
		sb.WriteString("\n")
	}

	if len(form.Experience) > 0 {
		section(&sb, "Experience")
		for i, e := range form.Experience {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(strings.TrimSpace(e.Title) + ", " + strings.TrimSpace(e.Company))
			if dates := dateRange(e.StartDate, e.EndDate); dates != "" {
				sb.WriteString(", " + dates)
			}
			sb.WriteString("\n")
			for _, b := range nonEmpty(e.Bullets...) {
				sb.WriteString("- " + b + "\n")
			}
		}
	}

	if len(form.Projects) > 0 {
		section(&sb, "Projects")
		for _, p := range form.Projects {
			line := "- " + strings.TrimSpace(p.Name)
			if d := strings.TrimSpace(p.Description); d != "" {
				line += ": " + d
			}
			if tech := nonEmpty(p.Tech...); len(tech) > 0 {
				line += " (" + strings.Join(tech, ", ") + ")"
			}
			sb.WriteString(line + "\n")
		}
	}

	if len(form.Education) > 0 {
		section(&sb, "Education")
		for _, e := range form.Education {
			line := strings.TrimSpace(e.Degree) + ", " + strings.TrimSpace(e.Institution)
			if y := strings.TrimSpace(e.Year); y != "" {
				line += ", " + y
			}
			sb.WriteString(line + "\n")
			if d := strings.TrimSpace(e.Details); d != "" {
				sb.WriteString(d + "\n")
			}
		}
	}

	if skills := nonEmpty(form.Skills...); len(skills) > 0 {
		section(&sb, "Skills")
		sb.WriteString(strings.Join(skills, ", "))
		sb.WriteString("\n")
	}

	return CleanText(sb.String())
}

func section(sb *strings.Builder, heading string) {
	sb.WriteString("\n")
	sb.WriteString(heading)
	sb.WriteString("\n")
}

func dateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " - Present"
	case start == "":
		return end
	default:
		return start + " - " + end
	}
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
