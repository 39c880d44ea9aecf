package types

// ResumeForm is the input of the resume builder.
type ResumeForm struct {
	FullName   string            `json:"full_name" validate:"required,min=2"`
	Email      string            `json:"email" validate:"required,email"`
	Phone      string            `json:"phone,omitempty"`
	Location   string            `json:"location,omitempty"`
	Links      []string          `json:"links,omitempty"`
	Summary    string            `json:"summary,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty" validate:"dive"`
	Education  []EducationEntry  `json:"education,omitempty" validate:"dive"`
	Projects   []ProjectEntry    `json:"projects,omitempty" validate:"dive"`
}

// ExperienceEntry is one job in the resume builder.
type ExperienceEntry struct {
	Title     string   `json:"title" validate:"required"`
	Company   string   `json:"company" validate:"required"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
}

// EducationEntry is one degree in the resume builder.
type EducationEntry struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Year        string `json:"year,omitempty"`
	Details     string `json:"details,omitempty"`
}

// ProjectEntry is one side project in the resume builder.
type ProjectEntry struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Tech        []string `json:"tech,omitempty"`
}
