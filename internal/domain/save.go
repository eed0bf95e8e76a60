package domain

// SavePayload is the flattened resume body of POST /api/save-resume.
type SavePayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DOB         string `json:"dob"`
	Location    string `json:"location"`
	LinkedIn    string `json:"linkedin"`
	GitHub      string `json:"github"`
	Photo       string `json:"photo,omitempty"`
	Objective   string `json:"objective"`
	Declaration string `json:"declaration"`

	Experience []ExperienceItem `json:"experience"`
	Education  []EducationItem  `json:"education"`
	Projects   []ProjectItem    `json:"projects"`

	PersonalSkills     []string `json:"personalSkills"`
	ProfessionalSkills []string `json:"professionalSkills"`
	TechnicalSkills    []string `json:"technicalSkills"`

	// Blank hobbies and certifications travel as null.
	Hobbies        []*string `json:"hobbies"`
	Certifications []*string `json:"certifications"`
}

type ExperienceItem struct {
	Company   string `json:"company"`
	JobRole   string `json:"jobRole"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	// Experience is the derived duration text.
	Experience string `json:"experience,omitempty"`
}

type EducationItem struct {
	College    string `json:"college"`
	University string `json:"university"`
	Course     string `json:"course"`
	Year       string `json:"year"`
	CGPA       string `json:"cgpa"`
}

type ProjectItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Company     string `json:"company"`
}

// SaveResult is the response body of POST /api/save-resume.
type SaveResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	ResumeID string `json:"resume_id,omitempty"`
	Error    string `json:"error,omitempty"`
}
