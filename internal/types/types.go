package types

// Contact holds the candidate's personal and contact details
type Contact struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	DesiredJobTitle string `json:"desiredJobTitle"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Country         string `json:"country"`
	City            string `json:"city"`
	Address         string `json:"address"`
	PostCode        string `json:"postCode"`
}

// IsEmpty reports whether no contact field is set
func (c Contact) IsEmpty() bool {
	return c == Contact{}
}

// Experience represents a single employment entry
type Experience struct {
	ID          int    `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Education represents a single education entry
type Education struct {
	ID          int    `json:"id"`
	School      string `json:"school"`
	Location    string `json:"location"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Skill represents a skill with an optional proficiency level
type Skill struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Language represents a spoken language
type Language struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// Title is used for certifications and awards
type Title struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Website represents a labeled link (LinkedIn, GitHub, ...)
type Website struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Reference represents a professional reference
type Reference struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	ContactInfo  string `json:"contactInfo"`
}

// ParsedResume is the canonical structured résumé record
type ParsedResume struct {
	Contact        Contact      `json:"contact"`
	Experiences    []Experience `json:"experiences"`
	Education      []Education  `json:"education"`
	Skills         []Skill      `json:"skills"`
	Languages      []Language   `json:"languages"`
	Certifications []Title      `json:"certifications"`
	Awards         []Title      `json:"awards"`
	Websites       []Website    `json:"websites"`
	References     []Reference  `json:"references"`
	Hobbies        []string     `json:"hobbies"`
	Summary        string       `json:"summary"`
}

// NewParsedResume returns an empty record with all lists initialized,
// so it serializes as [] rather than null.
func NewParsedResume() ParsedResume {
	return ParsedResume{
		Experiences:    []Experience{},
		Education:      []Education{},
		Skills:         []Skill{},
		Languages:      []Language{},
		Certifications: []Title{},
		Awards:         []Title{},
		Websites:       []Website{},
		References:     []Reference{},
		Hobbies:        []string{},
	}
}

// QualityMetrics holds the separately reported quality ratios, each in [0,1]
type QualityMetrics struct {
	Completeness  float64 `json:"completeness"`
	FieldCoverage float64 `json:"field_coverage"`
	Structure     float64 `json:"structure"`
	Accuracy      float64 `json:"accuracy"`
	DataQuality   float64 `json:"data_quality"`
}

// SectionScore is the per-section breakdown behind the overall score
type SectionScore struct {
	Found         bool    `json:"found"`
	FoundRequired int     `json:"found_required"`
	RequiredTotal int     `json:"required_total"`
	FoundFields   int     `json:"found_fields"`
	TotalFields   int     `json:"total_fields"`
	QualityScore  float64 `json:"quality_score"`
	Score         float64 `json:"score"`
	Weight        float64 `json:"weight"`
}

// ConfidenceReport describes how completely and accurately the text was structured
type ConfidenceReport struct {
	OverallScore    int                     `json:"overall_score"`
	SectionsFound   []string                `json:"sections_found"`
	MissingSections []string                `json:"missing_sections"`
	QualityMetrics  QualityMetrics          `json:"quality_metrics"`
	Suggestions     []string                `json:"suggestions"`
	SectionScores   map[string]SectionScore `json:"section_scores,omitempty"`
}

// ParseResumeInput represents the input for parsing a résumé
type ParseResumeInput struct {
	Text       string `json:"text" validate:"required"`
	UseAI      bool   `json:"useAI"`
	SourceName string `json:"sourceName,omitempty" validate:"omitempty,max=255"`
}

// ParseResult is the envelope returned for every parse, successful or not
type ParseResult struct {
	Success    bool             `json:"success"`
	ID         string           `json:"id"`
	SourceName string           `json:"sourceName,omitempty"`
	Data       ParsedResume     `json:"data"`
	Confidence ConfidenceReport `json:"confidence"`
	AIUsed     bool             `json:"aiUsed"`
	Dropped    map[string]int   `json:"dropped,omitempty"` // items removed by the evidence filter, per section
	DurationMs int64            `json:"durationMs"`
	Error      string           `json:"error,omitempty"`
}

// DetectedSection is a debug view of a section found in the text
type DetectedSection struct {
	Name   string   `json:"name"`
	Source string   `json:"source"` // "heading", "content" or "reclassified"
	Lines  []string `json:"lines"`
}
