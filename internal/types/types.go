package types

import "time"

// Placeholder values for fields the extractor never determines.
const (
	UnknownCandidate       = "Unknown"
	InstitutionUnspecified = "Institution not specified"
	DurationUnspecified    = "Duration not specified"
)

// ContactInfo holds the first email, phone and location found in a resume.
// A nil field means nothing matched.
type ContactInfo struct {
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
}

// EducationEntry represents one degree phrase found in the text
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
}

// WorkEntry represents one "Title at Company" line
type WorkEntry struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// ExtractedData is the structured record produced from a resume's raw text.
type ExtractedData struct {
	CandidateName        string           `json:"candidate_name"`
	Skills               []string         `json:"skills"`
	TotalYearsExperience float64          `json:"total_years_experience"`
	Education            []EducationEntry `json:"education"`
	ContactInfo          ContactInfo      `json:"contact_info"`
	WorkExperience       []WorkEntry      `json:"work_experience"`
}

// AnalysisResult is the outcome of analyzing one resume file or text.
// On failure only Success, Error and FilePath are set.
type AnalysisResult struct {
	Success       bool           `json:"success"`
	Error         string         `json:"error,omitempty"`
	FilePath      string         `json:"file_path"`
	CandidateName string         `json:"candidate_name,omitempty"`
	ResumeText    string         `json:"resume_text,omitempty"`
	AIAnalysis    string         `json:"ai_analysis,omitempty"`
	ExtractedData *ExtractedData `json:"extracted_data,omitempty"`
	Timestamp     time.Time      `json:"timestamp,omitzero"`
}

// BatchAnalysis groups the results of analyzing a directory of resumes.
type BatchAnalysis struct {
	Directory string           `json:"directory"`
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Results   []AnalysisResult `json:"results"`
	Timestamp time.Time        `json:"timestamp"`
}

// ScreeningResult is the AI screening of a candidate against job requirements.
type ScreeningResult struct {
	CandidateName     string    `json:"candidate_name"`
	CandidateFile     string    `json:"candidate_file"`
	JobRequirements   string    `json:"job_requirements"`
	ScreeningAnalysis string    `json:"screening_analysis"`
	Timestamp         time.Time `json:"timestamp"`
}

// InterviewQuestionsResult holds generated interview questions for a candidate.
type InterviewQuestionsResult struct {
	CandidateName  string    `json:"candidate_name"`
	Questions      string    `json:"questions"`
	JobDescription string    `json:"job_description"`
	Timestamp      time.Time `json:"timestamp"`
}

// SavedResult describes one persisted result.
type SavedResult struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Location  string    `json:"location"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedResultList is a newest-first listing of persisted results.
type SavedResultList struct {
	Backend string        `json:"backend"`
	Results []SavedResult `json:"results"`
}

// Result kinds used when persisting
const (
	KindResumeExtraction   = "resume_extraction"
	KindResumeAnalysis     = "resume_analysis"
	KindBatchAnalysis      = "batch_analysis"
	KindCandidateScreening = "candidate_screening"
	KindInterviewQuestions = "interview_questions"
)
