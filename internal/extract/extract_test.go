package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"resumine/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Smith
Senior Software Engineer
jane.smith@example.com | 555-123-4567 | Seattle, WA

Summary: 7+ years of experience building Python and Go services on AWS.

Experience
Senior Engineer at Acme Corp
Backend Developer @ Initech

Education
Bachelor of Science in Computer Science, University of Washington
`

func TestExtractAtSampleResume(t *testing.T) {
	got := ExtractAt(sampleResume, 2024)

	assert.Equal(t, "Jane Smith", got.CandidateName)
	assert.Equal(t, []string{"python", "aws"}, got.Skills)
	assert.InDelta(t, 7.0, got.TotalYearsExperience, 1e-9)
	assert.Equal(t, []types.EducationEntry{
		{Degree: "Bachelor Computer Science", Institution: types.InstitutionUnspecified},
	}, got.Education)

	require.NotNil(t, got.ContactInfo.Email)
	require.NotNil(t, got.ContactInfo.Phone)
	require.NotNil(t, got.ContactInfo.Location)
	assert.Equal(t, "jane.smith@example.com", *got.ContactInfo.Email)
	assert.Equal(t, "555-123-4567", *got.ContactInfo.Phone)
	assert.Equal(t, "Seattle, WA", *got.ContactInfo.Location)

	assert.Equal(t, []types.WorkEntry{
		{Title: "Senior Engineer", Company: "Acme Corp", Duration: types.DurationUnspecified},
		{Title: "Backend Developer", Company: "Initech", Duration: types.DurationUnspecified},
	}, got.WorkExperience)
}

func TestExtractIsTotal(t *testing.T) {
	inputs := map[string]string{
		"empty":        "",
		"newlines":     "\n\n\n",
		"whitespace":   " \t \r\n ",
		"non latin":    "名前 履歴書\nПривет мир",
		"long line":    strings.Repeat("word ", 10000),
		"invalid utf8": "\xff\xfe John Doe",
	}

	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			got := ExtractAt(text, 2024)
			assert.NotEmpty(t, got.CandidateName)
			assert.NotNil(t, got.Skills)
			assert.NotNil(t, got.Education)
			assert.NotNil(t, got.WorkExperience)
			assert.GreaterOrEqual(t, got.TotalYearsExperience, 0.0)
			assert.LessOrEqual(t, len(got.WorkExperience), MaxWorkEntries)
		})
	}
}

func TestExtractEmptyJSONShape(t *testing.T) {
	data, err := json.Marshal(ExtractAt("", 2024))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"candidate_name": "Unknown",
		"skills": [],
		"total_years_experience": 0,
		"education": [],
		"contact_info": {},
		"work_experience": []
	}`, string(data))
}

func TestExtractIsDeterministic(t *testing.T) {
	first, err := json.Marshal(ExtractAt(sampleResume, 2024))
	require.NoError(t, err)

	for range 5 {
		again, err := json.Marshal(ExtractAt(sampleResume, 2024))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExtractUsesCurrentYear(t *testing.T) {
	got := Extract("Started in 1990")
	assert.Greater(t, got.TotalYearsExperience, 30.0)
}

func BenchmarkExtractAt(b *testing.B) {
	for b.Loop() {
		_ = ExtractAt(sampleResume, 2024)
	}
}
