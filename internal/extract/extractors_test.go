package extract

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"resumine/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"only whitespace", " \n\t\n  \r\n", []string{}},
		{"trims and drops blanks", "  John Doe  \n\n Engineer\r\n", []string{"John Doe", "Engineer"}},
		{"keeps order", "c\nb\na", []string{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLines(tt.text))
		})
	}
}

func TestCandidateName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"first line name", "John Doe\nSoftware Engineer\nEmail: john@x.com", "John Doe"},
		{"skips resume header", "RESUME\nJane Smith\nBackend Engineer", "Jane Smith"},
		{"skips contact line", "jane@example.com\nJane Smith", "Jane Smith"},
		{"skips phone line", "Call 555 123 4567\nJane Smith", "Jane Smith"},
		{"only first three lines", "Curriculum Vitae\nPhone: 555-123-4567\nemail me\nJohn Doe", types.UnknownCandidate},
		{"lower case is not a name", "john doe\nengineer", types.UnknownCandidate},
		{"single word is not a name", "Engineer\nDeveloper", types.UnknownCandidate},
		{"too long", "John Doe " + strings.Repeat("x", 45), types.UnknownCandidate},
		{"returns whole line", "Mary Ann Lee, PhD\nData Scientist", "Mary Ann Lee, PhD"},
		{"skip tokens match inside words", "Steven Cvetkovic\nEngineer", types.UnknownCandidate},
		{"empty", "", types.UnknownCandidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateName(NormalizeLines(tt.text)))
		})
	}
}

func TestSkills(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"case insensitive single entry", "I know Python and PYTHON and python.", []string{"python"}},
		{"word boundary", "I write pythonic code", []string{}},
		{"vocabulary order", "Java and JavaScript", []string{"javascript", "java"}},
		{"c sharp", "C# and .NET developer", []string{"c#"}},
		{"c sharp followed by digit", "C#5 features", []string{}},
		{"non-ascii neighbour is a boundary", "éjava", []string{"java"}},
		{"dotted term", "Node.js, React, Docker; AWS", []string{"react", "aws", "docker", "node.js"}},
		{"sql inside database names", "PostgreSQL and MySQL", []string{"postgresql", "mysql"}},
		{"no partial node", "nodejs", []string{}},
		{"no ios inside bios", "BIOS firmware", []string{}},
		{"mobile", "iOS and Android", []string{"android", "ios"}},
		{"git but not github", "github profile", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Skills(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVocabularyIsDistinct(t *testing.T) {
	vocab := Vocabulary()
	assert.Len(t, vocab, len(skillVocabulary))
	assert.Equal(t, vocab, dedupe(append([]string(nil), vocab...)))

	vocab[0] = "changed"
	assert.Equal(t, "ruby", Vocabulary()[0])
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "b", "a", "b"}))
	assert.Empty(t, dedupe([]string{}))
}

func TestYearsOfExperience(t *testing.T) {
	tests := []struct {
		name string
		text string
		ref  int
		want float64
	}{
		{"max of explicit phrases", "I have 3 years experience. Actually 5+ years of experience.", 2024, 5},
		{"fallback span to reference year", "Worked 2015 to 2020.", 2024, 9},
		{"plus and of", "10+ years of experience", 2024, 10},
		{"singular year", "1 year experience", 2024, 1},
		{"extra whitespace", "2 years  of experience", 2024, 2},
		{"explicit beats years", "5 years experience, 1995-2020", 2024, 5},
		{"years before 1990 ignored", "Graduated 1985, worked 1989", 2024, 0},
		{"future years ignored", "2030 roadmap", 2024, 0},
		{"single year", "Since 2020", 2024, 4},
		{"duplicates collapse", "2018 2018 2021", 2024, 6},
		{"years after reference dropped", "2015 2020", 2019, 4},
		{"digit runs are not years", "Phone 20155", 2024, 0},
		{"empty", "", 2024, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, YearsOfExperience(tt.text, tt.ref), 1e-9)
		})
	}
}

func TestYearsOfExperienceHugeFigures(t *testing.T) {
	t.Run("beyond float64 clamps", func(t *testing.T) {
		text := strings.Repeat("9", 400) + " years experience"
		got := YearsOfExperience(text, 2024)
		assert.Equal(t, math.MaxFloat64, got)

		_, err := json.Marshal(types.ExtractedData{TotalYearsExperience: got})
		assert.NoError(t, err)
	})

	t.Run("large but finite", func(t *testing.T) {
		text := "1" + strings.Repeat("0", 299) + " years experience"
		assert.InEpsilon(t, 1e299, YearsOfExperience(text, 2024), 1e-9)
	})

	t.Run("clamped figure still wins over smaller ones", func(t *testing.T) {
		text := "3 years experience, " + strings.Repeat("9", 400) + " years experience"
		assert.Equal(t, math.MaxFloat64, YearsOfExperience(text, 2024))
	})
}

func TestEducation(t *testing.T) {
	entry := func(degree string) types.EducationEntry {
		return types.EducationEntry{Degree: degree, Institution: types.InstitutionUnspecified}
	}

	tests := []struct {
		name string
		text string
		want []types.EducationEntry
	}{
		{
			name: "bachelor of science",
			text: "Bachelor of Science in Computer Science, MIT",
			want: []types.EducationEntry{entry("Bachelor Computer Science")},
		},
		{
			name: "abbreviation is capitalized",
			text: "MBA from Wharton",
			want: []types.EducationEntry{entry("Mba from Wharton")},
		},
		{
			name: "associate",
			text: "Associate in Applied Science",
			want: []types.EducationEntry{entry("Associate Applied Science")},
		},
		{
			name: "duplicates kept",
			text: "MS in Data Science\nMS in Data Science",
			want: []types.EducationEntry{entry("Ms Data Science"), entry("Ms Data Science")},
		},
		{
			name: "first pattern family first",
			text: "Diploma in Design\nBS in Math",
			want: []types.EducationEntry{entry("Bs Math"), entry("Diploma Design")},
		},
		{
			name: "several on one line",
			text: "BS in Math, MS in Physics",
			want: []types.EducationEntry{entry("Bs Math"), entry("Ms Physics")},
		},
		{
			name: "empty",
			text: "",
			want: []types.EducationEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Education(tt.text))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Phd", capitalize("PHD"))
	assert.Equal(t, "Master", capitalize("master"))
	assert.Equal(t, "", capitalize(""))
}

func TestContact(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		got := Contact("Jane Roe\njane.roe@example.com | (555) 123-4567 | Austin, TX")
		require.NotNil(t, got.Email)
		require.NotNil(t, got.Phone)
		require.NotNil(t, got.Location)
		assert.Equal(t, "jane.roe@example.com", *got.Email)
		assert.Equal(t, "(555) 123-4567", *got.Phone)
		assert.Equal(t, "Austin, TX", *got.Location)
	})

	t.Run("nothing found", func(t *testing.T) {
		got := Contact("No contact info here.")
		assert.Nil(t, got.Email)
		assert.Nil(t, got.Phone)
		assert.Nil(t, got.Location)

		data, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	})

	tests := []struct {
		name  string
		text  string
		field func(types.ContactInfo) *string
		want  string
	}{
		{"multi part domain", "contact: bob@mail.co.uk", func(c types.ContactInfo) *string { return c.Email }, "bob@mail.co.uk"},
		{"dotted phone", "call 555.123.4567 today", func(c types.ContactInfo) *string { return c.Phone }, "555.123.4567"},
		{"bare phone", "5551234567", func(c types.ContactInfo) *string { return c.Phone }, "5551234567"},
		{"city and country", "Based in Berlin , Germany", func(c types.ContactInfo) *string { return c.Location }, "Berlin , Germany"},
		{"first email wins", "a@one.io b@two.io", func(c types.ContactInfo) *string { return c.Email }, "a@one.io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.field(Contact(tt.text))
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestWorkHistory(t *testing.T) {
	work := func(title, company string) types.WorkEntry {
		return types.WorkEntry{Title: title, Company: company, Duration: types.DurationUnspecified}
	}

	t.Run("capped at five in document order", func(t *testing.T) {
		var b strings.Builder
		for i := 1; i <= 8; i++ {
			b.WriteString("Engineer ")
			b.WriteString(string(rune('0' + i)))
			b.WriteString(" at Company ")
			b.WriteString(string(rune('0' + i)))
			b.WriteString("\n")
		}

		got := WorkHistory(b.String())
		require.Len(t, got, MaxWorkEntries)
		assert.Equal(t, work("Engineer 1", "Company 1"), got[0])
		assert.Equal(t, work("Engineer 5", "Company 5"), got[4])
	})

	tests := []struct {
		name string
		text string
		want []types.WorkEntry
	}{
		{"at sign", "Senior Developer @ Acme Corp", []types.WorkEntry{work("Senior Developer", "Acme Corp")}},
		{"dash", "Lead - Initech", []types.WorkEntry{work("Lead", "Initech")}},
		{"crlf", "Consultant at Globex\r\nAnalyst at Hooli\r\n", []types.WorkEntry{work("Consultant", "Globex"), work("Analyst", "Hooli")}},
		{"first separator splits", "Engineer at Foo at Bar", []types.WorkEntry{work("Engineer", "Foo at Bar")}},
		{"address lines match too", "Meet me at 5th Street", []types.WorkEntry{work("Meet me", "5th Street")}},
		{"long title skipped", strings.Repeat("a", 101) + " at Acme", []types.WorkEntry{}},
		{"long company skipped", "CTO at " + strings.Repeat("b", 101), []types.WorkEntry{}},
		{"no separators", "Plain paragraph without markers", []types.WorkEntry{}},
		{"empty", "", []types.WorkEntry{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkHistory(tt.text))
		})
	}
}
