package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleResume = `Jane Smith
jane.smith@example.com
(555) 123-4567

Summary:
Full-stack developer with 5 years building web services.

Skills:
JavaScript, TypeScript, Go, PostgreSQL, Docker, REST API design

Experience:
Senior Software Engineer at Example Corp, 2021-2024
Backend Developer at Widgets Inc, 2019-2021

Projects:
realtime chat platform built with websockets
inventory tracking dashboard
`

func newExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()
	return New(zap.NewNop(), opts...)
}

func TestExtractFullResume(t *testing.T) {
	x := newExtractor(t)
	got, err := x.Extract(sampleResume, "resume.txt")
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, "jane.smith@example.com", got.Email)
	assert.Equal(t, "(555) 123-4567", got.Phone)
	assert.Equal(t, "resume.txt", got.Profile.FileName)

	assert.Contains(t, got.Profile.Skills, "javascript")
	assert.Contains(t, got.Profile.Skills, "rest api design")
	assert.Contains(t, got.Profile.Technologies, "typescript")
	assert.Contains(t, got.Profile.Technologies, "postgresql")
	assert.NotEmpty(t, got.Profile.Experience)
	assert.NotEmpty(t, got.Profile.Projects)
	assert.False(t, got.Profile.Empty())
}

func TestExtractRejectsNonResume(t *testing.T) {
	x := newExtractor(t)
	_, err := x.Extract("Dear Sir or Madam, I am writing to complain about my order.", "letter.txt")
	assert.ErrorIs(t, err, ErrNotAResume)
}

func TestSingleSectionNeedsSupportingSignal(t *testing.T) {
	x := newExtractor(t)

	// One section heading alone is not enough.
	_, err := x.Extract("Skills are important in life.", "note.txt")
	assert.ErrorIs(t, err, ErrNotAResume)

	// One heading plus a technology term is accepted.
	got, err := x.Extract("Skills are important in life. I know python well.", "note.txt")
	require.NoError(t, err)
	assert.Contains(t, got.Profile.Technologies, "python")
}

func TestSkillListIsBoundedAndFiltered(t *testing.T) {
	var many []string
	for i := 0; i < 30; i++ {
		many = append(many, "skill number "+strings.Repeat("x", i%5+1))
	}
	text := "Experience: engineer\n\nSkills: " + strings.Join(many, ", ") + ", ab, " + strings.Repeat("y", 60)

	x := newExtractor(t)
	got, err := x.Extract(text, "resume.txt")
	require.NoError(t, err)

	assert.LessOrEqual(t, len(got.Profile.Skills), 20)
	for _, s := range got.Profile.Skills {
		assert.GreaterOrEqual(t, len(s), 3)
		assert.Less(t, len(s), 50)
	}
}

func TestTechnologiesAreDeduplicated(t *testing.T) {
	x := newExtractor(t)
	got, err := x.Extract("Skills: docker\nExperience: docker engineer using docker and Docker", "resume.txt")
	require.NoError(t, err)

	count := 0
	for _, tech := range got.Profile.Technologies {
		if tech == "docker" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCustomKeywordTables(t *testing.T) {
	x := newExtractor(t, WithKeywords(Keywords{
		Sections:     []string{"erfahrung", "kenntnisse"},
		Technologies: []string{"cobol"},
	}))

	got, err := x.Extract("Erfahrung: Entwickler\n\nKenntnisse: COBOL, JCL", "lebenslauf.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"cobol"}, got.Profile.Technologies)

	_, err = x.Extract(sampleResume, "resume.txt")
	assert.ErrorIs(t, err, ErrNotAResume)
}

func TestReadDocumentPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleResume), 0o600))

	text, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Smith")
}

func TestReadDocumentHTML(t *testing.T) {
	html := `<html><head><style>p{color:red}</style><script>alert(1)</script></head>
<body><h1>Jane Smith</h1><p>jane.smith@example.com</p>
<h2>Skills</h2><ul><li>Go</li><li>PostgreSQL</li></ul></body></html>`
	text, err := ReadDocumentFrom(strings.NewReader(html), "resume.html")
	require.NoError(t, err)

	assert.Contains(t, text, "Jane Smith")
	assert.Contains(t, text, "PostgreSQL")
	assert.NotContains(t, text, "alert(1)")
	assert.NotContains(t, text, "color:red")
}

func TestReadDocumentRejectsUnknownExtension(t *testing.T) {
	_, err := ReadDocumentFrom(strings.NewReader("data"), "resume.exe")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestReadDocumentRejectsOversizedFile(t *testing.T) {
	big := strings.NewReader(strings.Repeat("a", MaxDocumentSize+1))
	_, err := ReadDocumentFrom(big, "resume.txt")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestTechSignalMatchesWholeWordsOnly(t *testing.T) {
	x := newExtractor(t)

	// "about" counts as a section heading and "complain" contains "ai";
	// the buried substring must not satisfy the technology signal.
	_, err := x.Extract("To whom it may concern, I am writing to complain about a late delivery.", "letter.txt")
	assert.ErrorIs(t, err, ErrNotAResume)

	// A standalone occurrence of the same short keyword does.
	got, err := x.Extract("Summary: I build AI systems for retailers.", "note.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Profile.Text)

	// Keywords ending in symbols still match on their boundaries.
	_, err = x.Extract("Overview: ten years of C++ development.", "note.txt")
	require.NoError(t, err)
}
