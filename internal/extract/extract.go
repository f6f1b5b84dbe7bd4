// Package extract pulls a structured profile out of a resume document:
// contact details, skills, experience entries, projects and recognized
// technologies. Detection is heuristic and tunable through the keyword tables.
package extract

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-assistant/internal/types"
)

// ErrNotAResume is returned when a document lacks the section and contact
// signals expected of a resume.
var ErrNotAResume = errors.New("document does not appear to be a resume: expected sections like Experience, Skills, or Projects")

const (
	maxSkills      = 20
	maxExperience  = 10
	maxProjects    = 10
	minSkillLength = 3
	maxSkillLength = 49
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	nameRe  = regexp.MustCompile(`(?m)^([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	yearRe  = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)

	skillsSectionRe   = regexp.MustCompile(`(?is)(?:skills|technical skills|core competencies|expertise|proficiencies)[:\s]*(.*?)(?:\n\s*[a-z]+:|$)`)
	expSectionRe      = regexp.MustCompile(`(?is)(?:experience|work experience|professional experience|employment)[:\s]*(.*?)(?:\n\s*[a-z]+:|$)`)
	projectsSectionRe = regexp.MustCompile(`(?is)(?:projects|personal projects|key projects|portfolio)[:\s]*(.*?)(?:\n\s*[a-z]+:|$)`)

	jobTitleRe    = regexp.MustCompile(`(?i)[a-z\s]+(?:engineer|developer|manager|analyst|specialist|consultant|lead|senior|junior)[a-z\s]*`)
	projectLineRe = regexp.MustCompile(`(?im)^[•\-*]?\s*([a-z][a-z\s]{5,50})`)
)

// Keywords are the tunable detection tables: section headings that mark a
// document as a resume, and the technology vocabulary matched against its
// text. Zero-value fields fall back to the defaults.
type Keywords struct {
	Sections     []string
	Technologies []string
}

// DefaultKeywords returns the built-in detection tables.
func DefaultKeywords() Keywords {
	return Keywords{
		Sections: []string{
			"experience", "work experience", "professional experience", "employment", "work history",
			"career history", "professional background", "employment history",

			"skills", "technical skills", "core competencies", "expertise", "proficiencies",
			"technologies", "programming languages", "tools", "frameworks",

			"education", "academic background", "qualifications", "degrees", "certifications",
			"certificates", "training", "coursework",

			"projects", "personal projects", "key projects", "notable projects", "portfolio",
			"achievements", "accomplishments", "highlights",

			"summary", "profile", "objective", "about", "overview", "professional summary",
			"career objective", "personal statement",
		},
		Technologies: []string{
			"javascript", "typescript", "python", "java", "c++", "c#", "php", "ruby", "go", "rust",
			"react", "angular", "vue", "svelte", "next.js", "nuxt.js",
			"node.js", "express", "django", "flask", "spring", "laravel",
			"html", "css", "sass", "scss", "tailwind",
			"mongodb", "postgresql", "mysql", "redis", "elasticsearch",
			"aws", "azure", "gcp", "docker", "kubernetes", "jenkins",
			"git", "github", "gitlab", "bitbucket",
			"graphql", "rest", "api", "microservices",
			"tensorflow", "pytorch", "machine learning", "ai",
		},
	}
}

// Extraction is the full result of parsing one resume: the profile that steers
// question generation plus the contact details used to prefill intake.
type Extraction struct {
	Profile types.ResumeProfile
	Name    string
	Email   string
	Phone   string
}

// Extractor parses resume documents with a fixed set of keyword tables.
type Extractor struct {
	keywords Keywords
	techRe   *regexp.Regexp
	logger   *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithKeywords overrides the detection tables. Empty fields keep the defaults.
func WithKeywords(k Keywords) Option {
	return func(x *Extractor) {
		if len(k.Sections) > 0 {
			x.keywords.Sections = k.Sections
		}
		if len(k.Technologies) > 0 {
			x.keywords.Technologies = k.Technologies
		}
	}
}

// New creates an extractor with the default keyword tables.
func New(logger *zap.Logger, opts ...Option) *Extractor {
	x := &Extractor{keywords: DefaultKeywords(), logger: logger}
	for _, opt := range opts {
		opt(x)
	}
	x.techRe = compileTechPattern(x.keywords.Technologies)
	return x
}

// compileTechPattern builds the whole-word alternation used by the resume
// heuristic. Short entries like "ai" or "go" must not fire inside ordinary
// words, and \b misbehaves on keywords ending in symbols such as "c++", so
// the word boundaries are spelled out as non-alphanumeric neighbors.
func compileTechPattern(techs []string) *regexp.Regexp {
	quoted := make([]string, len(techs))
	for i, tech := range techs {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(tech))
	}
	return regexp.MustCompile(`(^|[^a-z0-9])(` + strings.Join(quoted, "|") + `)([^a-z0-9]|$)`)
}

// Extract parses resume text. It returns ErrNotAResume when the document
// fails the resume heuristic.
func (x *Extractor) Extract(text, fileName string) (Extraction, error) {
	text = strings.TrimSpace(text)
	if !x.isResume(text) {
		x.logger.Info("document rejected as non-resume", zap.String("file", fileName))
		return Extraction{}, ErrNotAResume
	}

	out := Extraction{
		Profile: types.ResumeProfile{
			Skills:       x.extractSkills(text),
			Experience:   x.extractExperience(text),
			Projects:     x.extractProjects(text),
			Technologies: x.extractTechnologies(text),
			Text:         text,
			FileName:     fileName,
		},
		Name:  strings.TrimSpace(nameRe.FindString(text)),
		Email: strings.TrimSpace(emailRe.FindString(text)),
		Phone: strings.TrimSpace(phoneRe.FindString(text)),
	}

	x.logger.Info("resume parsed",
		zap.String("file", fileName),
		zap.Int("skills", len(out.Profile.Skills)),
		zap.Int("technologies", len(out.Profile.Technologies)))
	return out, nil
}

// isResume applies the acceptance heuristic: at least two known section
// headings, or one heading plus some contact, year or technology signal.
func (x *Extractor) isResume(text string) bool {
	lower := strings.ToLower(text)

	sectionCount := 0
	for _, section := range x.keywords.Sections {
		if strings.Contains(lower, section) {
			sectionCount++
		}
	}
	if sectionCount >= 2 {
		return true
	}
	if sectionCount == 0 {
		return false
	}

	if emailRe.MatchString(text) || phoneRe.MatchString(text) || yearRe.MatchString(text) {
		return true
	}
	return x.techRe.MatchString(lower)
}

func (x *Extractor) extractSkills(text string) []string {
	m := skillsSectionRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil
	}

	var skills []string
	for _, raw := range strings.FieldsFunc(m[1], func(r rune) bool {
		return r == ',' || r == '•' || r == '\n' || r == '\r'
	}) {
		skill := strings.TrimSpace(raw)
		if len(skill) >= minSkillLength && len(skill) <= maxSkillLength {
			skills = append(skills, skill)
		}
		if len(skills) == maxSkills {
			break
		}
	}
	return skills
}

func (x *Extractor) extractExperience(text string) []string {
	m := expSectionRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil
	}

	titles := jobTitleRe.FindAllString(m[1], maxExperience)
	for i, t := range titles {
		titles[i] = strings.TrimSpace(t)
	}
	return titles
}

func (x *Extractor) extractProjects(text string) []string {
	m := projectsSectionRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil
	}

	var projects []string
	for _, groups := range projectLineRe.FindAllStringSubmatch(m[1], maxProjects) {
		if p := strings.TrimSpace(groups[1]); p != "" {
			projects = append(projects, p)
		}
	}
	return projects
}

func (x *Extractor) extractTechnologies(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var technologies []string
	for _, tech := range x.keywords.Technologies {
		if _, dup := seen[tech]; dup {
			continue
		}
		if strings.Contains(lower, tech) {
			seen[tech] = struct{}{}
			technologies = append(technologies, tech)
		}
	}
	return technologies
}
