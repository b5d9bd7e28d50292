package features

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/resume-scorer/internal/vocabulary"
)

const sampleResume = "I have 5 years experience in Python and NLP. Communication and team skills. AWS certified."

func TestSkills(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "vocabulary order", text: sampleResume, want: []string{"python", "aws", "nlp"}},
		{name: "case insensitive and deduplicated", text: "PYTHON python Docker", want: []string{"python", "docker"}},
		{name: "limit applied", text: "python java sql docker", limit: 2, want: []string{"python", "java"}},
		{name: "empty text", text: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Skills(tt.text, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSkillsDefaultLimit(t *testing.T) {
	vocab := vocabulary.Default()
	vocab.Skills = nil
	for i := 0; i < DefaultSkillLimit+5; i++ {
		vocab.Skills = append(vocab.Skills, "skill"+strings.Repeat("x", i+1))
	}
	e := New(vocab)

	got := e.Skills(strings.Repeat("x", DefaultSkillLimit+10)+" skill"+strings.Repeat("x", DefaultSkillLimit+10), 0)
	if len(got) != DefaultSkillLimit {
		t.Fatalf("expected %d skills, got %d", DefaultSkillLimit, len(got))
	}
}

func TestCertifications(t *testing.T) {
	e := New(nil)

	got := e.Certifications(sampleResume)
	want := []string{"AWS certified", "aws certified", "certified"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := e.Certifications(""); len(got) != 0 {
		t.Fatalf("expected no certifications for empty text, got %v", got)
	}
}

func TestCertificationsDeduplicatedAndCapped(t *testing.T) {
	e := New(nil)

	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString("Cert number ")
		b.WriteString(strings.Repeat("a", i+1))
		b.WriteString(" certificate.\n")
	}
	b.WriteString("Cert number a certificate.\n")

	got := e.Certifications(b.String())
	if len(got) != CertificationLimit {
		t.Fatalf("expected %d certifications, got %d: %v", CertificationLimit, len(got), got)
	}

	seen := map[string]bool{}
	for _, c := range got {
		if seen[c] {
			t.Fatalf("duplicate certification %q", c)
		}
		seen[c] = true
	}
}

func TestYearsOfExperience(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "stated years", text: "5 years of Python", want: 5},
		{name: "largest stated wins", text: "3+ years Go, 12 Years Python, 7 years SQL", want: 12},
		{name: "range fallback", text: "Acme 2012 - 2015\nGlobex 2015-2022", want: 7},
		{name: "range with to", text: "Initech 2010 to 2014", want: 4},
		{name: "stated beats range", text: "2 years total. 2001 - 2020", want: 2},
		{name: "reversed range ignored", text: "2020 - 2010", want: 0},
		{name: "nothing", text: "no numbers here", want: 0},
		{name: "empty", text: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YearsOfExperience(tt.text); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRedFlags(t *testing.T) {
	e := New(nil)
	long := strings.Repeat("word ", 100)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "short resume", text: sampleResume, want: []string{FlagVeryShortResume}},
		{name: "empty resume", text: "", want: []string{FlagVeryShortResume}},
		{name: "clean long resume", text: long, want: []string{}},
		{name: "job hopping", text: long + "2015 2016 2017 2018", want: []string{FlagPossibleJobHopping}},
		{name: "suspicious email", text: long + "contact: john@mail.RU", want: []string{FlagSuspiciousEmailDomain}},
		{name: "ordinary email", text: long + "contact: john@mail.com", want: []string{}},
		{name: "unrealistic experience", text: long + "75 years in sales", want: []string{FlagUnrealisticExperience}},
		{
			name: "all flags in order",
			text: "x@y.cn 60 years 2001 2002 2003 2004",
			want: []string{FlagVeryShortResume, FlagPossibleJobHopping, FlagSuspiciousEmailDomain, FlagUnrealisticExperience},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.RedFlags(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEducation(t *testing.T) {
	e := New(nil)

	got := e.Education("Bachelor of Science, MBA from State University")
	want := []string{"bachelor", "mba"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := e.Education(""); len(got) != 0 {
		t.Fatalf("expected no education for empty text, got %v", got)
	}
}

func TestDomainFit(t *testing.T) {
	e := New(nil)
	aiText := strings.Repeat("machine learning and nlp research. ", 5)

	tests := []struct {
		name      string
		text      string
		hint      string
		wantLabel string
		wantPct   float64
	}{
		{name: "hint forces full fit", text: aiText, hint: "ai", wantLabel: "ai", wantPct: 100},
		{name: "hint is case insensitive", text: aiText + " backend", hint: "AI", wantLabel: "ai", wantPct: 100},
		{name: "share without hint", text: aiText + " backend software", wantLabel: "ai", wantPct: 83.33},
		{name: "non matching hint keeps share", text: aiText + " backend software", hint: "fintech", wantLabel: "ai", wantPct: 83.33},
		{name: "tie goes to earlier domain", text: "bank clinical", wantLabel: "fintech", wantPct: 50},
		{name: "occurrences are counted", text: "bank bank bank clinical", wantLabel: "fintech", wantPct: 75},
		{name: "no keywords goes to first domain", text: "gardening", hint: "ai", wantLabel: "fintech", wantPct: 0},
		{name: "no keywords with matching hint", text: "gardening and roses", hint: "fintech", wantLabel: "fintech", wantPct: 100},
		{name: "hint substring of first domain", text: "gardening", hint: "fin", wantLabel: "fintech", wantPct: 100},
		{name: "empty text", text: "", wantLabel: "fintech", wantPct: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, pct := e.DomainFit(tt.text, tt.hint)
			if label != tt.wantLabel || pct != tt.wantPct {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tt.wantLabel, tt.wantPct, label, pct)
			}
		})
	}
}

func TestReadability(t *testing.T) {
	fifteen := strings.TrimSpace(strings.Repeat("word ", 15)) + "."

	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "empty", text: "", want: 0},
		{name: "ideal sentence", text: fifteen, want: 100},
		{name: "short sentence", text: "Hello world.", want: 48},
		{name: "no punctuation counts as one sentence", text: strings.Repeat("word ", 15), want: 100},
		{name: "long words penalised", text: strings.TrimSpace(strings.Repeat("abcdefghij ", 15)) + ".", want: 87.8},
		{name: "clamped at zero", text: strings.Repeat("word ", 100), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Readability(tt.text); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	e := New(nil)

	fs := e.Extract(sampleResume, "")

	if !reflect.DeepEqual(fs.Skills, []string{"python", "aws", "nlp"}) {
		t.Fatalf("unexpected skills: %v", fs.Skills)
	}
	if fs.ExperienceYears != 5 {
		t.Fatalf("expected 5 years, got %v", fs.ExperienceYears)
	}
	if len(fs.Certifications) == 0 {
		t.Fatalf("expected certifications")
	}
	if !reflect.DeepEqual(fs.SoftSkillMarkers, []string{"communication", "team"}) {
		t.Fatalf("unexpected soft skills: %v", fs.SoftSkillMarkers)
	}
	if fs.DomainLabel != "ai" {
		t.Fatalf("expected ai domain, got %q", fs.DomainLabel)
	}
	if fs.WordCount != 15 {
		t.Fatalf("expected 15 words, got %d", fs.WordCount)
	}
}

func TestExtractEmptyText(t *testing.T) {
	fs := New(nil).Extract("", "ai")

	if len(fs.Skills) != 0 || len(fs.Certifications) != 0 || len(fs.Education) != 0 || len(fs.SoftSkillMarkers) != 0 {
		t.Fatalf("expected empty lists, got %+v", fs)
	}
	if fs.ExperienceYears != 0 || fs.DomainFitPct != 0 || fs.Readability != 0 {
		t.Fatalf("expected zero values, got %+v", fs)
	}
}

func TestDomainFitWithoutDomains(t *testing.T) {
	vocab := vocabulary.Default()
	vocab.Domains = nil

	label, pct := New(vocab).DomainFit("machine learning", "ai")
	if label != NoDomain || pct != 0 {
		t.Fatalf("expected no domain, got (%q, %v)", label, pct)
	}
}

func TestNewDoesNotMutateVocabulary(t *testing.T) {
	vocab := vocabulary.Default()
	vocab.Skills = []string{" Go "}

	New(vocab)

	if vocab.Skills[0] != " Go " {
		t.Fatalf("vocabulary was mutated: %q", vocab.Skills[0])
	}
}
