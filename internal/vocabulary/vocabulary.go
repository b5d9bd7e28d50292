// Package vocabulary holds the keyword lists the feature extractors match
// resumes against. The built-in set can be replaced section by section from a
// YAML file, so tuning keywords never touches extractor code.
package vocabulary

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultVersion identifies the built-in vocabulary.
const DefaultVersion = "1"

// ErrInvalid is returned when a vocabulary cannot drive the extractors.
var ErrInvalid = errors.New("invalid vocabulary")

// Domain is a named industry or functional area with the keywords that signal it.
type Domain struct {
	Name     string   `mapstructure:"name" yaml:"name"`
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
}

// Vocabulary is the complete keyword configuration of the scorer.
// Slice order is significant: skills are reported in scan order and domain
// ties go to the earlier domain.
type Vocabulary struct {
	Version                 string   `mapstructure:"version" yaml:"version"`
	Skills                  []string `mapstructure:"skills" yaml:"skills"`
	CertificationIndicators []string `mapstructure:"certification-indicators" yaml:"certification-indicators"`
	Education               []string `mapstructure:"education" yaml:"education"`
	Domains                 []Domain `mapstructure:"domains" yaml:"domains"`
	SoftSkills              []string `mapstructure:"soft-skills" yaml:"soft-skills"`
	SuspiciousEmailTLDs     []string `mapstructure:"suspicious-email-tlds" yaml:"suspicious-email-tlds"`
}

// Default returns a fresh copy of the built-in vocabulary.
func Default() *Vocabulary {
	return &Vocabulary{
		Version: DefaultVersion,
		Skills: []string{
			"python", "java", "c++", "c#", "sql", "mongodb", "postgres",
			"tensorflow", "pytorch", "keras", "scikit-learn", "spark",
			"aws", "gcp", "azure", "docker", "kubernetes",
			"react", "angular", "node", "fastapi", "flask", "django",
			"nlp", "opencv", "pandas", "numpy",
		},
		CertificationIndicators: []string{
			"aws certified", "gcp", "azure", "professional", "certified", "certificate",
		},
		Education: []string{
			"bachelor", "master", "phd", "b.sc", "m.sc", "bs", "ms",
			"btech", "mtech", "degree", "mba", "associate",
		},
		Domains: []Domain{
			{Name: "fintech", Keywords: []string{"finance", "fintech", "bank", "trading", "payments"}},
			{Name: "healthcare", Keywords: []string{"health", "healthcare", "clinical", "pharma", "medical"}},
			{Name: "ai", Keywords: []string{"machine learning", "ml", "deep learning", "nlp", "computer vision", "artificial intelligence"}},
			{Name: "software", Keywords: []string{"software", "backend", "frontend", "full-stack", "devops", "engineering"}},
		},
		SoftSkills:          []string{"communication", "team", "lead"},
		SuspiciousEmailTLDs: []string{".ru", ".cn"},
	}
}

// Normalize lowercases, trims and de-duplicates every keyword list in place,
// dropping empty entries. An empty keyword would match every position of a
// text, so it is never kept.
func (v *Vocabulary) Normalize() {
	v.Version = strings.TrimSpace(v.Version)
	v.Skills = normalizeList(v.Skills)
	v.CertificationIndicators = normalizeList(v.CertificationIndicators)
	v.Education = normalizeList(v.Education)
	v.SoftSkills = normalizeList(v.SoftSkills)
	v.SuspiciousEmailTLDs = normalizeList(v.SuspiciousEmailTLDs)

	for i := range v.Domains {
		v.Domains[i].Name = strings.ToLower(strings.TrimSpace(v.Domains[i].Name))
		v.Domains[i].Keywords = normalizeList(v.Domains[i].Keywords)
	}
}

// Validate reports whether the vocabulary can be used for domain detection.
func (v *Vocabulary) Validate() error {
	if v == nil {
		return fmt.Errorf("%w: vocabulary is nil", ErrInvalid)
	}
	if len(v.Domains) == 0 {
		return fmt.Errorf("%w: at least one domain is required", ErrInvalid)
	}

	seen := make(map[string]struct{}, len(v.Domains))
	for idx, domain := range v.Domains {
		name := strings.TrimSpace(domain.Name)
		if name == "" {
			return fmt.Errorf("%w: domain #%d has no name", ErrInvalid, idx+1)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: duplicate domain %q", ErrInvalid, name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// Clone returns a deep copy of the vocabulary.
func (v *Vocabulary) Clone() *Vocabulary {
	out := &Vocabulary{
		Version:                 v.Version,
		Skills:                  append([]string(nil), v.Skills...),
		CertificationIndicators: append([]string(nil), v.CertificationIndicators...),
		Education:               append([]string(nil), v.Education...),
		SoftSkills:              append([]string(nil), v.SoftSkills...),
		SuspiciousEmailTLDs:     append([]string(nil), v.SuspiciousEmailTLDs...),
		Domains:                 make([]Domain, len(v.Domains)),
	}
	for i, domain := range v.Domains {
		out.Domains[i] = Domain{Name: domain.Name, Keywords: append([]string(nil), domain.Keywords...)}
	}
	return out
}

// DomainNames returns the domain names in iteration order.
func (v *Vocabulary) DomainNames() []string {
	names := make([]string, 0, len(v.Domains))
	for _, domain := range v.Domains {
		names = append(names, domain.Name)
	}
	return names
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, item := range in {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
