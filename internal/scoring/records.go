package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"
)

// Records is an ordered list of scored resumes.
type Records struct {
	Items []*Record
}

// ExcludedCandidates is the on-disk list of candidates already reviewed.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	Name           string
	Recommendation string
	FinalScorePct  float64
	ExcludedAt     time.Time
}

func (r *Records) Len() int {
	return len(r.Items)
}

func (r *Records) FindByName(name string) *Record {
	for _, rec := range r.Items {
		if rec.CandidateName == name {
			return rec
		}
	}
	return nil
}

// Names returns the candidate names in rank order.
func (r *Records) Names() []string {
	names := make([]string, 0, len(r.Items))
	for _, rec := range r.Items {
		names = append(names, rec.CandidateName)
	}
	return names
}

// ReportByRecommendation groups candidates by recommendation label, keeping
// rank order inside each group.
func (r *Records) ReportByRecommendation() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, rec := range r.Items {
		report[rec.FinalRecommendation] = append(report[rec.FinalRecommendation], map[string]string{
			"rank":        fmt.Sprintf("%d", rec.Rank),
			"name":        rec.CandidateName,
			"match score": fmt.Sprintf("%.2f", rec.MatchScorePct),
			"final score": fmt.Sprintf("%.2f", rec.FinalScorePct),
			"domain":      rec.DomainFit,
			"red flags":   fmt.Sprintf("%v", rec.RedFlags),
		})
	}
	return report
}

func (r *Records) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "scores_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Exclude removes records whose candidate name is in names and returns the
// removed names. Remaining records keep their order and ranks.
func (r *Records) Exclude(names []string) []string {
	var excluded []string
	r.Items = slices.DeleteFunc(r.Items, func(rec *Record) bool {
		if slices.Contains(names, rec.CandidateName) {
			excluded = append(excluded, rec.CandidateName)
			return true
		}
		return false
	})
	return excluded
}

// Keep retains only records for which keep returns true and returns the
// names of the dropped ones.
func (r *Records) Keep(keep func(*Record) bool) []string {
	var dropped []string
	r.Items = slices.DeleteFunc(r.Items, func(rec *Record) bool {
		if keep(rec) {
			return false
		}
		dropped = append(dropped, rec.CandidateName)
		return true
	})
	return dropped
}

func (r *Records) ToExcluded() *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, rec := range r.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			Name:           rec.CandidateName,
			Recommendation: rec.FinalRecommendation,
			FinalScorePct:  rec.FinalScorePct,
			ExcludedAt:     time.Now().UTC(),
		})
	}
	return excluded
}

// GetExcludedCandidatesFromFile reads an exclude file. An empty file is an
// empty list.
func GetExcludedCandidatesFromFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedCandidates) Names() []string {
	names := make([]string, 0, len(e.Items))
	for _, c := range e.Items {
		names = append(names, c.Name)
	}
	return names
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
