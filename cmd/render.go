package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/resume-scorer/internal/scoring"
)

func writeJSON(w io.Writer, records *scoring.Records) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records.Items)
}

func writeTable(w io.Writer, records *scoring.Records) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCANDIDATE\tMATCH%\tSKILLS%\tEXP%\tEDU%\tDOMAIN\tSOFT%\tREAD%\tFLAGS%\tFINAL%\tRECOMMENDATION")
	for _, r := range records.Items {
		domain := r.DomainFit
		if domain == "" {
			domain = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s (%.0f)\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			r.Rank, r.CandidateName, r.MatchScorePct, r.SkillMatchPct, r.ExperienceMatchPct,
			r.EducationMatchPct, domain, r.DomainFitPct, r.SoftSkillsPct, r.ReadabilityPct,
			r.RedFlagsPct, r.FinalScorePct, r.FinalRecommendation,
		)
		if len(r.RedFlags) > 0 {
			fmt.Fprintf(tw, "\t  red flags: %s\t\t\t\t\t\t\t\t\t\t\n", strings.Join(r.RedFlags, ", "))
		}
	}
	return tw.Flush()
}
