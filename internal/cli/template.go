package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/patware/priorart/internal/claims"
	"github.com/patware/priorart/internal/report"
)

var (
	templateInput string
	templateOut   string
	templateOutMD string
	templateTopK  int
)

var templateCmd = &cobra.Command{
	Use:   "manual-template",
	Short: "Generate a skeleton for manually supplied claims",
	Long: `Generate a claims_manual.json skeleton for the top-k candidates, plus an
optional markdown checklist. A reviewer fills in claims_text (or claims[])
and the claims_source_url/claims_source_type provenance fields, then merges
the file with 'priorart claims --manual'.`,
	RunE: runTemplate,
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVar(&templateInput, "input", "prior_art.reranked.json", "reranked recall artifact path")
	templateCmd.Flags().StringVar(&templateOut, "out", "claims_manual.json", "output template path")
	templateCmd.Flags().StringVar(&templateOutMD, "out-md", "", "optional markdown checklist output")
	templateCmd.Flags().IntVar(&templateTopK, "topk", 10, "number of candidates to include")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	items, err := loadPriorArt(templateInput)
	if err != nil {
		return err
	}

	tpl := claims.BuildTemplate(items, templateInput, templateTopK, time.Now())
	if err := writeJSON(templateOut, tpl); err != nil {
		return err
	}
	logOK("template items: %d", len(tpl.Items))
	logOK("out: %s", templateOut)

	if templateOutMD != "" {
		if err := writeFile(templateOutMD, []byte(report.ManualChecklistMarkdown(&tpl))); err != nil {
			return err
		}
		logOK("out-md: %s", templateOutMD)
	}
	return nil
}
