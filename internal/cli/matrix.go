package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/patware/priorart/internal/novelty"
	"github.com/patware/priorart/internal/report"
)

var (
	matrixInput       string
	matrixProfilePath string
	matrixOut         string
	matrixOutMD       string
	matrixMaxDocs     int
	matrixFailLow     bool
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Build the feature x prior-art novelty matrix",
	Long: `Compare the profile's key features against the extracted claims and build
the novelty_matrix.json artifact: per-cell NO/PARTIAL/YES labels with
evidence snippets, novelty candidate features, and low-co-occurrence feature
pairs. The matrix is a screening aid, not a legal novelty conclusion.

Example:
  priorart matrix --input claims.json --profile profile.json --out novelty_matrix.json`,
	RunE: runMatrix,
}

func init() {
	rootCmd.AddCommand(matrixCmd)

	matrixCmd.Flags().StringVar(&matrixInput, "input", "claims.json", "claims artifact path")
	matrixCmd.Flags().StringVar(&matrixProfilePath, "profile", "profile.json", "invention profile path")
	matrixCmd.Flags().StringVar(&matrixOut, "out", "novelty_matrix.json", "output JSON path")
	matrixCmd.Flags().StringVar(&matrixOutMD, "md", "", "output Markdown path (optional)")
	matrixCmd.Flags().IntVar(&matrixMaxDocs, "max-docs", 0, "max documents in the matrix (default from config)")
	matrixCmd.Flags().BoolVar(&matrixFailLow, "fail-on-low-claims", false, "exit 2 when the claims quality gate fails")
}

func runMatrix(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if matrixMaxDocs > 0 {
		cfg.Novelty.MaxDocs = matrixMaxDocs
	}

	profile, err := loadProfile(matrixProfilePath)
	if err != nil {
		return err
	}
	records, err := loadClaimRecords(matrixInput)
	if err != nil {
		return err
	}

	m, err := novelty.NewBuilder(cfg.Novelty).Build(profile, records)
	if err != nil {
		return err
	}

	if err := writeJSON(matrixOut, m); err != nil {
		return err
	}
	logOK("documents: %d, features: %d", len(m.Documents), len(m.FeatureIDs))
	logOK("claims ok ratio: %v (min %v, pass=%v)",
		m.QualityGate.ClaimsOKRatio, m.QualityGate.MinClaimsOKRatio, m.QualityGate.Pass)
	logOK("out: %s", matrixOut)

	if matrixOutMD != "" {
		if err := writeFile(matrixOutMD, []byte(report.MatrixMarkdown(m, time.Now()))); err != nil {
			return err
		}
		logOK("out-md: %s", matrixOutMD)
	}

	if matrixFailLow && !m.QualityGate.Pass {
		return gateFailed(ExitGateFailed, "claims quality gate failed: ok ratio %v < min %v",
			m.QualityGate.ClaimsOKRatio, m.QualityGate.MinClaimsOKRatio)
	}
	return nil
}
