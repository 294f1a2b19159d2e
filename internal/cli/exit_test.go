package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/patware/priorart/internal/model"
)

func TestGateFailedCarriesExitCode(t *testing.T) {
	cases := []struct {
		code int
		msg  string
	}{
		{ExitGateFailed, "recall is empty"},
		{ExitLowRecall, "unique patents 1 < min 5"},
	}
	for _, tc := range cases {
		err := gateFailed(tc.code, "%s", tc.msg)
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("gateFailed did not return *ExitError: %v", err)
		}
		if exitErr.Code != tc.code {
			t.Errorf("code = %d, want %d", exitErr.Code, tc.code)
		}
		if exitErr.Error() != tc.msg {
			t.Errorf("message = %q, want %q", exitErr.Error(), tc.msg)
		}
	}
}

func TestGateExitCodeValues(t *testing.T) {
	if ExitGateFailed != 2 {
		t.Errorf("ExitGateFailed = %d, want 2", ExitGateFailed)
	}
	if ExitLowRecall != 3 {
		t.Errorf("ExitLowRecall = %d, want 3", ExitLowRecall)
	}
}

func TestQueriesFlagDefaults(t *testing.T) {
	merge := queriesCmd.Flags().Lookup("merge-profile")
	if merge == nil || merge.DefValue != "true" {
		t.Errorf("merge-profile default = %v, want true", merge)
	}
	minAgent := queriesCmd.Flags().Lookup("min-agent-queries")
	if minAgent == nil || minAgent.DefValue != "4" {
		t.Errorf("min-agent-queries default = %v, want 4", minAgent)
	}
}

func TestMatrixCommandGateExit(t *testing.T) {
	dir := t.TempDir()

	profile := model.InventionProfile{
		Keywords: model.ProfileKeywords{CN: []string{"缓存"}, EN: []string{"cache"}},
		KeyFeatures: []model.InventionFeature{
			{ID: "F1", Text: "内容哈希、页面缓存"},
			{ID: "F2", Text: "失败重试、指数退避"},
			{ID: "F3", Text: "feature pair scoring"},
		},
	}
	records := []model.ClaimRecord{
		{
			PriorArtRecord: model.PriorArtRecord{Source: "Google Patents", PatentNumber: "CN1A", Title: "doc"},
			ClaimsStatus:   model.ClaimsStatusFetchBlocked403,
		},
		{
			PriorArtRecord: model.PriorArtRecord{Source: "Google Patents", PatentNumber: "CN2B", Title: "doc"},
			ClaimsStatus:   model.ClaimsStatusFetchFailed,
		},
	}

	profilePath := filepath.Join(dir, "profile.json")
	inputPath := filepath.Join(dir, "claims.json")
	outPath := filepath.Join(dir, "novelty_matrix.json")
	if err := writeJSON(profilePath, profile); err != nil {
		t.Fatal(err)
	}
	if err := writeJSON(inputPath, records); err != nil {
		t.Fatal(err)
	}

	matrixProfilePath = profilePath
	matrixInput = inputPath
	matrixOut = outPath
	matrixOutMD = ""
	matrixMaxDocs = 0
	matrixFailLow = true

	err := runMatrix(matrixCmd, nil)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected gate ExitError, got %v", err)
	}
	if exitErr.Code != ExitGateFailed {
		t.Errorf("code = %d, want %d", exitErr.Code, ExitGateFailed)
	}
	// The artifact is still written before the gate trips.
	if _, statErr := os.Stat(outPath); statErr != nil {
		t.Errorf("matrix artifact missing: %v", statErr)
	}
}
