package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mindscale/mindscale/internal/common"
	"github.com/mindscale/mindscale/internal/journal"
)

func (a *App) Submit(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Write your reflection", os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.orch.Submit(ctx, text)
	if err != nil {
		var qerr *journal.QuotaError
		switch {
		case errors.Is(err, common.ErrEmptyInput):
			printlnFn("Nothing to submit.")
		case errors.Is(err, common.ErrNotAuthenticated):
			printlnFn("Please log in first.")
		case errors.Is(err, common.ErrAnalysisKeyMissing):
			printlnFn("Analysis service key is not configured. Run 'settings' first.")
		case errors.As(err, &qerr):
			printlnFn("Cannot submit:", qerr.Reason)
		default:
			printlnFn("Submit failed:", err.Error())
		}
		return err
	}

	rec := res.Record
	if res.Degraded {
		printlnFn("Analysis failed; your entry was kept with a placeholder result.")
	} else {
		printlnFn(fmt.Sprintf("%s — calmness %+d, awareness %+d, energy %+d",
			rec.Analysis.Summary,
			rec.Analysis.Scores.Calmness,
			rec.Analysis.Scores.Awareness,
			rec.Analysis.Scores.Energy))
		if rec.Analysis.Recommendations.HolisticAdvice != "" {
			printlnFn("Advice:", rec.Analysis.Recommendations.HolisticAdvice)
		}
	}
	if res.PersistedRemotely {
		printlnFn("Saved to cloud (id " + rec.ID + ")")
	} else {
		printlnFn("Saved locally (id " + rec.ID + ")")
	}
	return nil
}
