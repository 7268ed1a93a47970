package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mindscale/mindscale/internal/models"
)

func (a *App) List(ctx context.Context) error {
	records := a.coord.Records()
	if len(records) == 0 {
		printlnFn("No records yet.")
		return nil
	}
	for _, rec := range records {
		printlnFn(formatRecord(rec))
	}
	return nil
}

func formatRecord(rec models.Record) string {
	summary := rec.Analysis.Summary
	if rec.Analysis.Degraded() {
		summary = "[analysis failed]"
	}
	input := rec.UserInput
	if len(input) > 60 {
		input = input[:57] + "..."
	}
	return fmt.Sprintf("%s  %s  %-30s  %s",
		rec.ID,
		rec.Timestamp.Format("2006-01-02 15:04"),
		summary,
		input)
}

func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter record id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.coord.Remove(ctx, id); err != nil {
		printlnFn("Delete failed:", err.Error())
		return err
	}
	printlnFn("Deleted", id)
	return nil
}
