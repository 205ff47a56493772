package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"framecast/internal/history"
)

func newJobsCommand(cctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show export job history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Job history is disabled in configuration")
				return nil
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), jobsToJSON(records))
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No export jobs recorded")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderJobsTable(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print history as JSON")

	cmd.AddCommand(newJobsClearCommand(cctx))
	return cmd
}

func newJobsClearCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded export jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job record(s)\n", removed)
			return nil
		},
	}
}

type jobJSON struct {
	ID            string    `json:"id"`
	Format        string    `json:"format"`
	TotalFrames   int       `json:"total_frames"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	FPS           int       `json:"fps"`
	Filename      string    `json:"filename"`
	Status        string    `json:"status"`
	ArtifactBytes int64     `json:"artifact_bytes"`
	Error         string    `json:"error,omitempty"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

func jobsToJSON(records []history.Record) []jobJSON {
	out := make([]jobJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, jobJSON{
			ID:            rec.ID,
			Format:        rec.Format,
			TotalFrames:   rec.TotalFrames,
			Width:         rec.Width,
			Height:        rec.Height,
			FPS:           rec.FPS,
			Filename:      rec.Filename,
			Status:        string(rec.Status),
			ArtifactBytes: rec.ArtifactBytes,
			Error:         rec.Error,
			StartedAt:     rec.StartedAt,
			FinishedAt:    rec.FinishedAt,
		})
	}
	return out
}
