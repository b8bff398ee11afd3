package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

type pairInput struct {
	Student *model.StudentProfile `json:"student"`
	Job     *model.JobData        `json:"job"`
}

type fitInput struct {
	Commitments []model.TimeInterval `json:"commitments"`
	Shifts      []model.TimeInterval `json:"shifts"`
}

func newScoreCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one student-job pair read as JSON from a file or stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			var in pairInput
			if err := readJSON(cmd, file, &in); err != nil {
				return err
			}
			svc, err := buildService(ctx, cfg, false)
			if err != nil {
				return err
			}
			res, err := svc.Match(ctx, in.Student, in.Job)
			if err != nil {
				return err
			}
			return writeOut(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", `JSON file with "student" and "job"; "-" reads stdin`)
	return cmd
}

func newFitCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Check job shifts against commitments read as JSON from a file or stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			var in fitInput
			if err := readJSON(cmd, file, &in); err != nil {
				return err
			}
			svc, err := buildService(ctx, cfg, false)
			if err != nil {
				return err
			}
			return writeOut(cmd.OutOrStdout(), svc.AnalyzeFit(in.Commitments, in.Shifts))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", `JSON file with "commitments" and "shifts"; "-" reads stdin`)
	return cmd
}

func newFetchCmd() *cobra.Command {
	var roles []string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch part-time postings from the configured job sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			svc, err := buildService(ctx, cfg, false)
			if err != nil {
				return err
			}
			jobs, err := svc.FetchJobs(ctx, roles)
			if err != nil && len(jobs) == 0 {
				return err
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			return writeOut(cmd.OutOrStdout(), jobs)
		},
	}
	cmd.Flags().StringSliceVar(&roles, "role", nil, "desired role to search for in addition to the configured keywords")
	return cmd
}

func readJSON(cmd *cobra.Command, file string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

func writeOut(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
