package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	jobsModel "schooladmin_backend/internals/features/applications/jobs/model"
	jobPostsModel "schooladmin_backend/internals/features/jobposts/model"
	jobPostsService "schooladmin_backend/internals/features/jobposts/service"
	"schooladmin_backend/internals/listing/loader"
)

func addMigrate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "One-off data migrations.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var dryRun bool
	linkIDs := &cobra.Command{
		Use:   "job-post-ids",
		Short: "Link job applications to job posts by matching position to title.",
		Example: `
schooladmin migrate job-post-ids --dry-run
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			opts := []loader.Option{loader.WithLayout(e.cfg.DateLayout)}
			posts := loader.New(jobPostsModel.NewKind(time.Now, e.cfg.DateLayout), e.backends.Docs, opts...)
			apps := loader.New(jobsModel.Kind, e.backends.Docs, opts...)
			svc := jobPostsService.NewJobPostService(posts, apps)

			report, err := svc.MigrateJobPostIDs(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			printReport(color.Output, report, dryRun)
			return nil
		},
	}
	linkIDs.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing.")

	cmd.AddCommand(linkIDs)
	topLevel.AddCommand(cmd)
}

func printReport(w io.Writer, report jobPostsModel.MigrationReport, dryRun bool) {
	bold := color.New(color.Bold)
	outcome := map[string]*color.Color{
		jobPostsModel.Linked:    color.New(color.FgGreen),
		jobPostsModel.Ambiguous: color.New(color.FgYellow),
		jobPostsModel.Unmatched: color.New(color.FgRed),
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Application"), bold.Sprint("Position"), bold.Sprint("Outcome"), bold.Sprint("Post"))
	for _, r := range report.Rows {
		c, ok := outcome[r.Outcome]
		if !ok {
			c = color.New()
		}
		post := r.PostID
		if r.Outcome == jobPostsModel.Ambiguous {
			post = fmt.Sprintf("%d candidates", r.Candidates)
		}
		tbl.AddRow(r.ApplicationID, r.Position, c.Sprint(r.Outcome), post)
	}
	_, _ = fmt.Fprintln(w, tbl)

	summary := fmt.Sprintf("\nlinked %d, ambiguous %d, unmatched %d, already linked %d",
		report.Linked, report.Ambiguous, report.Unmatched, report.Skipped)
	if dryRun {
		summary += color.New(color.Faint).Sprint(" (dry run, nothing written)")
	}
	_, _ = fmt.Fprintln(w, summary)
}
