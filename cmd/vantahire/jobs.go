package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vantahire/pkg/client"
)

func newJobsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse and post jobs",
	}
	cmd.AddCommand(newJobsSearchCmd(a), newJobsShowCmd(a), newJobsPostCmd(a))
	return cmd
}

func newJobsSearchCmd(a *app) *cobra.Command {
	var (
		filter client.Filter
		skills string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "List approved, active jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if skills != "" {
				filter.Skills = strings.Split(skills, ",")
			}

			page, err := a.jobs.Search(cmd.Context(), client.Canonical(filter))
			if err != nil {
				if client.IsRetryable(err) {
					return fmt.Errorf("could not load jobs, try again: %w", err)
				}
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), client.NewListView(page).Text())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&filter.Search, "search", "s", "", "free text matched against title and description")
	f.StringVarP(&filter.Location, "location", "l", "", "location substring")
	f.StringVarP(&filter.Type, "type", "t", client.TypeAll, "job type ("+strings.Join(client.JobTypes, ", ")+" or all)")
	f.StringVar(&skills, "skills", "", "comma separated skills, any match")
	f.IntVarP(&filter.Page, "page", "p", 1, "page number")
	return cmd
}

func newJobsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one job in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			job, err := a.jobs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), client.NewDetailView(job).Text())
			return nil
		},
	}
}

func newJobsPostCmd(a *app) *cobra.Command {
	var (
		draft  client.JobDraft
		skills []string
	)
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a job for review (recruiters and admins)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for _, s := range skills {
				if err := draft.AddSkill(s); err != nil {
					return err
				}
			}

			// check locally before asking for credentials
			if verr := draft.Validate(); verr != nil {
				return verr
			}
			if err := a.signIn(ctx); err != nil {
				return err
			}
			if d := a.session.Check("/jobs/post"); d.Target != "" {
				return fmt.Errorf("not allowed to post jobs (go to %s)", d.Target)
			}

			form := client.NewPostForm(a.jobs)
			form.Draft = draft
			res, err := form.Submit(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted job #%d (%s). It will appear on %s once approved.\n",
				res.Job.ID, res.Job.Status, res.Navigate)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.Title, "title", "", "job title")
	f.StringVar(&draft.Location, "location", "", "job location")
	f.StringVar(&draft.Type, "type", "", "job type ("+strings.Join(client.JobTypes, ", ")+")")
	f.StringVar(&draft.Description, "description", "", "job description")
	f.StringVar(&draft.Deadline, "deadline", "", "application deadline, YYYY-MM-DD")
	f.StringSliceVar(&skills, "skill", nil, "required skill, repeatable")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
