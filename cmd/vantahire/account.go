package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vantahire/pkg/access"
	"vantahire/pkg/client"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check credentials against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.username == "" {
				return errors.New("--username is required")
			}
			if a.opts.password == "" {
				pw, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				a.opts.password = pw
			}
			if err := a.signIn(cmd.Context()); err != nil {
				return err
			}
			p := a.session.State().Principal
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", p.Username, p.Role)
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.signIn(cmd.Context()); err != nil {
				return err
			}
			p := a.session.State().Principal
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, %s)\n", p.Username, p.ID, p.Role)
			return nil
		},
	}
}

func newGuardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "guard <path>",
		Short: "Show what the page guard decides for a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.signIn(cmd.Context()); err != nil {
				return err
			}
			d := a.session.Check(args[0])
			if d.Kind == access.Redirect {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", d.Kind, d.Target)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.Kind)
			return nil
		},
	}
}

func newApplyCmd(a *app) *cobra.Command {
	var (
		draft      client.ApplicationDraft
		resumePath string
	)
	cmd := &cobra.Command{
		Use:   "apply <jobId>",
		Short: "Apply to a job with a PDF resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if resumePath != "" {
				f, err := os.Open(resumePath)
				if err != nil {
					return fmt.Errorf("failed to open resume: %w", err)
				}
				defer f.Close()
				draft.Resume = f
				draft.ResumeName = filepath.Base(resumePath)
			}

			form := client.NewApplyForm(a.api, id)
			form.Draft = draft
			res, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application #%d submitted\n", res.ApplicationID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.Name, "name", "", "full name")
	f.StringVar(&draft.Email, "email", "", "contact email")
	f.StringVar(&draft.Phone, "phone", "", "contact phone")
	f.StringVar(&draft.CoverLetter, "cover-letter", "", "cover letter text")
	f.StringVar(&resumePath, "resume", "", "path to a PDF resume")
	f.StringVar(&draft.ResumeURL, "resume-url", "", "link to a hosted resume instead of a file")
	return cmd
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
