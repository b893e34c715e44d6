package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/linkbio/pkg/core/dashboard"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/core/services"
)

func (c *cli) linksCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "links",
		Short: "Manage a user's links the way their dashboard does",
	}
	cmd.PersistentFlags().StringVar(&username, "user", "", "username whose links to manage")
	_ = cmd.MarkPersistentFlagRequired("user")

	// open loads the user's dashboard session.
	open := func(ctx context.Context) (*dashboard.Session, error) {
		matches, err := c.repo.FindProfilesByUsername(ctx, services.NormalizeUsername(username), 2)
		if err != nil {
			return nil, err
		}
		if len(matches) != 1 {
			return nil, fmt.Errorf("user %q: %w", username, domain.ErrProfileNotFound)
		}

		session := dashboard.NewSession(services.NewLinkService(c.repo), matches[0].ID)
		if res := session.Load(ctx); !res.OK {
			return nil, resultError(res)
		}
		return session, nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List links with their click counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := open(cmd.Context())
			if err != nil {
				return err
			}
			printLinks(cmd.OutOrStdout(), session)
			return nil
		},
	}

	var input domain.NewLink
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := open(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), session.Add(cmd.Context(), input))
		},
	}
	add.Flags().StringVar(&input.Title, "title", "", "link title")
	add.Flags().StringVar(&input.URL, "url", "", "link URL")
	add.Flags().StringVar(&input.Description, "description", "", "optional description")
	add.Flags().StringVar(&input.Icon, "icon", "", "optional icon name")

	toggle := &cobra.Command{
		Use:   "toggle [link-id]",
		Short: "Show or hide a link on the public page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := open(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), session.Toggle(cmd.Context(), args[0]))
		},
	}

	del := &cobra.Command{
		Use:   "delete [link-id]",
		Short: "Delete a link permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := open(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), session.Delete(cmd.Context(), args[0]))
		},
	}

	cmd.AddCommand(list, add, toggle, del)
	return cmd
}

func report(w io.Writer, res dashboard.Result) error {
	if !res.OK {
		return resultError(res)
	}
	if res.Link != nil {
		fmt.Fprintf(w, "%s: %s (%s)\n", res.Message, res.Link.Title, res.Link.ID)
		return nil
	}
	fmt.Fprintln(w, res.Message)
	return nil
}

func resultError(res dashboard.Result) error {
	if res.Err == nil {
		return errors.New(res.Message)
	}
	return fmt.Errorf("%s: %w", res.Message, res.Err)
}

func printLinks(w io.Writer, session *dashboard.Session) {
	for _, l := range session.Links() {
		state := "active"
		if !l.IsActive {
			state = "hidden"
		}
		fmt.Fprintf(w, "%s  %-6s  %5d  %s  %s\n", l.ID, state, l.Clicks, l.Title, l.URL)
	}

	sum := session.Summary()
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%d links, %d active, %d clicks\n", sum.TotalLinks, sum.ActiveLinks, sum.TotalClicks)
}
