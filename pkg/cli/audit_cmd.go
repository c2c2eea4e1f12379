package cli

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"identity-console/pkg/cli/client"
)

var auditColumns = []string{"id", "createdAt", "actor", "action", "targetId", "status", "errorMessage"}

func newAuditCmd(c *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit log of administrative changes",
	}
	cmd.AddCommand(newAuditListCmd(c))
	return cmd
}

func newAuditListCmd(c *client.Client) *cobra.Command {
	var (
		actor, action, targetID string
		maxResults              int
		all                     bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			if actor != "" {
				q.Set("actor", actor)
			}
			if action != "" {
				q.Set("action", action)
			}
			if targetID != "" {
				q.Set("target_id", targetID)
			}
			if maxResults > 0 {
				q.Set("max_results", strconv.Itoa(maxResults))
			}

			if all {
				items, err := client.FetchAllPages(c, http.MethodGet, "/audit", q)
				if err != nil {
					return err
				}
				return printList(cmd, map[string]interface{}{"data": items}, items, auditColumns)
			}
			var page client.PaginatedResponse
			if err := c.Call(cmd.Context(), http.MethodGet, "/audit", q, nil, &page); err != nil {
				return err
			}
			return printList(cmd, page, page.Data, auditColumns)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Only entries by this caller")
	cmd.Flags().StringVar(&action, "action", "", "Only this action (e.g. UPDATE_USER)")
	cmd.Flags().StringVar(&targetID, "target-id", "", "Only entries for this user or role id")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Page size (server default when 0)")
	cmd.Flags().BoolVar(&all, "all", false, "Follow page tokens and fetch every entry")
	return cmd
}
