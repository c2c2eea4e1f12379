package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/spf13/cobra"

	"identity-console/pkg/cli/client"
)

var roleColumns = []string{"id", "name", "claims"}

type roleDetail struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Claims []claimRow `json:"claims"`
}

func newRolesCmd(c *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "roles",
		Aliases: []string{"role"},
		Short:   "Manage roles and their claims",
	}
	cmd.AddCommand(
		newTableListCmd(c, "/roles", roleColumns, "List roles"),
		newRolesNamesCmd(c),
		newGetCmd(c, "/roles", "Show a role with its claims"),
		newRolesCreateCmd(c),
		newRolesUpdateCmd(c),
		newDeleteCmd(c, "/roles", "role"),
	)
	return cmd
}

func newRolesNamesCmd(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "List role ids and names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var names map[string]string
			if err := c.Call(cmd.Context(), http.MethodGet, "/roles/names", nil, nil, &names); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return client.PrintJSON(cmd.OutOrStdout(), names)
			}
			rows := make([][]string, 0, len(names))
			for id, name := range names {
				rows = append(rows, []string{id, name})
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i][1] < rows[j][1] })
			if isQuiet(cmd) {
				for _, r := range rows {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), r[0])
				}
				return nil
			}
			client.PrintTable(cmd.OutOrStdout(), []string{"id", "name"}, rows)
			return nil
		},
	}
}

func newRolesCreateCmd(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Call(cmd.Context(), http.MethodPost, "/roles", nil, map[string]string{"name": args[0]}, nil); err != nil {
				return err
			}
			return printStatus(cmd, fmt.Sprintf("Role %q created", args[0]), map[string]string{"name": args[0]})
		},
	}
}

func newRolesUpdateCmd(c *client.Client) *cobra.Command {
	var (
		name                            string
		claims, addClaims, removeClaims []string
		clearClaims                     bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a role or edit its claims",
		Long: `Update a role. The current state is read first and only the flags given are
changed. --claim replaces the whole claim set; --add-claim/--remove-claim edit it.`,
		Example: `  idmctl roles update 0193... --name Operators
  idmctl roles update 0193... --add-claim "Role=ops"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			var cur roleDetail
			if err := c.Call(cmd.Context(), http.MethodGet, "/roles/"+url.PathEscape(id), nil, nil, &cur); err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				name = cur.Name
			}
			set, add, remove, err := claimEdits(cmd, claims, addClaims, removeClaims, clearClaims)
			if err != nil {
				return err
			}
			body := map[string]interface{}{
				"name":   name,
				"claims": editClaims(claimsFromRows(cur.Claims), set, add, remove),
			}
			if err := c.Call(cmd.Context(), http.MethodPut, "/roles/"+url.PathEscape(id), nil, body, nil); err != nil {
				return err
			}
			return printStatus(cmd, fmt.Sprintf("Role %q updated", name), map[string]string{"id": id})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New role name")
	addClaimFlags(cmd, &claims, &addClaims, &removeClaims, &clearClaims)
	return cmd
}

func newClaimTypesCmd(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "claim-types",
		Short: "List the claim types accepted in claim edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var types []string
			if err := c.Call(cmd.Context(), http.MethodGet, "/claim-types", nil, nil, &types); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return client.PrintJSON(cmd.OutOrStdout(), types)
			}
			for _, t := range types {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
