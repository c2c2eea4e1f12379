package cli

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"identity-console/pkg/cli/client"
)

var userColumns = []string{"id", "userName", "email", "displayName", "lockedOut", "roles"}

type userDetail struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	UserName  string     `json:"userName"`
	LockedOut string     `json:"lockedOut"`
	Roles     []string   `json:"roles"`
	Claims    []claimRow `json:"claims"`
}

type updateUserBody struct {
	Email  string      `json:"email"`
	Locked bool        `json:"locked"`
	Roles  []string    `json:"roles"`
	Claims []claimPair `json:"claims"`
}

func newUsersCmd(c *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage user accounts",
	}
	cmd.AddCommand(
		newTableListCmd(c, "/users", userColumns, "List users"),
		newGetCmd(c, "/users", "Show a user with roles and claims"),
		newUsersCreateCmd(c),
		newUsersUpdateCmd(c),
		newDeleteCmd(c, "/users", "user"),
		newUsersResetPasswordCmd(c),
	)
	return cmd
}

func newUsersCreateCmd(c *client.Client) *cobra.Command {
	var userName, name, email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Create a user. The password is prompted for when --password is not given. A display name is stored as a Name claim.",
		Example: `  idmctl users create --user-name alice --name "Alice Smith" --email alice@example.com
  echo "$PW" | idmctl users create --user-name bot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("password") {
				pw, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
				if err != nil {
					return err
				}
				password = pw
			}
			body := map[string]string{
				"userName": userName,
				"name":     name,
				"email":    email,
				"password": password,
			}
			if err := c.Call(cmd.Context(), http.MethodPost, "/users", nil, body, nil); err != nil {
				return err
			}
			return printStatus(cmd, fmt.Sprintf("User %q created", userName), map[string]string{"userName": userName})
		},
	}
	cmd.Flags().StringVar(&userName, "user-name", "", "Login name (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("user-name")
	return cmd
}

func newUsersUpdateCmd(c *client.Client) *cobra.Command {
	var (
		email                           string
		locked                          bool
		roles, addRoles, removeRoles    []string
		claims, addClaims, removeClaims []string
		clearRoles, clearClaims         bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user's email, lock state, roles and claims",
		Long: `Update a user. The current state is read first and only the flags given are
changed. --role and --claim replace the whole set; --add-*/--remove-* edit it.`,
		Example: `  idmctl users update 0193... --locked
  idmctl users update 0193... --add-role Administrators --add-claim "Email=alice@example.com"
  idmctl users update 0193... --clear-claims --claim "Name=Alice"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			var cur userDetail
			if err := c.Call(cmd.Context(), http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, &cur); err != nil {
				return err
			}

			body := updateUserBody{
				Email:  cur.Email,
				Locked: cur.LockedOut != "",
			}
			if cmd.Flags().Changed("email") {
				body.Email = email
			}
			if cmd.Flags().Changed("locked") {
				body.Locked = locked
			}

			setRoles := setOrNil(roles, cmd.Flags().Changed("role"), clearRoles)
			body.Roles = editNames(cur.Roles, setRoles, addRoles, removeRoles)

			set, add, remove, err := claimEdits(cmd, claims, addClaims, removeClaims, clearClaims)
			if err != nil {
				return err
			}
			body.Claims = editClaims(claimsFromRows(cur.Claims), set, add, remove)

			if err := c.Call(cmd.Context(), http.MethodPut, "/users/"+url.PathEscape(id), nil, body, nil); err != nil {
				return err
			}
			return printStatus(cmd, fmt.Sprintf("User %q updated", cur.UserName), map[string]string{"id": id})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "New email address")
	cmd.Flags().BoolVar(&locked, "locked", false, "Lock (true) or unlock (false) the account")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Replace role memberships (repeatable)")
	cmd.Flags().StringSliceVar(&addRoles, "add-role", nil, "Add a role membership (repeatable)")
	cmd.Flags().StringSliceVar(&removeRoles, "remove-role", nil, "Remove a role membership (repeatable)")
	cmd.Flags().BoolVar(&clearRoles, "clear-roles", false, "Remove every role membership")
	addClaimFlags(cmd, &claims, &addClaims, &removeClaims, &clearClaims)
	return cmd
}

func newUsersResetPasswordCmd(c *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Set a new password for a user",
		Long:  "Set a new password. The password and its confirmation are read from the terminal, or one per line from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, verify, err := promptNewPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			body := map[string]string{"password": password, "verify": verify}
			if err := c.Call(cmd.Context(), http.MethodPost, "/users/"+url.PathEscape(args[0])+"/password", nil, body, nil); err != nil {
				return err
			}
			return printStatus(cmd, "Password updated", map[string]string{"id": args[0]})
		},
	}
}

// addClaimFlags registers the claim editing flags shared by users and roles.
func addClaimFlags(cmd *cobra.Command, set, add, remove *[]string, clearAll *bool) {
	cmd.Flags().StringArrayVar(set, "claim", nil, "Replace claims with Type=Value (repeatable)")
	cmd.Flags().StringArrayVar(add, "add-claim", nil, "Add a Type=Value claim (repeatable)")
	cmd.Flags().StringArrayVar(remove, "remove-claim", nil, "Remove a Type=Value claim (repeatable)")
	cmd.Flags().BoolVar(clearAll, "clear-claims", false, "Remove every claim")
}

func claimEdits(cmd *cobra.Command, set, add, remove []string, clearAll bool) (setC, addC, removeC []claimPair, err error) {
	if cmd.Flags().Changed("claim") || clearAll {
		if setC, err = parseClaims(set); err != nil {
			return nil, nil, nil, err
		}
	}
	if addC, err = parseClaims(add); err != nil {
		return nil, nil, nil, err
	}
	if removeC, err = parseClaims(remove); err != nil {
		return nil, nil, nil, err
	}
	return setC, addC, removeC, nil
}

// setOrNil returns the replacement set, an empty set when clearing, or nil
// when the set is left alone.
func setOrNil(values []string, changed, clearAll bool) []string {
	switch {
	case changed:
		return append([]string{}, values...)
	case clearAll:
		return []string{}
	default:
		return nil
	}
}

// newTableListCmd lists a table endpoint (users, roles).
func newTableListCmd(c *client.Client, path string, columns []string, short string) *cobra.Command {
	var (
		q   client.TableQuery
		all bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				page *client.TableResponse
				err  error
			)
			if all {
				page, err = client.FetchAllRows(cmd.Context(), c, path, q)
			} else {
				page, err = client.FetchTable(cmd.Context(), c, path, q)
			}
			if err != nil {
				return err
			}
			if err := printList(cmd, page, page.Data, columns); err != nil {
				return err
			}
			if getOutputFormat(cmd) != "json" && !isQuiet(cmd) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d shown (%d total)\n", len(page.Data), page.RecordsFiltered, page.RecordsTotal)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "Free-text filter")
	cmd.Flags().StringVar(&q.SortColumn, "sort", "", "Field to sort by")
	cmd.Flags().BoolVar(&q.Descending, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&q.Start, "start", 0, "Offset of the first row")
	cmd.Flags().IntVar(&q.Length, "length", 0, "Page size (server default when 0)")
	cmd.Flags().BoolVar(&all, "all", false, "Fetch every matching row")
	return cmd
}

func newGetCmd(c *client.Client, path, short string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var obj map[string]interface{}
			if err := c.Call(cmd.Context(), http.MethodGet, path+"/"+url.PathEscape(args[0]), nil, nil, &obj); err != nil {
				return err
			}
			return printDetail(cmd, obj)
		},
	}
}

func newDeleteCmd(c *client.Client, path, kind string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			if err := c.Call(cmd.Context(), http.MethodDelete, path+"/"+url.PathEscape(args[0]), nil, nil, nil); err != nil {
				return err
			}
			return printStatus(cmd, fmt.Sprintf("Deleted %s %s", kind, args[0]), map[string]string{"id": args[0]})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}
