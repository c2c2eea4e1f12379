package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"identity-console/pkg/cli/client"
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func isQuiet(cmd *cobra.Command) bool {
	v, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

// printList renders the objects of a list response. In quiet mode only the
// first column (the identifier) is printed.
func printList(cmd *cobra.Command, resp interface{}, items []interface{}, columns []string) error {
	out := cmd.OutOrStdout()
	if getOutputFormat(cmd) == "json" {
		return client.PrintJSON(out, resp)
	}
	rows := client.ExtractRows(map[string]interface{}{"data": items}, columns)
	for _, row := range rows {
		for i, cell := range row {
			row[i] = listCell(cell)
		}
	}
	if isQuiet(cmd) {
		for _, row := range rows {
			_, _ = fmt.Fprintln(out, row[0])
		}
		return nil
	}
	client.PrintTable(out, columns, rows)
	return nil
}

// listCell flattens a JSON string array cell (["a","b"]) to "a, b".
func listCell(cell string) string {
	if !strings.HasPrefix(cell, `["`) || !strings.HasSuffix(cell, `"]`) {
		return cell
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(cell, `["`), `"]`)
	return strings.Join(strings.Split(inner, `","`), ", ")
}

// printDetail renders a single object.
func printDetail(cmd *cobra.Command, obj map[string]interface{}) error {
	out := cmd.OutOrStdout()
	if getOutputFormat(cmd) == "json" {
		return client.PrintJSON(out, obj)
	}
	if isQuiet(cmd) {
		_, _ = fmt.Fprintln(out, client.ExtractField(obj, "id"))
		return nil
	}
	client.PrintDetail(out, obj)
	return nil
}

// printStatus reports a completed mutation.
func printStatus(cmd *cobra.Command, msg string, fields map[string]string) error {
	out := cmd.OutOrStdout()
	if getOutputFormat(cmd) == "json" {
		obj := map[string]string{"status": "ok"}
		for k, v := range fields {
			obj[k] = v
		}
		return client.PrintJSON(out, obj)
	}
	if !isQuiet(cmd) {
		_, _ = fmt.Fprintln(out, msg)
	}
	return nil
}
