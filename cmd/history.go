package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/epcltv/epcltv/color"
	"github.com/epcltv/epcltv/history"
	"github.com/epcltv/epcltv/icon"
	"github.com/epcltv/epcltv/style"
	"github.com/epcltv/epcltv/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.SetOut(os.Stdout)

	historyCmd.AddCommand(historyForgetCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "List saved resume points, optionally filtered by a fuzzy query",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.Search(lo.FirstOr(args, ""))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("no resume points"))
			return
		}

		for _, entry := range entries {
			cmd.Printf(
				"%s %s %s\n",
				style.Fg(color.Purple)(icon.Get(icon.Pause)),
				entry.String(),
				style.Faint(entry.SavedAt.Format("2006-01-02 15:04")),
			)
		}
		cmd.Println(style.Faint(util.Quantify(len(entries), "entry", "entries")))
	},
}

var historyForgetCmd = &cobra.Command{
	Use:   "forget <locator>",
	Short: "Remove the resume point of a locator",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		entries, err := history.Search(toComplete)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Map(entries, func(e *history.Entry, _ int) string { return e.Locator }), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Remove(args[0]))
		fmt.Printf("%s forgot %s\n", icon.Get(icon.Success), args[0])
	},
}
