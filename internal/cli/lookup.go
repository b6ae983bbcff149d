package cli

import (
	"alcyxob/liftplan/internal/engine"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (p *planctl) groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage named exercise groups",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List groups and their members",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.report(cmd, bridgeOnly().GetGroups(plan), showGroups)
			},
		},
		&cobra.Command{
			Use:   "set <name> <code>...",
			Short: "Create or replace a group",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				codes, err := json.Marshal(append([]string{}, args[1:]...))
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().AddGroup(plan, args[0], codes))
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().RemoveGroup(plan, args[0]))
			},
		},
	)
	return cmd
}

func showGroups(w io.Writer, data json.RawMessage) error {
	var groups map[string][]string
	if err := json.Unmarshal(data, &groups); err != nil {
		return err
	}
	if len(groups) == 0 {
		printEmptyState(w, "No groups")
		return nil
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		rows = append(rows, table.Row{name, strings.Join(groups[name], ", ")})
	}
	printTable(w, table.Row{"Group", "Exercises"}, rows)
	return nil
}

func (p *planctl) dictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the exercise dictionary",
	}
	var limit int
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy search exercise codes and names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := p.readPlan(cmd)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return p.report(cmd, bridgeOnly().SearchDictionary(plan, query, limit), showMatches)
		},
	}
	search.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of matches (0 for all)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <code> <name>",
			Short: "Add or rename a dictionary entry",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().AddDictionaryEntry(plan, args[0], args[1]))
			},
		},
		&cobra.Command{
			Use:   "remove <code>",
			Short: "Remove a dictionary entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().RemoveDictionaryEntry(plan, args[0]))
			},
		},
		search,
	)
	return cmd
}

func showMatches(w io.Writer, data json.RawMessage) error {
	var matches []engine.DictionaryMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		return err
	}
	if len(matches) == 0 {
		printEmptyState(w, "No matches")
		return nil
	}
	rows := make([]table.Row, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, table.Row{m.Code, m.Name, strconv.Itoa(m.Score)})
	}
	printTable(w, table.Row{"Code", "Name", "Score"}, rows)
	return nil
}
