package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var negativeIndex = regexp.MustCompile(`^-[0-9]+$`)

// indexFlagError explains that a negative index must follow "--" when the
// flag parser took it for a shorthand flag.
func indexFlagError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	i := strings.LastIndex(msg, " in ")
	if i < 0 || !negativeIndex.MatchString(msg[i+len(" in "):]) {
		return err
	}
	return fmt.Errorf("%w; negative indexes go after \"--\", e.g. %s -- %s", err, cmd.CommandPath(), msg[i+len(" in "):])
}

func (p *planctl) segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Add, remove or replace segments of a day",
		Example: `  planctl segment add 0 '{"ex":"sq1","sets":3,"reps":5}' -p week.json -w
  planctl segment remove -p week.json -- 0 -1`,
	}
	cmd.SetFlagErrorFunc(indexFlagError)
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <day> <segment-json>",
			Short: "Append a segment to a day",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				day, err := intArg(args, 0, "day")
				if err != nil {
					return err
				}
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().AddSegment(plan, day, []byte(args[1])))
			},
		},
		&cobra.Command{
			Use:   "remove <day> <index>",
			Short: "Remove a segment",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				day, err := intArg(args, 0, "day")
				if err != nil {
					return err
				}
				index, err := intArg(args, 1, "index")
				if err != nil {
					return err
				}
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().RemoveSegment(plan, day, index))
			},
		},
		&cobra.Command{
			Use:   "update <day> <index> <segment-json>",
			Short: "Replace a segment",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				day, err := intArg(args, 0, "day")
				if err != nil {
					return err
				}
				index, err := intArg(args, 1, "index")
				if err != nil {
					return err
				}
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().UpdateSegment(plan, day, index, []byte(args[2])))
			},
		},
	)
	return cmd
}

func (p *planctl) dayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Add, remove or reorder days",
		Example: `  planctl day add -p week.json -w
  planctl day remove -p week.json -- -1`,
	}
	cmd.SetFlagErrorFunc(indexFlagError)
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [day-json]",
			Short: "Append a day (empty unless a day document is given)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				var day []byte
				if len(args) == 1 {
					day = []byte(args[0])
				}
				return p.reportPlan(cmd, bridgeOnly().AddDay(plan, day))
			},
		},
		&cobra.Command{
			Use:   "remove <index>",
			Short: "Remove a day",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := intArg(args, 0, "index")
				if err != nil {
					return err
				}
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().RemoveDay(plan, index))
			},
		},
		&cobra.Command{
			Use:   "move <from> <to>",
			Short: "Move a day to another position",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				from, err := intArg(args, 0, "from")
				if err != nil {
					return err
				}
				to, err := intArg(args, 1, "to")
				if err != nil {
					return err
				}
				plan, err := p.readPlan(cmd)
				if err != nil {
					return err
				}
				return p.reportPlan(cmd, bridgeOnly().MoveDay(plan, from, to))
			},
		},
	)
	return cmd
}
