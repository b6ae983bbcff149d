package cli

import (
	"alcyxob/liftplan/internal/app"
	"alcyxob/liftplan/internal/domain"
	"alcyxob/liftplan/internal/engine"
	"alcyxob/liftplan/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (p *planctl) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Print an empty plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return p.reportPlan(cmd, bridgeOnly().NewPlan())
		},
	}
}

func (p *planctl) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Load a plan from a file, s3://, mongo:// or sqlite:// path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return p.withApp(cmd.Context(), func(a *app.App) error {
				return p.reportPlan(cmd, a.Bridge.OpenPlan(cmd.Context(), args[0]))
			})
		},
	}
}

func (p *planctl) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <path>",
		Short: "Store the input plan at a file, s3://, mongo:// or sqlite:// path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := p.readPlan(cmd)
			if err != nil {
				return err
			}
			return p.withApp(cmd.Context(), func(a *app.App) error {
				return p.report(cmd, a.Bridge.SavePlan(cmd.Context(), plan, args[0]), showSaveResult)
			})
		},
	}
}

func (p *planctl) draftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft",
		Short: "Save the input plan to the drafts directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := p.readPlan(cmd)
			if err != nil {
				return err
			}
			return p.withApp(cmd.Context(), func(a *app.App) error {
				return p.report(cmd, a.Bridge.SaveDraft(cmd.Context(), plan), showSaveResult)
			})
		},
	}
}

func showSaveResult(w io.Writer, data json.RawMessage) error {
	var res service.SaveResult
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	printSuccess(w, "Saved "+res.Path)
	printLabelValue(w, "Bytes", strconv.Itoa(res.Bytes))
	printLabelValue(w, "Digest", res.Digest)
	return nil
}

// errIssuesFound makes `validate --strict` exit non-zero.
var errIssuesFound = errors.New("plan has validation issues")

func (p *planctl) validateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "List validation issues of the input plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := p.readPlan(cmd)
			if err != nil {
				return err
			}
			found := 0
			err = p.report(cmd, bridgeOnly().ValidatePlan(plan), func(w io.Writer, data json.RawMessage) error {
				var issues []domain.Issue
				if err := json.Unmarshal(data, &issues); err != nil {
					return err
				}
				found = len(issues)
				showIssues(w, issues)
				return nil
			})
			if err != nil {
				return err
			}
			if strict && found > 0 {
				return errIssuesFound
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when issues are found")
	return cmd
}

func showIssues(w io.Writer, issues []domain.Issue) {
	if len(issues) == 0 {
		printSuccess(w, "No issues")
		return
	}
	printWarning(w, countOf(len(issues), "issue", "issues"))
	rows := make([]table.Row, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, table.Row{is.Code, is.Kind, is.Location.Path, is.Message})
	}
	printTable(w, table.Row{"Code", "Kind", "Path", "Message"}, rows)
}

func (p *planctl) diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <plan-file>",
		Short: "List the changes from the input plan to another plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := p.readPlan(cmd)
			if err != nil {
				return err
			}
			to, err := readPlanFile(args[0])
			if err != nil {
				return err
			}
			return p.report(cmd, bridgeOnly().DiffPlans(from, to), showDiff)
		},
	}
}

func showDiff(w io.Writer, data json.RawMessage) error {
	var diff engine.PlanDiff
	if err := json.Unmarshal(data, &diff); err != nil {
		return err
	}
	if len(diff.Changes) == 0 {
		printSuccess(w, "No changes")
		return nil
	}
	rows := make([]table.Row, 0, len(diff.Changes))
	for _, c := range diff.Changes {
		rows = append(rows, table.Row{c.Type, c.Path, string(c.OldValue), string(c.NewValue)})
	}
	printTable(w, table.Row{"Change", "Path", "Old", "New"}, rows)
	m := diff.Metrics
	printLabelValue(w, "Changes", fmt.Sprintf("%d (+%d ~%d -%d)", m.TotalChanges, m.Additions, m.Modifications, m.Deletions))
	printLabelValue(w, "Segments", fmt.Sprintf("+%d ~%d -%d", m.SegmentsAdded, m.SegmentsModified, m.SegmentsRemoved))
	printLabelValue(w, "Exercises", fmt.Sprintf("+%d -%d", m.ExercisesAdded, m.ExercisesRemoved))
	return nil
}

func (p *planctl) tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return p.withApp(cmd.Context(), func(a *app.App) error {
				if a.Tokens == nil {
					return fmt.Errorf("jwt.secret is not configured")
				}
				token, err := a.Tokens.IssueToken(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
				return err
			})
		},
	}
}
