package cli

import (
	"alcyxob/liftplan/internal/app"
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/server"
	"errors"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (p *planctl) dirsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dirs",
		Short: "Show the application support, cache and drafts directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return p.withApp(cmd.Context(), func(a *app.App) error {
				dirs := []struct {
					name string
					env  bridge.Envelope
				}{
					{"app-support", a.Bridge.AppSupportDir()},
					{"cache", a.Bridge.CacheDir()},
					{"drafts", a.Bridge.DraftsDir()},
				}
				if p.v.GetBool("json") {
					out := make(map[string]bridge.Envelope, len(dirs))
					for _, d := range dirs {
						out[d.name] = d.env
					}
					return printJSON(cmd.OutOrStdout(), out)
				}
				rows := make([]table.Row, 0, len(dirs))
				for _, d := range dirs {
					var path string
					if err := d.env.Decode(&path); err != nil {
						return err
					}
					rows = append(rows, table.Row{d.name, path})
				}
				printTable(cmd.OutOrStdout(), table.Row{"Directory", "Path"}, rows)
				return nil
			})
		},
	}
}

var errNoDocumentStore = errors.New("database.uri is not configured")

// docsCmd manages plans stored in MongoDB under mongo:// keys.
func (p *planctl) docsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List or delete plans stored under mongo:// keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List stored plan documents",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return p.withApp(cmd.Context(), func(a *app.App) error {
					if a.Documents == nil {
						return errNoDocumentStore
					}
					docs, err := a.Documents.List(cmd.Context())
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if p.v.GetBool("json") {
						return printJSON(out, docs)
					}
					printSection(out, "Stored Plans")
					if len(docs) == 0 {
						printEmptyState(out, "No stored plans")
						return nil
					}
					rows := make([]table.Row, 0, len(docs))
					for _, d := range docs {
						rows = append(rows, table.Row{"mongo://" + d.Key, d.Name, strconv.Itoa(d.Size), d.UpdatedAt.Format(time.RFC3339)})
					}
					printTable(out, table.Row{"Path", "Name", "Bytes", "Updated"}, rows)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rm <key>",
			Short: "Delete a stored plan document",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return p.withApp(cmd.Context(), func(a *app.App) error {
					if a.Documents == nil {
						return errNoDocumentStore
					}
					if err := a.Documents.Delete(cmd.Context(), args[0]); err != nil {
						return err
					}
					printSuccess(cmd.OutOrStdout(), "Deleted mongo://"+args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func (p *planctl) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := p.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")
	return cmd
}
