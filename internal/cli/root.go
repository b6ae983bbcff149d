package cli

import (
	"alcyxob/liftplan/internal/app"
	"alcyxob/liftplan/internal/bridge"
	"alcyxob/liftplan/internal/codec"
	"alcyxob/liftplan/internal/config"
	"alcyxob/liftplan/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errReported marks a failure that was already printed.
var errReported = errors.New("command failed")

// planctl holds the flag state of one command tree.
type planctl struct {
	v *viper.Viper
}

// NewRootCmd builds the planctl command tree.
func NewRootCmd() *cobra.Command {
	p := &planctl{v: viper.New()}
	p.v.SetEnvPrefix("LIFTPLAN")
	p.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	p.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "planctl",
		Short: "Edit, validate and store workout plans",
		Long: `planctl edits workout plan documents from the shell.

Editing commands read a plan from --plan (a JSON or YAML file) or stdin and
print the resulting plan. Use --write to update the --plan file in place.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringP("plan", "p", "", "plan file to read (stdin when empty or -)")
	root.PersistentFlags().BoolP("write", "w", false, "write the result back to the --plan file")
	root.PersistentFlags().Bool("json", false, "print raw result envelopes")
	root.PersistentFlags().String("config", ".", "directory holding config.yaml")
	for _, name := range []string{"plan", "write", "json", "config"} {
		_ = p.v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	root.AddCommand(
		p.newCmd(),
		p.openCmd(),
		p.saveCmd(),
		p.draftCmd(),
		p.validateCmd(),
		p.diffCmd(),
		p.segmentCmd(),
		p.dayCmd(),
		p.groupCmd(),
		p.dictCmd(),
		p.dirsCmd(),
		p.docsCmd(),
		p.tokenCmd(),
		p.serveCmd(),
	)
	return root
}

// Execute runs planctl with the process arguments and returns the exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			printError(os.Stderr, err.Error())
		}
		return 1
	}
	return 0
}

// --- helpers ---

// bridgeOnly is enough for commands that never touch storage.
func bridgeOnly() *bridge.Bridge {
	return bridge.New(nil, nil)
}

// withApp builds the configured stack for commands that need storage,
// directories or tokens.
func (p *planctl) withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := p.loadConfig()
	if err != nil {
		return err
	}
	a, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func (p *planctl) loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.New(), p.v.GetString("config"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// readPlan returns the input plan as JSON. YAML files are converted.
func (p *planctl) readPlan(cmd *cobra.Command) ([]byte, error) {
	path := p.v.GetString("plan")
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return bytes.TrimSpace(data), nil
	}
	return readPlanFile(path)
}

// readPlanFile reads a JSON or YAML plan file and returns it as JSON.
func readPlanFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	if codec.FormatFor(path) == codec.FormatYAML {
		plan, err := codec.Decode(data, codec.FormatYAML)
		if err != nil {
			return nil, fmt.Errorf("read plan %s: %w", path, err)
		}
		return json.Marshal(plan)
	}
	return data, nil
}

// report prints env and returns errReported when it failed.
func (p *planctl) report(cmd *cobra.Command, env bridge.Envelope, show func(io.Writer, json.RawMessage) error) error {
	out := cmd.OutOrStdout()
	if p.v.GetBool("json") {
		if err := printJSON(out, env); err != nil {
			return err
		}
		if !env.Success {
			return errReported
		}
		return nil
	}
	if !env.Success {
		printError(cmd.ErrOrStderr(), env.Error.Error())
		return errReported
	}
	return show(out, env.Data)
}

// reportPlan prints a plan result, or writes it back to the --plan file
// with --write.
func (p *planctl) reportPlan(cmd *cobra.Command, env bridge.Envelope) error {
	return p.report(cmd, env, func(w io.Writer, data json.RawMessage) error {
		path := p.v.GetString("plan")
		if !p.v.GetBool("write") {
			return printJSON(w, data)
		}
		if path == "" || path == "-" {
			return errors.New("--write needs a --plan file")
		}
		plan, err := codec.Decode(data, codec.FormatJSON)
		if err != nil {
			return err
		}
		encoded, err := codec.Encode(plan, codec.FormatFor(path))
		if err != nil {
			return err
		}
		if err := storage.NewFileStorage().Save(cmd.Context(), path, encoded); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		printSuccess(w, "Updated "+path)
		return nil
	})
}

func intArg(args []string, i int, name string) (int, error) {
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, args[i])
	}
	return n, nil
}
