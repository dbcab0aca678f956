package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/specialistvlad/flowrecon/internal/app"
	"github.com/specialistvlad/flowrecon/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	catalog     []string
	logLevel    string
	logFormat   string
	output      string
	metricsAddr string
}

func (o *globalOptions) register(flags *pflag.FlagSet) {
	def := app.DefaultConfig()
	flags.StringSliceVar(&o.catalog, "catalog", nil, "Extra .hcl file or directory merged over the built-in examples (repeatable).")
	flags.StringVar(&o.logLevel, "log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&o.logFormat, "log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flags.StringVarP(&o.output, "output", "o", def.Output, "Report format. Options: 'text', 'yaml' or 'json'.")
	flags.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address while the command runs. Empty is disabled.")
}

func (o *globalOptions) config() (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		CatalogPaths: o.catalog,
		LogLevel:     strings.ToLower(o.logLevel),
		LogFormat:    strings.ToLower(o.logFormat),
		Output:       strings.ToLower(o.output),
		MetricsAddr:  o.metricsAddr,
	})
	if err != nil {
		return nil, usageError("%s", err.Error())
	}
	return cfg, nil
}

// runner carries what every subcommand needs to build an App.
type runner struct {
	opts    globalOptions
	outW    io.Writer
	logW    io.Writer
	loader  config.Loader
	appOpts []app.Option
}

// withApp builds the App, starts its metrics server and hands it to fn.
func (r *runner) withApp(fn func(*app.App) error) error {
	cfg, err := r.opts.config()
	if err != nil {
		return err
	}
	a, err := app.NewApp(r.outW, r.logW, cfg, r.loader, r.appOpts...)
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// NewRootCommand builds the command tree. Reports go to outW, logs and
// errors to logW.
func NewRootCommand(outW, logW io.Writer, loader config.Loader, appOpts ...app.Option) *cobra.Command {
	r := &runner{outW: outW, logW: logW, loader: loader, appOpts: appOpts}

	root := &cobra.Command{
		Use:   "flowrecon",
		Short: "Reconstruct edge execution counts from a minimal set of counters",
		Long: `
flowrecon picks a maximum-weight spanning tree of a control-flow graph,
instruments only the edges outside it, simulates weighted runs and then
recovers every tree edge count from flow conservation.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(logW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%s", err.Error())
	})
	r.opts.register(root.PersistentFlags())

	root.AddCommand(
		newListCommand(r),
		newPlanCommand(r),
		newSimulateCommand(r),
		newReconstructCommand(r),
	)
	return root
}

// Execute runs the command tree on args. Every failure comes back as an
// *ExitError.
func Execute(ctx context.Context, args []string, outW, logW io.Writer, loader config.Loader, appOpts ...app.Option) error {
	root := NewRootCommand(outW, logW, loader, appOpts...)
	// cobra falls back to os.Args for nil.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: 1, Message: err.Error()}
}
