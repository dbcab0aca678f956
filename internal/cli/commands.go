package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/specialistvlad/flowrecon/internal/app"
)

// exampleArg requires exactly one example id.
func exampleArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usageError("%s: expected one example id, got %d arguments", cmd.CommandPath(), len(args))
	}
	return nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return usageError("%s: unexpected arguments %q", cmd.CommandPath(), args)
	}
	return nil
}

// runFlags are the simulation overrides shared by simulate and reconstruct.
type runFlags struct {
	runs     int
	maxSteps int
	seed     int64
}

func (f *runFlags) register(flags *pflag.FlagSet) {
	flags.IntVar(&f.runs, "runs", 0, "Number of runs. 0 keeps the catalog default.")
	flags.IntVar(&f.maxSteps, "max-steps", 0, "Step limit per run. 0 keeps the catalog default.")
	flags.Int64Var(&f.seed, "seed", 0, "Seed the random walk for reproducible counters.")
}

// seedPtr returns nil unless --seed was given, so an unseeded run stays
// random.
func (f *runFlags) seedPtr(flags *pflag.FlagSet) *int64 {
	if !flags.Changed("seed") {
		return nil
	}
	seed := f.seed
	return &seed
}

func newListCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available examples",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withApp(func(a *app.App) error {
				return a.List(cmd.Context())
			})
		},
	}
}

func newPlanCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <example>",
		Short: "Show the spanning tree and the edges that need counters",
		Args:  exampleArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(func(a *app.App) error {
				return a.Plan(cmd.Context(), args[0])
			})
		},
	}
}

func newSimulateCommand(r *runner) *cobra.Command {
	var (
		rf       runFlags
		stepwise bool
		speed    float64
	)
	cmd := &cobra.Command{
		Use:   "simulate <example>",
		Short: "Walk the graph at random and count the instrumented edges",
		Args:  exampleArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.SimulateOptions{
				Runs:           rf.runs,
				MaxStepsPerRun: rf.maxSteps,
				Seed:           rf.seedPtr(cmd.Flags()),
				Stepwise:       stepwise,
				Speed:          speed,
			}
			return r.withApp(func(a *app.App) error {
				return a.Simulate(cmd.Context(), args[0], opts)
			})
		},
	}
	flags := cmd.Flags()
	rf.register(flags)
	flags.BoolVar(&stepwise, "stepwise", false, "Animate the runs one edge per tick instead of all at once.")
	flags.Float64Var(&speed, "speed", 0, "Stepwise speed multiplier between 0.25 and 3. 0 keeps the catalog default.")
	return cmd
}

func newReconstructCommand(r *runner) *cobra.Command {
	var (
		rf    runFlags
		known string
	)
	cmd := &cobra.Command{
		Use:   "reconstruct <example>",
		Short: "Recover every edge count from the instrumented counters",
		Long: `
Reconstruct solves the spanning tree edges one node at a time. Counters are
taken from --known, for example --known "entry=100 e5=41", or from a batch
simulation when --known is not given. "entry" and "exit" name the sentinel
edges.
`,
		Args: exampleArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.ReconstructOptions{
				Known:          known,
				Runs:           rf.runs,
				MaxStepsPerRun: rf.maxSteps,
				Seed:           rf.seedPtr(cmd.Flags()),
			}
			return r.withApp(func(a *app.App) error {
				return a.Reconstruct(cmd.Context(), args[0], opts)
			})
		},
	}
	flags := cmd.Flags()
	rf.register(flags)
	flags.StringVar(&known, "known", "", "Measured counters as edge=count pairs.")
	return cmd
}
