package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qmechsim/qsystem"
	"qmechsim/report"
)

// cliOptions holds the flags shared by every command.
type cliOptions struct {
	configPath    string
	qubits        int
	classicalBits int
	verbose       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "qmechsim",
		Short: "Noiseless state-vector simulator for a small qubit register",
		Long: `qmechsim keeps the exact joint state of n qubits as one 2^n complex
vector and applies X, Y, Z and H gates by embedding them into the full space.

Run without a subcommand to open the interactive register explorer.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			m, err := initialModel(cfg)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.IntVarP(&opts.qubits, "qubits", "n", DefaultConfig().Qubits, "number of qubits")
	flags.IntVarP(&opts.classicalBits, "cbits", "b", DefaultConfig().ClassicalBits, "number of classical bits")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "emit diagnostics at every mutating call")

	root.AddCommand(newStateCmd(opts))
	return root
}

// newStateCmd builds the register, applies --apply in order and prints the
// report.
func newStateCmd(opts *cliOptions) *cobra.Command {
	var apply []string

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Apply gates non-interactively and print the resulting state",
		Example: `  qmechsim state --qubits 3 --apply h:0
  qmechsim state -c register.yaml --apply x:1,h:2 --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			logger := zap.NewNop()
			if cfg.Verbose {
				if logger, err = zap.NewDevelopment(); err != nil {
					return errors.Wrap(err, "create logger")
				}
				defer func() { _ = logger.Sync() }()
			}

			sys, err := cfg.NewSystem(logger)
			if err != nil {
				return err
			}
			for _, spec := range apply {
				gate, qn, err := parseGateSpec(spec)
				if err != nil {
					return err
				}
				if err := sys.Apply(gate, qn); err != nil {
					return err
				}
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), report.Render(sys.Snapshot()))
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&apply, "apply", "a", nil, "gates to apply in order, as gate:qubit (e.g. h:0,x:2)")
	return cmd
}

// resolve merges the config file with the flags set on the command line.
func (o *cliOptions) resolve(cmd *cobra.Command) (Config, error) {
	cfg := DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = LoadConfig(o.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("qubits") {
		cfg.Qubits = o.qubits
		if len(cfg.InitialStates) != cfg.Qubits {
			cfg.InitialStates = nil
		}
	}
	if flags.Changed("cbits") {
		cfg.ClassicalBits = o.classicalBits
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	return cfg, cfg.Validate()
}

// parseGateSpec parses "gate:qubit", e.g. "h:0".
func parseGateSpec(spec string) (qsystem.Gate, int, error) {
	name, idx, ok := strings.Cut(spec, ":")
	if !ok {
		return qsystem.Gate{}, 0, errors.Errorf("gate %q: want gate:qubit", spec)
	}
	gate, ok := qsystem.GateByName(name)
	if !ok {
		return qsystem.Gate{}, 0, errors.Errorf("gate %q: unknown gate %q", spec, name)
	}
	qn, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil {
		return qsystem.Gate{}, 0, errors.Wrapf(err, "gate %q: bad qubit index", spec)
	}
	return gate, qn, nil
}
