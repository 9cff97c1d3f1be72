// Command flipsolve drives one flip-graph solver run against a wire file:
// load a decomposition, run the engine to a termination code, write the
// result back.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jakobmoosbauer/symmetric-flips/engine"
	"github.com/jakobmoosbauer/symmetric-flips/wire"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("flipsolve failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flipsolve",
		Short: "Run the flip-graph matrix-multiplication search engine against a wire file",
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		campaignPath string
		presetName   string
		targetOverride int
		flipLimitOverride uint64
		debugInvariants bool
	)

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Load a decomposition, search it, write the result back to the same file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			decomposition, err := wire.Load(path)
			if err != nil {
				return fmt.Errorf("flipsolve run: %w", err)
			}
			params := decomposition.ToParams()

			if campaignPath != "" {
				if presetName == "" {
					return fmt.Errorf("flipsolve run: --campaign requires --preset")
				}
				params, err = wire.LoadCampaign(campaignPath, presetName)
				if err != nil {
					return fmt.Errorf("flipsolve run: %w", err)
				}
			}
			if cmd.Flags().Changed("target") {
				params.Target = targetOverride
			}
			if cmd.Flags().Changed("flip-limit") {
				params.FlipLimit = flipLimitOverride
			}

			state, err := engine.NewState(decomposition.Terms, params)
			if err != nil {
				return fmt.Errorf("flipsolve run: %w", err)
			}

			log.WithFields(logrus.Fields{
				"path":     path,
				"nomuls":   len(decomposition.Terms),
				"target":   params.Target,
				"symmetry": params.Symmetry,
			}).Info("starting run")

			checkpointFn := func(s *engine.State) error {
				log.WithFields(logrus.Fields{
					"flips":    s.Flips(),
					"achieved": s.Achieved(),
				}).Info("writing checkpoint")
				return wire.Save(path, wire.FromState(s, true))
			}

			if err := state.Run(checkpointFn, debugInvariants); err != nil {
				return fmt.Errorf("flipsolve run: %w", err)
			}

			log.WithFields(logrus.Fields{
				"flips":    state.Flips(),
				"achieved": state.Achieved(),
				"minmuls":  state.Minmuls(),
				"rcode":    state.Rcode(),
			}).Info("run finished")

			if err := wire.Save(path, wire.FromState(state, false)); err != nil {
				return fmt.Errorf("flipsolve run: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignPath, "campaign", "", "YAML file of named parameter presets")
	cmd.Flags().StringVar(&presetName, "preset", "", "preset name within --campaign")
	cmd.Flags().IntVar(&targetOverride, "target", 0, "override the wire file's target rank")
	cmd.Flags().Uint64Var(&flipLimitOverride, "flip-limit", 0, "override the wire file's flip budget")
	cmd.Flags().BoolVar(&debugInvariants, "debug-invariants", false, "check index/array invariants after every transition (slow)")
	return cmd
}
