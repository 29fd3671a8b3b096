package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	ticks   int
	dt      float64
	speed   float64
	plot    string
	watch   bool
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "physim",
		Short:         "run physync scenes headless",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print simulation logs")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "step a scene and print where every body ended up",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 600, "number of steps, 0 runs until interrupted with --watch")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep, defaults to the scene's time_step")
	runCmd.Flags().Float64Var(&speed, "speed", -1, "time scale, defaults to the scene's speed")
	runCmd.Flags().StringVar(&plot, "plot", "", "entity whose horizontal speed is plotted")
	runCmd.Flags().BoolVar(&watch, "watch", false, "run in real time and reload the scene and its scripts on change")

	validateCmd := &cobra.Command{
		Use:   "validate [scene]",
		Short: "check that every entity in a scene gets a body",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateScene,
	}

	shapesCmd := &cobra.Command{
		Use:   "shapes [scene]",
		Short: "list the shapes a scene registers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listShapes,
	}

	rootCmd.AddCommand(runCmd, validateCmd, shapesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
