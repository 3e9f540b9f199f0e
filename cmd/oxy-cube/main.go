package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// main is the entry point for the oxy-cube CLI. With no subcommand it opens a window and spins the cube.
// It exits the process with status 1 if command execution returns an error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:           "oxy-cube",
		Short:         "textured, lit, spinning cube on WebGPU",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCube(cmd, opts)
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return installLogger(cmd.ErrOrStderr(), opts.logLevel)
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open a window and render the cube",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCube(cmd, opts)
		},
	}
	registerRunFlags(rootCmd, opts)
	registerRunFlags(runCmd, opts)

	var frameTime, frameAspect float64
	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "print the transforms of one frame without a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return printFrame(cmd.OutOrStdout(), cfg, frameTime, float32(frameAspect))
		},
	}
	frameCmd.Flags().Float64Var(&frameTime, "time", 0, "animation time in seconds")
	frameCmd.Flags().Float64Var(&frameAspect, "aspect", 1, "viewport aspect ratio (width / height)")
	frameCmd.Flags().StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	frameCmd.Flags().BoolVar(&opts.normalizeAxis, "normalize-axis", false, "rotate around the unit-length spin axis")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			return writeDefaultConfig(cmd.OutOrStdout(), path)
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(runCmd, frameCmd, configCmd)
	return rootCmd
}

func registerRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "window width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "window height in pixels")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "frames per second, overrides the monitor refresh rate")
	cmd.Flags().StringVar(&opts.texture, "texture", "", "texture image (png, jpeg, bmp, tiff, webp)")
	cmd.Flags().IntVar(&opts.msaa, "msaa", 0, "MSAA sample count (1 or 4)")
	cmd.Flags().BoolVar(&opts.vsync, "vsync", true, "wait for vertical blank when presenting")
	cmd.Flags().BoolVar(&opts.measuredClock, "measured-clock", false, "advance time by measured wall-clock deltas")
	cmd.Flags().BoolVar(&opts.normalizeAxis, "normalize-axis", false, "rotate around the unit-length spin axis")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "log FPS and memory statistics every second")
}
