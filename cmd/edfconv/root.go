package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"edfconv/internal/logging"
	"edfconv/internal/pipeline"
	"edfconv/internal/services"
)

const usageLine = "edfconv --edf_path <path_to_edf_file> --edf_annotation_path <path_to_edf_annotation_file> --output_path <path_to_output>"

type conversionFlags struct {
	outputPath     string
	edfPath        string
	annotationPath string
}

func newRootCommand() *cobra.Command {
	cmd, _ := buildRootCommand()
	return cmd
}

func buildRootCommand() (*cobra.Command, *commandContext) {
	var configFlag string
	var logLevelFlag string
	var flags conversionFlags

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   usageLine,
		Short: "Convert an EDF recording and its annotations to a TFRecord tf.Example",
		Long: "edfconv reads one EDF/EDF+ EEG recording and its annotation file and writes\n" +
			"exactly one tensorflow.Example, framed as a TFRecord, to --output_path.\n" +
			"When --output_path is a directory the record is named after the EDF file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			// A root invocation without --edf_path only prints usage.
			if cmd == cmd.Root() && strings.TrimSpace(flags.edfPath) == "" {
				return nil
			}
			_, err := ctx.ensureLogger(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, ctx, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.outputPath, "output_path", ".", "Location (path) to save output tf Records file")
	rootCmd.Flags().StringVar(&flags.edfPath, "edf_path", "", "Path to EDF file")
	rootCmd.Flags().StringVar(&flags.annotationPath, "edf_annotation_path", "", "Path to EDF annotation file (default: sibling file with the configured annotation extension)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return services.Wrap(services.ErrArgument, "arguments", "parse", "", err)
	})

	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd, ctx
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return services.Wrap(services.ErrArgument, "arguments", "parse", "", err)
	}
	return nil
}

func runConversion(cmd *cobra.Command, ctx *commandContext, flags conversionFlags) error {
	if strings.TrimSpace(flags.edfPath) == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Usage: %s\n", usageLine)
		return nil
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger(cmd)
	if err != nil {
		return err
	}

	opts := pipeline.OptionsFromConfig(cfg)
	opts.EDFPath = flags.edfPath
	opts.AnnotationPath = flags.annotationPath
	opts.OutputPath = flags.outputPath

	logger.Debug("configuration resolved",
		logging.String("config_path", ctx.configPath),
		logging.String("scheme", opts.Scheme),
		logging.Bool("overwrite", opts.Overwrite),
	)

	_, err = pipeline.Default(opts, logger).Run(cmd.Context(), opts)
	return err
}
