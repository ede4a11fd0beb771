// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the image uploader.
// It logs in to the destination registry, mirrors every image listed in the
// job document, and logs out again.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lazycatapps/image-uploader/internal/models"
	apperrors "github.com/lazycatapps/image-uploader/internal/pkg/errors"
	"github.com/lazycatapps/image-uploader/internal/pkg/logger"
	"github.com/lazycatapps/image-uploader/internal/pkg/progress"
	"github.com/lazycatapps/image-uploader/internal/pkg/validator"
	"github.com/lazycatapps/image-uploader/internal/registry"
	"github.com/lazycatapps/image-uploader/internal/repository"
	"github.com/lazycatapps/image-uploader/internal/service"
	"github.com/lazycatapps/image-uploader/internal/types"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// errReported marks an error that has already been written to stderr.
var errReported = errors.New("error already reported")

// rootCmd is the root command for the CLI application.
var rootCmd = &cobra.Command{
	Use:   "image-uploader [flags] <username> <password> <registry_url>",
	Short: "Image Uploader - mirror container images into a registry",
	Long: `Logs in to <registry_url>, then pulls, tags and pushes every source/target
pair listed in the job document (images.json by default), and logs out.

Flags must come before <username>; everything from the first positional
argument on is taken as-is, so a password may start with "-".`,
	Args:          cobra.MatchAll(cobra.ExactArgs(3), validateArgs),
	RunE:          runUpload,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// init initializes command-line flags and environment variable bindings.
// It sets up the following configuration options:
//   - --config: Job document path (default: images.json)
//   - --client: docker, podman, nerdctl or registry (default: docker)
//   - --insecure: Allow plain HTTP registries with the registry client
//   - --timeout: Per-call timeout in seconds, 0 for none (default: 0)
//   - --continue-on-error: Attempt every entry even after a failure
//   - --log-level: Diagnostic log level (default: warn)
//
// Environment variables are supported with SYNC_ prefix and underscores replacing hyphens.
// For example: SYNC_CONTINUE_ON_ERROR for --continue-on-error.
func init() {
	rootCmd.Flags().StringP("config", "c", service.DefaultJobFile, "Job document listing source/target image pairs")
	rootCmd.Flags().String("client", "docker", "Registry client: docker, podman, nerdctl or registry")
	rootCmd.Flags().Bool("insecure", false, "Allow plain HTTP registries (registry client only)")
	rootCmd.Flags().IntP("timeout", "t", 0, "Per-operation timeout in seconds (0 = no timeout)")
	rootCmd.Flags().Bool("continue-on-error", false, "Keep syncing remaining images after a failure")
	rootCmd.Flags().String("log-level", "warn", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.InitDefaultHelpFlag()

	viper.BindPFlags(rootCmd.Flags())

	// Set environment variable prefix to "SYNC"
	viper.SetEnvPrefix("SYNC")
	viper.AutomaticEnv()
	// Replace hyphens with underscores in environment variable names
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// validateArgs rejects empty positional arguments. Messages never echo the password.
func validateArgs(cmd *cobra.Command, args []string) error {
	if err := validator.ValidateCredentials(args[0], args[1]); err != nil {
		return apperrors.Wrap(apperrors.KindArgument, err, "invalid arguments")
	}
	if err := validator.ValidateRegistry(args[2]); err != nil {
		return apperrors.Wrap(apperrors.KindArgument, err, "invalid arguments")
	}
	return nil
}

// runUpload is the main execution function.
// It performs the following steps:
//  1. Loads configuration from command-line flags and environment variables
//  2. Initializes logger and progress reporter (with secret redaction)
//  3. Creates the registry client (container CLI or registry API)
//  4. Loads and validates the job, then syncs it inside a registry session
//  5. Reports the outcome; any failure yields a non-zero exit status
func runUpload(cmd *cobra.Command, args []string) error {
	creds := models.Credentials{
		Username: args[0],
		Secret:   models.Secret(args[1]),
		Registry: args[2],
	}

	cfg := &types.Config{
		Registry: types.RegistryConfig{
			URL:      creds.Registry,
			Username: creds.Username,
		},
		Sync: types.SyncConfig{
			ConfigFile:      viper.GetString("config"),
			ContinueOnError: viper.GetBool("continue-on-error"),
			Timeout:         viper.GetInt("timeout"),
		},
		Client: types.ClientConfig{
			Kind:     viper.GetString("client"),
			Insecure: viper.GetBool("insecure"),
		},
		Log: types.LogConfig{
			Level: viper.GetString("log-level"),
		},
	}

	// Initialize logger and reporter
	log := logger.NewWithOptions(cmd.ErrOrStderr(), cfg.Log.Level, logger.WithRedactor(creds.Redact))
	reporter := progress.NewWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr()).WithRedactor(creds.Redact)

	if err := cfg.Validate(registry.SupportedRuntimes); err != nil {
		reporter.Error(apperrors.Wrap(apperrors.KindArgument, err, "invalid configuration"))
		return errReported
	}

	log.Debug("Registry: %s", cfg.Registry.URL)
	log.Debug("  Username: %s", cfg.Registry.Username)
	log.Debug("  Password: %s", creds.Secret)
	log.Debug("Client: %s (timeout: %ds, continue-on-error: %v)", cfg.Client.Kind, cfg.Sync.Timeout, cfg.Sync.ContinueOnError)

	// Initialize registry client
	client := newRegistryClient(cfg, log)

	// Initialize services
	outcomeRepo := repository.NewInMemoryOutcomeRepository()
	loader := service.NewJobLoader(log)
	session := service.NewSession(client, reporter, log)
	runner := service.NewSyncRunner(client, outcomeRepo, reporter, log, cfg.Sync.ContinueOnError)
	mirror := service.NewMirrorService(loader, session, runner, reporter, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := mirror.Execute(ctx, creds, cfg.Sync.ConfigFile); err != nil {
		reporter.Error(err)
		return errReported
	}
	return nil
}

// newRegistryClient builds the client selected by cfg.Client.Kind.
var newRegistryClient = func(cfg *types.Config, log logger.Logger) registry.Client {
	if cfg.Client.Kind == types.ClientRegistry {
		return registry.NewRemoteClient(log,
			registry.WithInsecure(cfg.Client.Insecure),
			registry.WithCallTimeout(cfg.Sync.CallTimeout()),
		)
	}
	return registry.NewCLIClient(cfg.Client.Kind, registry.ExecRunner{}, log, cfg.Sync.CallTimeout())
}

// execute runs the root command and returns the process exit code.
// A panic is reported like any other error and exits 1.
func execute(ctx context.Context, args []string) (code int) {
	errOut := rootCmd.ErrOrStderr()
	redact := argvRedactor(rootCmd.Flags(), args)

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(errOut, redact(fmt.Sprintf("💥 Error: unexpected failure: %v", r)))
			code = 1
		}
	}()

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Anything not yet reported is a usage problem.
		if !errors.Is(err, errReported) {
			fmt.Fprintln(errOut, redact(fmt.Sprintf("💥 Error: %v", err)))
			fmt.Fprintln(errOut, rootCmd.UsageString())
		}
		return 1
	}
	return 0
}

// argvRedactor masks the argv tokens that may hold the password: the second
// positional argument and any dash-prefixed token that is not a known flag.
func argvRedactor(flags *pflag.FlagSet, args []string) func(string) string {
	var secrets, positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case len(positionals) > 0 || arg == "-" || !strings.HasPrefix(arg, "-"):
			positionals = append(positionals, arg)
			continue
		case arg == "--":
			positionals = append(positionals, args[i+1:]...)
			i = len(args)
			continue
		}

		f, inline := lookupFlag(flags, arg)
		if f == nil {
			secrets = append(secrets, arg)
			continue
		}
		if f.NoOptDefVal == "" && !inline {
			i++
		}
	}
	if len(positionals) > 1 {
		secrets = append(secrets, positionals[1])
	}

	return func(text string) string {
		for _, secret := range secrets {
			text = models.Credentials{Secret: models.Secret(secret)}.Redact(text)
		}
		return text
	}
}

// lookupFlag resolves "--name[=v]" or "-x[v]" and reports whether the value is inline.
func lookupFlag(flags *pflag.FlagSet, arg string) (*pflag.Flag, bool) {
	if long, ok := strings.CutPrefix(arg, "--"); ok {
		name, _, inline := strings.Cut(long, "=")
		return flags.Lookup(name), inline
	}
	return flags.ShorthandLookup(arg[1:2]), len(arg) > 2
}

// main is the application entry point.
func main() {
	os.Exit(execute(context.Background(), os.Args[1:]))
}
