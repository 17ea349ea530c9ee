package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jdlms/aws-tui/internal/app"
	"github.com/jdlms/aws-tui/internal/aws"
	"github.com/jdlms/aws-tui/internal/config"
	"github.com/jdlms/aws-tui/internal/logging"
)

type rootOptions struct {
	configPath string
	profile    string
	region     string
	pageSize   int
	logFile    string
	logLevel   string
}

var opts rootOptions

var rootCmd = &cobra.Command{
	Use:          "aws-tui",
	Short:        "Terminal browser for EC2, S3 and Cost Explorer",
	Long:         "A terminal user interface for browsing EC2 instances, S3 buckets and AWS costs",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/aws-tui/config.yaml)")
	flags.StringVar(&opts.profile, "profile", "", "AWS shared config profile")
	flags.StringVar(&opts.region, "region", "", "AWS region")
	flags.IntVar(&opts.pageSize, "page-size", 0, "items per page")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (default $XDG_STATE_HOME/aws-tui/aws-tui.log)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// startup holds what every command needs once flags are parsed
type startup struct {
	settings   config.Settings
	file       config.Config
	configPath string
	log        zerolog.Logger
	closer     io.Closer
}

func (r *startup) Close() {
	if r.closer != nil {
		_ = r.closer.Close()
	}
}

// setup loads the settings file, layers environment and flags over it and
// opens the log file
func setup(cmd *cobra.Command) (*startup, error) {
	path := opts.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	file, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	settings := config.Resolve(os.Getenv, file)

	flags := cmd.Flags()
	if flags.Changed("profile") {
		settings.Profile = opts.profile
	}
	if flags.Changed("region") {
		settings.Region = opts.region
	}
	if flags.Changed("page-size") {
		settings.PageSize = opts.pageSize
	}
	if err := settings.File().Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid flags")
	}

	logPath := opts.logFile
	if logPath == "" {
		p, err := logging.DefaultPath()
		if err != nil {
			return nil, err
		}
		logPath = p
	}
	log, closer, err := logging.Open(logPath, opts.logLevel)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("config", path).
		Str("profile", settings.Profile).
		Str("region", settings.Region).
		Int("pageSize", settings.PageSize).
		Msg("settings resolved")
	return &startup{settings: settings, file: file, configPath: path, log: log, closer: closer}, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	provider := aws.NewProvider(rt.log)
	client, err := provider.Client(ctx, rt.settings.Profile, rt.settings.Region)
	if err != nil {
		rt.log.Error().Err(err).Msg("unable to create AWS client")
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		rt.log.Warn().Err(err).Msg("no home directory; downloads resolve ~ to the working directory")
		home = "."
	}

	a := app.CreateApp(app.Options{
		Context:    ctx,
		Backend:    client,
		Factory:    app.ProviderFactory(provider),
		Settings:   rt.settings,
		File:       rt.file,
		ConfigPath: rt.configPath,
		Logger:     rt.log,
		Home:       home,
	})
	return a.Run(ctx)
}

// newClient builds a client for the one-shot commands
func newClient(ctx context.Context, rt *startup) (*aws.Client, error) {
	return aws.NewClient(ctx, rt.settings.Profile, rt.settings.Region, rt.log)
}
