package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/sbc/config"
	"github.com/s0up4200/sbc/scrapbox"
)

// skipClientAnnotation marks commands that run without a Scrapbox client
const skipClientAnnotation = "sbc/skip-client"

// errNoCommand is returned when sbc runs without a subcommand; usage has
// already been printed.
var errNoCommand = errors.New("no command given")

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *scrapbox.Client

	// Global flags
	connectSID     string
	connectSIDFile string
	logLevel       string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sbc",
	Short: "Scrapbox API client CLI",
	Long: `Scrapbox API client CLI.

sbc lists and reads pages of a Scrapbox project and downloads file
attachments, including images hosted on Gyazo. Private projects need the
connect.sid session cookie, passed with --connect-sid, read from a file
with --connect-sid-file, taken from SBC_CONNECT_SID or read from
~/.config/sbc/connect.sid.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Usage()
		return errNoCommand
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// A nil slice makes cobra fall back to os.Args
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	closeClient()

	if err != nil {
		if !errors.Is(err, errNoCommand) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.config/sbc/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&connectSID, "connect-sid", "", "connect.sid session cookie for private projects")
	rootCmd.PersistentFlags().StringVar(&connectSIDFile, "connect-sid-file", "", "file containing the connect.sid session cookie")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.MarkFlagsMutuallyExclusive("connect-sid", "connect-sid-file")

	rootCmd.SetUsageTemplate(strings.Replace(rootCmd.UsageTemplate(), "Usage:", "usage:", 1))
}

// initializeApp initializes the configuration, logger and client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override log level from command line if specified
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(logLevel)
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if cmd.Annotations[skipClientAnnotation] == "true" {
		return nil
	}

	sid, err := config.ResolveConnectSID(connectSID, connectSIDFile, cfg.Auth)
	if err != nil {
		return err
	}
	logger.Debug().Bool("authenticated", sid != "").Str("base_url", cfg.Scrapbox.BaseURL).Msg("Creating Scrapbox client")

	// Create Scrapbox client
	closeClient()
	client, err = scrapbox.NewClient(sid, logger,
		scrapbox.WithBaseURL(cfg.Scrapbox.BaseURL),
		scrapbox.WithGyazoURL(cfg.Gyazo.BaseURL),
		scrapbox.WithGyazoAPIURL(cfg.Gyazo.APIURL),
		scrapbox.WithTimeout(cfg.HTTP.Timeout),
		scrapbox.WithUserAgent(cfg.HTTP.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to create Scrapbox client: %w", err)
	}

	return nil
}

func closeClient() {
	if client != nil {
		client.Close()
		client = nil
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
