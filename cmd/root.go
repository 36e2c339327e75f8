package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/lobster/config"
	"github.com/s0up4200/lobster/filter"
	"github.com/s0up4200/lobster/lob"
	"github.com/s0up4200/lobster/metrics"
	"github.com/s0up4200/lobster/output"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	client    *lob.Client
	renderer  *output.Renderer
	filters   *filter.Manager
	outFormat string
	assumeYes bool
)

// skipInit marks commands that run without configuration or an API key.
const skipInit = "lobster/skip-init"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lobster",
	Short: "A command line client for the Lob print and mail API",
	Long: `lobster manages Lob addresses, postcards, letters, checks and bank accounts,
verifies US and international addresses, and receives Lob webhooks.

Configuration is read from config.yaml in ., $HOME/.lobster or /etc/lobster,
and every key can be overridden with a LOBSTER_ environment variable, e.g.
LOBSTER_LOB_API_KEY.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "output", "o", "", "output format: console, json or yaml (overrides output.format)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "do not prompt for confirmation")
}

// initializeApp loads configuration and builds the client, renderer and filters
func initializeApp(cmd *cobra.Command, args []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipInit] == "true" {
			logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
			return nil
		}
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	format := cfg.Output.Format
	if cmd.Flags().Changed("output") {
		format = outFormat
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	renderer = output.New(f, cmd.OutOrStdout())

	client, err = newClient(cfg.Lob)
	if err != nil {
		return fmt.Errorf("failed to create Lob client: %w", err)
	}

	filters = filter.NewManager(filter.WithEvaluator(filter.NewConcurrentEvaluator(filter.WithLogger(logger))))
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

// newClient builds a Lob client whose requests are recorded by the metrics transport
func newClient(lc config.LobConfig) (*lob.Client, error) {
	prefix := ""
	if u, err := url.Parse(lc.BaseURL); err == nil {
		prefix = strings.TrimRight(u.Path, "/")
	}

	httpClient := &http.Client{
		Timeout:   lc.Timeout,
		Transport: metrics.NewTransport(http.DefaultTransport, prefix),
	}

	return lob.NewClient(lc.APIKey, logger,
		lob.WithBaseURL(lc.BaseURL),
		lob.WithAPIVersion(lc.APIVersion),
		lob.WithHTTPClient(httpClient),
		lob.WithUserAgent("lobster/"+version),
	)
}

// setupLogger configures the zerolog logger
func setupLogger(lc config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if lc.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !lc.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(writer).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// confirm asks a yes/no question on the terminal. Without a terminal the
// answer must be given up front with --yes.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !isTerminal(os.Stdin) {
		return false, fmt.Errorf("%s: refusing to continue without a terminal, pass --yes", question)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}
