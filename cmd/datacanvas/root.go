package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/datacanvas/datacanvas-go"
	"github.com/datacanvas/datacanvas-go/internal/config"
	"github.com/datacanvas/datacanvas-go/internal/logging"
	"github.com/datacanvas/datacanvas-go/internal/version"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	baseURL    string
	projectID  int
	timeout    time.Duration
	logLevel   string
	output     string
	verbose    bool
}

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"api_url":       "base-url",
	"project_id":    "project-id",
	"timeout":       "timeout",
	"logging.level": "log-level",
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "datacanvas",
		Short: "DataCanvas command-line client",
		Long: `A command-line client for the DataCanvas access-key API.

Lists the devices of a project and reads datatable records. Access keys are
read from the config file or from DATACANVAS_CLIENT_KEY, DATACANVAS_SECRET_KEY
and DATACANVAS_PROJECT_ID.`,
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Disable automatic completion command generation
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	f.StringVar(&opts.baseURL, "base-url", "", "API base URL (default "+datacanvas.DefaultBaseURL+")")
	f.IntVar(&opts.projectID, "project-id", 0, "Project id")
	f.DurationVar(&opts.timeout, "timeout", 0, "Request timeout (default 30s)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when unset")
	f.StringVarP(&opts.output, "output", "o", formatTable, "Output format (table, json, yaml)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every HTTP round trip")

	cmd.AddCommand(newDevicesCmd(opts))
	cmd.AddCommand(newDataCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "datacanvas %s (commit: %s)\n", version.Version, version.Commit)
		},
	}
}

// session is the client and output of one command run.
type session struct {
	client  datacanvas.API
	logger  *zap.Logger
	printer *printer
}

// open loads the configuration and builds the client for cmd.
func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	p, err := newPrinter(o.output, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	v := config.New()
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	cfg, err := config.Load(v, o.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if o.verbose && level == "" {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{Level: level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, err
	}

	clientOpts := []datacanvas.Option{
		datacanvas.WithLogger(logger),
		datacanvas.WithDataDefaults(cfg.DataDefaults()),
		datacanvas.WithUserAgent("datacanvas-cli/" + version.Version),
	}
	if cfg.Origin != "" {
		clientOpts = append(clientOpts, datacanvas.WithOrigin(cfg.Origin))
	}
	if cfg.InsecureHTTP {
		clientOpts = append(clientOpts, datacanvas.WithInsecureHTTP())
	}
	if o.verbose {
		secret := cfg.SecretKey
		clientOpts = append(clientOpts, datacanvas.WithHTTPClient(&http.Client{
			Timeout: cfg.Timeout,
			Transport: &datacanvas.LoggingTransport{
				Logger: logger,
				Redact: func(s string) string { return strings.ReplaceAll(s, secret, "***") },
			},
		}))
	}

	client, err := datacanvas.NewClient(cfg.ClientConfig(), clientOpts...)
	if err != nil {
		return nil, err
	}

	logger.Debug("client_ready",
		zap.String("base_url", client.BaseURL()),
		zap.Int("project_id", client.ProjectID()),
	)
	return &session{client: client, logger: logger, printer: p}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
