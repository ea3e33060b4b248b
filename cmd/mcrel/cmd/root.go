package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/materials-commons/mcrel/pkg/clog"
	"github.com/materials-commons/mcrel/pkg/config"
	"github.com/materials-commons/mcrel/pkg/kinds"
	"github.com/materials-commons/mcrel/pkg/model"
	"github.com/materials-commons/mcrel/pkg/router"
	"github.com/materials-commons/mcrel/pkg/transport"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	baseURL string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcrel",
	Short: "Load and save posts through the mcrel model layer",
	Long: `Load and save posts, comments and users from an mcreld server. Related
models are materialized and loaded the same way an application using the
model package would see them.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mcrel.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "mcreld base url, overrides MCREL_BASE_URL")
}

// env holds what every subcommand needs to talk to the server.
type env struct {
	client  *model.Client
	history *router.History
	out     io.Writer
}

func newEnv(cmd *cobra.Command) (*env, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	if err := clog.SetLevels(settings.LogLevels); err != nil {
		return nil, err
	}

	if baseURL != "" {
		settings.BaseURL = baseURL
	}

	history := router.NewHistory()
	client := model.NewClient(kinds.NewRegistry(),
		transport.NewRestyTransportFromSettings(settings),
		model.WithRouter(history),
		model.WithMaxConcurrentLoads(settings.MaxConcurrentLoads),
		model.WithLogger(clog.UsingCtx(clog.ModelCtx)))

	return &env{client: client, history: history, out: cmd.OutOrStdout()}, nil
}

// loadSettings reads --config, or $HOME/.mcrel.yaml when it exists.
// MCREL_* environment variables override file values.
func loadSettings() (config.Settings, error) {
	path := cfgFile
	if path == "" {
		home, err := homedir.Dir()
		if err == nil {
			if p := filepath.Join(home, ".mcrel.yaml"); fileExists(p) {
				path = p
			}
		}
	}

	config.SetConfig(config.NewViperConfig(path))
	if err := config.Load(); err != nil {
		return config.Settings{}, fmt.Errorf("unable to read config %s: %w", path, err)
	}

	return config.GetSettings(), nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseAssignments turns ["a=1", "b=x"] into attributes. Values are kept as strings.
func parseAssignments(assignments []string) (model.Attrs, error) {
	attrs := make(model.Attrs, len(assignments))
	for _, a := range assignments {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", a)
		}
		attrs[k] = v
	}
	return attrs, nil
}

func toStringMap(attrs model.Attrs) map[string]string {
	m := make(map[string]string, len(attrs))
	for k, v := range attrs {
		m[k] = fmt.Sprint(v)
	}
	return m
}
