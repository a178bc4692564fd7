package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// SetVersion sets the version information reported by --version.
func SetVersion(v, c, b string) {
	version, commit, buildDate = v, c, b
}

// app carries the configuration and output streams of one invocation.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer

	cfgFile string

	successColor *color.Color
	errorColor   *color.Color
	infoColor    *color.Color
	warnColor    *color.Color
}

// NewRootCmd builds the command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:            viper.New(),
		out:          out,
		errOut:       errOut,
		successColor: color.New(color.FgGreen, color.Bold),
		errorColor:   color.New(color.FgRed, color.Bold),
		infoColor:    color.New(color.FgCyan),
		warnColor:    color.New(color.FgYellow),
	}

	root := &cobra.Command{
		Use:   "skema",
		Short: "skema - validate data with declarative schemas",
		Long: `skema validates JSON, YAML and dotenv data against JSON Schema or
OpenAPI v3 schemas, reporting every failed check with its path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./skema.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	root.PersistentFlags().Bool("no-color", false, "disable colored output")
	root.PersistentFlags().String("lang", "en", "message language (en, ja)")
	root.PersistentFlags().Bool("json", false, "print machine-readable JSON")

	for _, name := range []string{"verbose", "no-color", "lang", "json"} {
		_ = a.v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	root.AddCommand(
		newValidateCmd(a),
		newEnvCmd(a),
		newJSONSchemaCmd(a),
	)
	return root
}

// Execute runs the CLI against the process streams.
func Execute() error {
	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("✗ "+err.Error()))
		return err
	}
	return nil
}

// initConfig reads the config file and SKEMA_* environment variables.
func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName("skema")
	}
	a.v.SetEnvPrefix("SKEMA")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if a.v.GetBool("no-color") {
		for _, c := range []*color.Color{a.successColor, a.errorColor, a.infoColor, a.warnColor} {
			c.DisableColor()
		}
	}
	i18n.SetLanguage(a.v.GetString("lang"))
	if a.v.GetBool("verbose") {
		skema.SetLogger(skema.NewSlogAdapter(slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))))
		if used := a.v.ConfigFileUsed(); used != "" {
			a.info("Using config file: %s", used)
		}
	} else {
		skema.SetLogger(skema.NopLogger{})
	}
	return nil
}

func (a *app) jsonOutput() bool { return a.v.GetBool("json") }

func (a *app) success(format string, args ...any) {
	fmt.Fprintln(a.out, a.successColor.Sprintf("✓ "+format, args...))
}

func (a *app) fail(format string, args ...any) {
	fmt.Fprintln(a.out, a.errorColor.Sprintf("✗ "+format, args...))
}

func (a *app) info(format string, args ...any) {
	fmt.Fprintln(a.errOut, a.infoColor.Sprintf("ℹ "+format, args...))
}

func (a *app) warn(format string, args ...any) {
	fmt.Fprintln(a.errOut, a.warnColor.Sprintf("⚠ "+format, args...))
}
