package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/inodb/featgraph/internal/feature"
	"github.com/inodb/featgraph/internal/output"
)

// setting is a config file key and the normalization applied by config set.
type setting struct {
	key   string
	usage string
	parse func(string) (any, error)
}

var settings = []setting{
	{"log.level", "log level: debug, info, warn, error", parseLogLevel},
	{"input.format", "annotation format: gff3, gtf", parseInputFormat},
	{"output.format", "output format: " + strings.Join(output.Formats, ", "), parseOutputFormat},
	{"fasta", "reference FASTA used by seq", parsePath},
	{"flank.size", "window size used by flank", parseFlankSize},
	{"export.db", "DuckDB database used by export", parsePath},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

func settingsHelp() string {
	var b strings.Builder
	for _, s := range settings {
		fmt.Fprintf(&b, "  %-14s %s\n", s.key, s.usage)
	}
	return b.String()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage featgraph configuration",
		Long: "Show, get, or set configuration values. Config is stored in ~/.featgraph.yaml.\n\nKeys:\n" +
			settingsHelp(),
		Example: `  featgraph config                           # show effective config
  featgraph config set fasta /data/GRCh38.fa # default reference for seq
  featgraph config set flank.size 500        # default window size for flank
  featgraph config get output.format         # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Validate a value and store it in the config file.\n\nKeys:\n" + settingsHelp(),
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

// runConfigShow prints the effective value of every known key.
func runConfigShow(w io.Writer) error {
	values := make(map[string]any, len(settings))
	for _, s := range settings {
		values[s.key] = viper.Get(s.key)
	}

	out, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(w, "# No config file. Defaults are shown; set values go to ~/.featgraph.yaml")
	}
	fmt.Fprint(w, string(out))
	return nil
}

// runConfigSet writes key to the config file. Only the file's own contents
// and the new value are written; flag defaults stay out of it.
func runConfigSet(w io.Writer, key, value string) error {
	s, ok := lookupSetting(key)
	if !ok {
		return usageError{fmt.Errorf("unknown config key %q; known keys:\n%s", key, settingsHelp())}
	}
	v, err := s.parse(value)
	if err != nil {
		return usageError{fmt.Errorf("invalid value for %s: %w", key, err)}
	}

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".featgraph.yaml")
	}

	file := viper.New()
	file.SetConfigFile(cfgFile)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	file.Set(key, v)
	if err := file.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	viper.Set(key, v)

	fmt.Fprintf(w, "Set %s = %v in %s\n", key, v, cfgFile)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	if _, ok := lookupSetting(key); !ok {
		return usageError{fmt.Errorf("unknown config key %q", key)}
	}
	val := viper.Get(key)
	if val == nil || val == "" {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, val)
	return nil
}

func parseLogLevel(s string) (any, error) {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return nil, err
	}
	return lvl.String(), nil
}

func parseInputFormat(s string) (any, error) {
	if s == "" {
		return nil, errors.New("empty format")
	}
	d, err := feature.ParseDialect(s)
	if err != nil {
		return nil, err
	}
	return d.String(), nil
}

func parseOutputFormat(s string) (any, error) {
	if s == "" {
		return nil, errors.New("empty format")
	}
	if _, err := output.NewWriter(s, io.Discard); err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

// parsePath expands a leading ~/ and makes the path absolute.
func parsePath(s string) (any, error) {
	if s == "" {
		return nil, errors.New("empty path")
	}
	if rest, ok := strings.CutPrefix(s, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		s = filepath.Join(home, rest)
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return nil, err
	}
	return abs, nil
}

func parseFlankSize(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("size must be positive, got %d", n)
	}
	return n, nil
}
