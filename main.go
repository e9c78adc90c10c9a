package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wordtap/annotate"
	"wordtap/dictionary"
	"wordtap/logger"
	"wordtap/metrics"
	"wordtap/profile"
	"wordtap/tokenize"
)

var version = "0.1.0"

// CLI holds the state shared by every subcommand.
type CLI struct {
	v          *viper.Viper
	configFile string
	profile    *profile.Profile
	logger     *slog.Logger
}

func newRootCommand() *cobra.Command {
	cli := &CLI{v: viper.New()}
	cmd := &cobra.Command{
		Use:           "wordtap",
		Short:         "Tappable word segmentation and vocabulary annotation for language learners",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.initialize(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cli.configFile, "config", "", "config file (yaml or json)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	_ = cli.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = cli.v.BindPFlag("log_format", flags.Lookup("log-format"))

	cmd.AddCommand(
		newTokenizeCommand(cli),
		newAnnotateCommand(cli),
		newServeCommand(cli),
		newWordsCommand(cli),
	)
	return cmd
}

func (c *CLI) initialize(cmd *cobra.Command) error {
	p, err := profile.Load(c.v, c.configFile)
	if err != nil {
		return errors.Wrap(err, "failed to load profile")
	}
	p.Version = version

	l, err := logger.New(cmd.ErrOrStderr(), p.LogLevel, p.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	c.profile = p
	c.logger = l
	return nil
}

// newAnnotator wires the segmenters for the configured cache size. The
// Japanese segmenter loads its dictionary up front, so it is only built when
// asked for.
func (c *CLI) newAnnotator(dict dictionary.Dictionary, m *metrics.Metrics, japanese bool) (*annotate.Annotator, error) {
	fallback, err := tokenize.NewCached(tokenize.Default, c.profile.CacheSize, m)
	if err != nil {
		return nil, err
	}
	opts := []annotate.Option{
		annotate.WithDefault(fallback),
		annotate.WithMetrics(m),
		annotate.WithLogger(c.logger),
	}
	if japanese {
		ja, err := tokenize.NewJapanese()
		if err != nil {
			return nil, err
		}
		cached, err := tokenize.NewCached(ja, c.profile.CacheSize, m)
		if err != nil {
			return nil, err
		}
		opts = append(opts, annotate.WithSegmenter("ja", cached))
	}
	return annotate.New(dict, opts...), nil
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "wordtap:", err)
		os.Exit(1)
	}
}
