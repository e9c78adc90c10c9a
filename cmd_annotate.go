package main

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"wordtap/annotate"
	"wordtap/dictionary"
	"wordtap/ingest"
	"wordtap/logger"
	"wordtap/tokenize"
)

func newTokenizeCommand(cli *CLI) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Print the segments of a text as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var seg tokenize.Segmenter = tokenize.Default
			if ingest.NormalizeLanguage(lang) == "ja" {
				ja, err := tokenize.NewJapanese()
				if err != nil {
					return err
				}
				seg = ja
			}
			return writeJSON(cmd.OutOrStdout(), seg.Segment(strings.Join(args, " ")))
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "language of the text; ja selects the Japanese segmenter")
	return cmd
}

func newAnnotateCommand(cli *CLI) *cobra.Command {
	var (
		dictFile string
		lang     string
		source   string
		stdin    bool
		dumpDir  string
	)
	cmd := &cobra.Command{
		Use:   "annotate [text...]",
		Short: "Segment texts and resolve every word against a dictionary file",
		Long: `Annotate the arguments as one passage, or with --stdin every non-blank
input line as its own passage. Lines are annotated concurrently, bounded by
the configured worker count, and printed in input order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			texts := []string{strings.Join(args, " ")}
			if stdin {
				var err error
				if texts, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			} else if len(args) == 0 {
				return errors.New("nothing to annotate: pass text or --stdin")
			}

			passages := make([]ingest.Passage, 0, len(texts))
			for _, t := range texts {
				p, err := ingest.NewPassage(t, source, lang)
				if err != nil {
					return err
				}
				passages = append(passages, p)
			}

			if dictFile == "" {
				dictFile = cli.profile.DictionaryFile
			}
			var dict dictionary.Dictionary
			if dictFile != "" {
				words, err := dictionary.Load(dictFile)
				if err != nil {
					return err
				}
				dict = dictionary.NewMapping(words)
			}

			a, err := cli.newAnnotator(dict, nil, ingest.NormalizeLanguage(lang) == "ja")
			if err != nil {
				return err
			}
			out, err := a.Batch(ctx, passages, cli.profile.Workers)
			if err != nil {
				return err
			}
			if dumpDir != "" {
				if err := dump(dumpDir, out); err != nil {
					return err
				}
				cli.logger.Info("dumped annotations", slog.String("dir", dumpDir), slog.Int("count", len(out)))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&dictFile, "dict", "", "YAML or JSON word list (defaults to dictionary_file from the config)")
	flags.StringVar(&lang, "lang", "", "language of the passages")
	flags.StringVar(&source, "source", "reading", "passage source: chat or reading")
	flags.BoolVar(&stdin, "stdin", false, "annotate each line of stdin")
	flags.StringVar(&dumpDir, "dump", "", "also write each annotation to <dir>/<passage id>.json")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			lines = append(lines, sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read stdin")
	}
	if len(lines) == 0 {
		return nil, ingest.ErrEmptyText
	}
	return lines, nil
}

// dump clears dir of earlier results and writes one file per passage.
func dump(dir string, annotations []*annotate.Annotation) error {
	if err := logger.InitDumps(dir); err != nil {
		return err
	}
	for _, ann := range annotations {
		if err := logger.DumpJSON(dir, ann.Passage.ID, ann); err != nil {
			return errors.Wrapf(err, "dump passage %s", ann.Passage.ID)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
