package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"wordtap/dictionary"
	"wordtap/model"
	"wordtap/store"
)

func newWordsCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the vocabulary store",
	}
	cmd.AddCommand(newWordsImportCommand(cli), newWordsListCommand(cli))
	return cmd
}

func newWordsImportCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Upsert every word of a YAML or JSON word list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := dictionary.Load(args[0])
			if err != nil {
				return err
			}
			st, err := cli.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Seed(cmd.Context(), words)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d words\n", n)
			return nil
		},
	}
}

func newWordsListCommand(cli *CLI) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print stored words as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := cli.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer st.Close()

			if offset < 0 {
				return errors.New("--offset must not be negative")
			}
			find := &store.FindWord{}
			if limit > 0 {
				find.Limit = &limit
			}
			if offset > 0 {
				find.Offset = &offset
			}
			list, err := st.ListWords(cmd.Context(), find)
			if err != nil {
				return err
			}
			out := make([]model.DictionaryWord, 0, len(list))
			for _, w := range list {
				out = append(out, w.ToDictionaryWord())
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of words (0 lists all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of words to skip")
	return cmd
}
