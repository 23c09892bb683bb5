package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/splice/pkg/language"
	"github.com/Sumatoshi-tech/splice/pkg/syntax"
)

// ErrLanguageRequired is returned when stdin is parsed without --language.
var ErrLanguageRequired = errors.New("--language is required when reading stdin")

const stdinArg = "-"

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	var lang, kind string

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the syntax tree of a file",
		Long: `Parse a file and print its syntax tree as an s-expression.

Handy for writing rule queries: the node kinds and field names printed
here are the ones a query matches on.

Examples:
  splice parse main.go                        # Whole tree
  splice parse -k call_expression main.go     # Only call expressions
  cat app.py | splice parse -l python -       # From stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], lang, kind)
		},
	}

	cmd.Flags().StringVarP(&lang, "language", "l", "", "force the language instead of detecting it")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "print only nodes of this kind")

	return cmd
}

func runParse(cmd *cobra.Command, path, langName, kind string) error {
	content, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	lang, err := resolveLanguage(path, langName, content)
	if err != nil {
		return err
	}

	tree, err := syntax.NewParser().Parse(cmd.Context(), lang.Grammar(), path, content)
	if err != nil {
		return err
	}
	defer tree.Close()

	out := cmd.OutOrStdout()

	if kind == "" {
		fmt.Fprintln(out, tree.Root().SExp())

		return nil
	}

	tree.Root().Walk(func(n *syntax.Node) bool {
		if n.Kind() == kind {
			pos := n.Range().Start
			fmt.Fprintf(out, "%s:%d:%d %s\n", path, pos.Line, pos.Column, n.SExp())
		}

		return true
	})

	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinArg {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return content, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return content, nil
}

func resolveLanguage(path, name string, content []byte) (*language.Language, error) {
	if name != "" {
		return language.Lookup(name)
	}

	if path == stdinArg {
		return nil, ErrLanguageRequired
	}

	return language.ForPath(path, content)
}
