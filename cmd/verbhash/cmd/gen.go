package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/corey/verbhash/internal/domain/codegen"
	"github.com/spf13/cobra"
)

var (
	genLang      string
	genOut       string
	genPackage   string
	genType      string
	genEnum      string
	genPrefix    string
	genSizeMacro string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a C header or Go source for the table",
	Long:  "Runs the search and writes the table as C (enum plus size macro) or Go (typed constants plus Lookup).",
	Args:  cobra.NoArgs,
	RunE:  runGen,
}

func init() {
	genCmd.Flags().StringVarP(&genLang, "lang", "l", "c", "Output language: c or go")
	genCmd.Flags().StringVarP(&genOut, "out", "o", "", "Write to file instead of stdout")
	genCmd.Flags().StringVar(&genPackage, "package", "", "Go package name (default verbs)")
	genCmd.Flags().StringVar(&genType, "type", "", "Go verb type name (default Verb)")
	genCmd.Flags().StringVar(&genEnum, "enum", "", "C enum name (default token_type)")
	genCmd.Flags().StringVar(&genPrefix, "prefix", "", "C enumerator prefix (default TT_)")
	genCmd.Flags().StringVar(&genSizeMacro, "size-macro", "", "C size macro (default TOKEN_MAPPING_SIZE)")
}

func runGen(cmd *cobra.Command, args []string) error {
	var emit func(io.Writer, codegen.Table) error
	switch genLang {
	case "c":
		emit = func(w io.Writer, t codegen.Table) error {
			return codegen.C(w, t, codegen.COptions{Enum: genEnum, Prefix: genPrefix, SizeMacro: genSizeMacro})
		}
	case "go":
		emit = func(w io.Writer, t codegen.Table) error {
			return codegen.Go(w, t, codegen.GoOptions{Package: genPackage, Type: genType})
		}
	default:
		return fmt.Errorf("unknown --lang %q (want c or go)", genLang)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a, done, err := s.newApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	rep, err := a.Run(s.keywords)
	if err != nil {
		return err
	}
	t := codegen.Table{Keywords: rep.Keywords, Result: rep.Result}

	if genOut == "" {
		return emit(cmd.OutOrStdout(), t)
	}
	f, err := os.Create(genOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := emit(f, t); err != nil {
		f.Close()
		os.Remove(genOut)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "⚡ wrote %s (size %d, seed %d)\n", genOut, rep.Result.Size, rep.Result.Seed)
	return nil
}
