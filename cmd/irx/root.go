package main

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coregx/irregular"
	"github.com/coregx/irregular/library"
)

type cliRoot struct {
	logLevel     string
	libraryPath  string
	templateName string
	flags        string
}

func newRootCmd() *cobra.Command {
	cli := &cliRoot{}

	cmd := &cobra.Command{
		Use:               "irx",
		Short:             "Compile and match composable regular expression templates",
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			lvl, err := log.ParseLevel(cli.logLevel)
			if err != nil {
				return err
			}

			log.SetLevel(lvl)

			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cli.logLevel, "log-level", "warning", "log level (trace, debug, info, warning, error)")
	flags.StringVarP(&cli.libraryPath, "library", "l", "", "YAML library of methods and templates")
	flags.StringVarP(&cli.templateName, "template", "t", "", "use the named template from the library instead of a pattern argument")
	flags.StringVarP(&cli.flags, "flags", "f", "", "pattern flags (g, i, m, s, u, y)")

	cmd.AddCommand(cli.newCompileCmd())
	cmd.AddCommand(cli.newMatchCmd())

	return cmd
}

func (cli *cliRoot) loadLibrary() (*library.Library, error) {
	if cli.libraryPath == "" {
		return nil, nil
	}

	lib, err := library.LoadFile(cli.libraryPath)
	if err != nil {
		return nil, err
	}

	log.Debugf("loaded %d methods and %d templates from %s",
		lib.Methods().Len(), len(lib.TemplateNames()), cli.libraryPath)

	return lib, nil
}

// template builds the template to work on. It consumes the pattern argument
// unless --template is set, and returns the remaining arguments.
func (cli *cliRoot) template(args []string) (*irregular.Template, []string, error) {
	lib, err := cli.loadLibrary()
	if err != nil {
		return nil, nil, err
	}

	if cli.templateName != "" {
		if lib == nil {
			return nil, nil, errors.New("--template requires --library")
		}

		t, err := lib.Template(cli.templateName)
		if err != nil {
			return nil, nil, err
		}

		if cli.flags != "" {
			source, _ := t.Source()
			t = irregular.FromSource(source, irregular.WithFlags(cli.flags), irregular.WithMethods(t.Methods()))
		}

		return t, args, nil
	}

	if len(args) == 0 {
		return nil, nil, errors.New("a pattern is required")
	}

	opts := []irregular.Option{irregular.WithFlags(cli.flags)}
	if lib != nil {
		opts = append(opts, irregular.WithMethods(lib.Methods()))
	}

	return irregular.FromSource(args[0], opts...), args[1:], nil
}

func (cli *cliRoot) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "compile [PATTERN]",
		Short:             "Print the pattern handed to the engine",
		Example:           "irx compile -l names.yaml '(?<first>`word`) (?<last>`word`)'",
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, rest, err := cli.template(args)
			if err != nil {
				return err
			}

			if len(rest) > 0 {
				return fmt.Errorf("unexpected arguments: %v", rest)
			}

			re, err := t.Compile(nil)
			if err != nil {
				return err
			}

			log.Debugf("engine pattern: %s", re.EnginePattern())

			fmt.Fprintln(cmd.OutOrStdout(), re)

			return nil
		},
	}

	return cmd
}
