package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coregx/irregular"
)

type groupOutput struct {
	Key    string    `json:"key"`
	Values []*string `json:"values"`
}

type matchOutput struct {
	Input  string        `json:"input"`
	Groups []groupOutput `json:"groups"`
}

func (cli *cliRoot) newMatchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "match [PATTERN] [INPUT...]",
		Short: "Match inputs and print the captures of every group",
		Long: `Match each INPUT against the template and print the captures of every
group, by name or by position. Without INPUT arguments, every line read from
standard input is matched.`,
		Example:           "irx match -f g '(?<namePart>\\w+) ?' 'John R Smith'",
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("unknown output format %q", output)
			}

			t, inputs, err := cli.template(args)
			if err != nil {
				return err
			}

			keys, err := t.Groups()
			if err != nil {
				return err
			}

			if len(inputs) == 0 {
				inputs, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			results := make([]matchOutput, 0, len(inputs))

			for _, input := range inputs {
				res, err := t.Match(input)
				if err != nil {
					return err
				}

				log.Debugf("matched %q: %d groups", input, len(keys))

				results = append(results, toOutput(input, keys, res))
			}

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(results)
			}

			printText(cmd.OutOrStdout(), results)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")

	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	return lines, nil
}

func toOutput(input string, keys []irregular.Key, res irregular.Result) matchOutput {
	out := matchOutput{Input: input, Groups: make([]groupOutput, 0, len(keys))}

	for _, k := range keys {
		subs := res[k]
		values := make([]*string, len(subs))

		for i, s := range subs {
			if s.Matched {
				text := s.Text
				values[i] = &text
			}
		}

		out.Groups = append(out.Groups, groupOutput{Key: k.String(), Values: values})
	}

	return out
}

// printText writes one line per input followed by one indented line per group.
// Groups that did not participate are shown as <nil>.
func printText(w io.Writer, results []matchOutput) {
	for _, r := range results {
		fmt.Fprintf(w, "%q\n", r.Input)

		for _, g := range r.Groups {
			values := make([]string, len(g.Values))
			for i, v := range g.Values {
				if v == nil {
					values[i] = "<nil>"
					continue
				}

				values[i] = fmt.Sprintf("%q", *v)
			}

			fmt.Fprintf(w, "  %s: [%s]\n", g.Key, strings.Join(values, " "))
		}
	}
}
