package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	svc "github.com/saludigital/cadastro/svc/registration"
)

func newFormsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "forms [name]",
		Short: "Print the rule tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("forms")
			registry, err := loadRegistry(path)
			if err != nil {
				return err
			}

			names := registry.Names()
			if len(args) == 1 {
				names = args
			}
			forms := make([]*svc.Form, 0, len(names))
			for _, name := range names {
				f, err := registry.Get(name)
				if err != nil {
					return err
				}
				forms = append(forms, f)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(forms)
			}
			for i, f := range forms {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := printForm(out, f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tables as JSON")
	return cmd
}

func printForm(out io.Writer, f *svc.Form) error {
	fmt.Fprintf(out, "%s (%s)\n", f.Name, f.Title)
	for _, t := range f.Toggles {
		fmt.Fprintf(out, "  toggle %s: %s = %q\n", t.Name, t.Field, t.Value)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  FIELD\tRULE\tGATE")
	for _, r := range f.Rules {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", r.Field, describeRule(r), r.Gate)
	}
	return tw.Flush()
}

func describeRule(r svc.RuleSpec) string {
	switch {
	case r.AltGate != "":
		return fmt.Sprintf("%s(%d, %d if %s)", r.Kind, r.Length, r.AltLength, r.AltGate)
	case r.Length > 0:
		return fmt.Sprintf("%s(%d)", r.Kind, r.Length)
	case len(r.Options) > 0:
		return fmt.Sprintf("%s(%s)", r.Kind, strings.Join(r.Options, "|"))
	}
	return string(r.Kind)
}
