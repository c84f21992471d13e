package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/justifier/internal/axiom"
	"github.com/HendryAvila/justifier/internal/justification"
	"github.com/HendryAvila/justifier/internal/kb"
	"github.com/HendryAvila/justifier/internal/logging"
	jserver "github.com/HendryAvila/justifier/internal/server"
)

// openKB loads the given YAML files into an in-memory knowledge base and
// returns a manager over it.
func openKB(cmd *cobra.Command, opts *rootOptions, files []string) (*justification.Manager, error) {
	if len(files) == 0 {
		return nil, errors.New("at least one --kb file is required")
	}
	cfg, logger, err := opts.load(cmd)
	if err != nil {
		return nil, err
	}
	base := kb.New(kb.WithLogger(logging.Component(logger, "kb")))
	for _, f := range files {
		if _, err := base.ImportFile(f); err != nil {
			return nil, err
		}
	}
	return jserver.NewEngine(cfg, base, logger), nil
}

func newExplainCmd(opts *rootOptions) *cobra.Command {
	var (
		kbFiles    []string
		entailment string
		kindName   string
		limit      int
		first      bool
	)
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the justifications of an entailment",
		Example: `  justifier explain --kb pets.yaml --entailment "Cat SubClassOf Animal"
  justifier explain --kb pets.yaml --entailment "tom Type Animal" --kind laconic --first`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := axiom.Parse(entailment)
			if err != nil {
				return err
			}
			kind, err := justification.ParseKind(kindName)
			if err != nil {
				return err
			}
			m, err := openKB(cmd, opts, kbFiles)
			if err != nil {
				return err
			}
			defer m.Dispose()

			if cmd.Flags().Changed("limit") {
				m.SetExplanationLimit(limit)
			}
			if first {
				m.SetFindAllExplanations(false)
			}

			r, err := m.ComputeJustifications(cmd.Context(), e, kind, nil)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), kind, r)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kbFiles, "kb", nil, "YAML knowledge-base file (repeatable)")
	cmd.Flags().StringVarP(&entailment, "entailment", "e", "", "axiom to explain")
	cmd.Flags().StringVar(&kindName, "kind", "regular", "justification kind: "+strings.Join(justification.Kinds(), ", "))
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of justifications, 0 for all")
	cmd.Flags().BoolVar(&first, "first", false, "stop at the first justification")
	_ = cmd.MarkFlagRequired("entailment")
	return cmd
}

func printResult(w io.Writer, kind justification.Kind, r *justification.Result) {
	fmt.Fprintf(w, "%s justifications for %s: %d\n", kind, r.Entailment(), r.Len())
	for i, x := range r.Explanations() {
		for j, a := range x.Axioms() {
			if j == 0 {
				fmt.Fprintf(w, "%3d. %s\n", i+1, a)
				continue
			}
			fmt.Fprintf(w, "     %s\n", a)
		}
	}
}

func newUnsatCmd(opts *rootOptions) *cobra.Command {
	var kbFiles []string
	cmd := &cobra.Command{
		Use:   "unsat",
		Short: "List the root and derived unsatisfiable classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := openKB(cmd, opts, kbFiles)
			if err != nil {
				return err
			}
			defer m.Dispose()

			u, err := m.UnsatisfiableClasses(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range u.Roots {
				fmt.Fprintf(w, "root     %s\n", c)
			}
			for _, c := range u.Derived {
				fmt.Fprintf(w, "derived  %s <- %s\n", c, strings.Join(u.Parents[c], ", "))
			}
			if u.Len() == 0 {
				fmt.Fprintln(w, "all classes satisfiable")
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kbFiles, "kb", nil, "YAML knowledge-base file (repeatable)")
	return cmd
}
