package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/pkg/errors"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// NewParseCmd creates the parse command.  It exits non-zero when any input
// fails to parse.
func NewParseCmd() *cobra.Command {
	var showAtoms bool

	cmd := &cobra.Command{
		Use:   "parse <smiles>...",
		Short: "Parse SMILES strings and print their structure",
		Example: `  smiles parse CCO 'c1ccccc1' '[13C@@H](F)(Cl)Br'
  smiles parse -o json 'F/C=C\F'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runParse(cmd, cliCtx, newParseService(cliCtx), args, showAtoms)
		},
	}
	cmd.Flags().BoolVar(&showAtoms, "atoms", false, "list atoms and bonds in text output")
	return cmd
}

func runParse(cmd *cobra.Command, cliCtx *CLIContext, svc molecule.Service, inputs []string, showAtoms bool) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	results := make([]moltypes.BatchItemResult, len(inputs))
	for i, input := range inputs {
		results[i] = moltypes.BatchItemResult{Index: i, SMILES: input}
		dto, err := svc.Parse(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "parse interrupted")
			}
			results[i].Error = molecule.ErrorDTO(err)
			continue
		}
		results[i].Molecule = dto
	}

	report := newResultReport(results, showAtoms)
	if err := PrintResult(cmd, report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return errors.New(errors.ErrCodeInvalidSMILES, fmt.Sprintf("%d of %d inputs failed to parse", report.Failed, len(inputs)))
	}
	return nil
}

//Personal.AI order the ending
