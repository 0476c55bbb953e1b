package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/pkg/errors"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// Batch input formats.
const (
	FormatAuto = "auto"
	FormatSMI  = "smi"
	FormatJSON = "json"
)

// BatchInput is one labelled SMILES read from a batch file.
type BatchInput struct {
	Label  string
	SMILES string
}

// wikidataItem is one row of a Wikidata SPARQL JSON export selecting
// ?item ?itemLabel ?smiles.
type wikidataItem struct {
	Item      string `json:"item"`
	ItemLabel string `json:"itemLabel"`
	SMILES    string `json:"smiles"`
}

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	var (
		format    string
		strict    bool
		showAtoms bool
	)

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Parse every SMILES in a .smi or JSON file",
		Long: `Parse every SMILES in a file, or standard input when file is "-".

Two formats are accepted:
  smi   one "SMILES [name]" per line; blank lines and lines starting with # are skipped
  json  an array of {"item", "itemLabel", "smiles"} objects (Wikidata export)

With --format auto the format follows the file extension, falling back to
json when the content opens with "[{" and smi otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			inputs, err := readBatchFile(cmd, args[0], format)
			if err != nil {
				return err
			}
			cliCtx.Logger.Debug("batch input loaded", logging.Int("items", len(inputs)))

			return runBatch(cmd, cliCtx, newParseService(cliCtx), inputs, strict, showAtoms)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatAuto, "input format (auto, smi, json)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any item fails to parse")
	cmd.Flags().BoolVar(&showAtoms, "atoms", false, "list atoms and bonds in text output")
	return cmd
}

func readBatchFile(cmd *cobra.Command, path, format string) ([]BatchInput, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot open batch file")
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot read batch input")
	}
	if format == FormatAuto {
		format = DetectFormat(path, data)
	}
	return ReadBatchInput(bytes.NewReader(data), format)
}

// DetectFormat picks the batch format from the file extension, then from the
// first non-blank byte of data.
func DetectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".smi", ".smiles", ".txt":
		return FormatSMI
	}
	// A bracket atom also opens with '[', so JSON needs '[' followed by an
	// object or the end of an empty array.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		rest := bytes.TrimSpace(trimmed[1:])
		if len(rest) > 0 && (rest[0] == '{' || rest[0] == ']') {
			return FormatJSON
		}
	}
	return FormatSMI
}

// ReadBatchInput decodes r in the given format.
func ReadBatchInput(r io.Reader, format string) ([]BatchInput, error) {
	switch format {
	case FormatSMI:
		return readSMI(r)
	case FormatJSON:
		return readWikidataJSON(r)
	}
	return nil, errors.New(errors.ErrCodeInputFormatInvalid, fmt.Sprintf("unknown batch format %q; expected smi or json", format))
}

func readSMI(r io.Reader) ([]BatchInput, error) {
	var out []BatchInput
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		out = append(out, BatchInput{SMILES: fields[0], Label: strings.Join(fields[1:], " ")})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInputFormatInvalid, "cannot read .smi input")
	}
	return out, nil
}

func readWikidataJSON(r io.Reader) ([]BatchInput, error) {
	var items []wikidataItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInputFormatInvalid, "batch JSON must be an array of {item, itemLabel, smiles}")
	}
	out := make([]BatchInput, len(items))
	for i, it := range items {
		label := it.ItemLabel
		if label == "" {
			label = it.Item
		}
		out[i] = BatchInput{Label: label, SMILES: it.SMILES}
	}
	return out, nil
}

// runBatch parses inputs in chunks of parser.max_batch_size.  Result indexes
// refer to the position in the whole file.
func runBatch(cmd *cobra.Command, cliCtx *CLIContext, svc molecule.Service, inputs []BatchInput, strict, showAtoms bool) error {
	if len(inputs) == 0 {
		return errors.New(errors.ErrCodeBadRequest, "batch input contains no SMILES")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	defer cancel()

	chunk := cliCtx.Config.Parser.MaxBatchSize
	if chunk < 1 {
		chunk = len(inputs)
	}

	results := make([]moltypes.BatchItemResult, 0, len(inputs))
	for start := 0; start < len(inputs); start += chunk {
		end := start + chunk
		if end > len(inputs) {
			end = len(inputs)
		}
		items := make([]string, end-start)
		for i, in := range inputs[start:end] {
			items[i] = in.SMILES
		}

		resp, err := svc.ParseBatch(ctx, items)
		if err != nil {
			return err
		}
		for _, res := range resp.Results {
			res.Index += start
			res.Label = inputs[res.Index].Label
			results = append(results, res)
		}
	}

	report := newResultReport(results, showAtoms)
	if err := PrintResult(cmd, report); err != nil {
		return err
	}
	cliCtx.Logger.Info("batch complete",
		logging.Int("items", len(results)),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
	)
	if strict && report.Failed > 0 {
		return errors.New(errors.ErrCodeInvalidSMILES, fmt.Sprintf("%d of %d items failed to parse", report.Failed, len(results)))
	}
	return nil
}

//Personal.AI order the ending
