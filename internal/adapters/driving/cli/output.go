package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q (text, json or yaml)", domain.ErrInvalidInput, format)
	}
}

// writeStructured prints v as indented JSON or YAML.
func writeStructured(cmd *cobra.Command, format string, v any) error {
	var (
		data []byte
		err  error
	)
	if format == formatYAML {
		data, err = yaml.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
