package resources

import (
	"bytes"
	"encoding/csv"
	"strings"
)

// ExportOptions controla a serialização CSV.
type ExportOptions struct {
	// Raw junta os campos com vírgula sem aspas, como a exportação legada.
	// Campos com vírgula ou quebra de linha corrompem o arquivo nesse modo.
	Raw bool
}

// Row é a linha de exportação de r, na ordem de Columns.
func (c *Controller[T]) Row(r T) []string { return c.desc.Row(r) }

// Export serializa records com o cabeçalho do recurso, uma linha por registro.
func (c *Controller[T]) Export(records []T, opts ExportOptions) ([]byte, error) {
	return Export(c.desc, records, opts)
}

// Export é a versão sem controller de (*Controller).Export.
func Export[T Record](desc Descriptor[T], records []T, opts ExportOptions) ([]byte, error) {
	if opts.Raw {
		lines := make([]string, 0, len(records)+1)
		lines = append(lines, strings.Join(desc.Columns, ","))
		for _, r := range records {
			lines = append(lines, strings.Join(desc.Row(r), ","))
		}
		return []byte(strings.Join(lines, "\n")), nil
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(desc.Columns); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(desc.Row(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
