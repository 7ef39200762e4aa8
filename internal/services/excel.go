package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName      = "Alumnos"
	maxColumnWidth = 50
	maxContactos   = 3
)

// requiredColumns must all be present in an import header
var requiredColumns = []string{
	"nombre", "apellido_paterno", "fecha_nacimiento", "curp",
	"nivel_educativo", "grado", "grupo",
}

func contactoColumns(n int) []string {
	return []string{
		fmt.Sprintf("contacto_emergencia_%d_nombre", n),
		fmt.Sprintf("contacto_emergencia_%d_telefono", n),
		fmt.Sprintf("contacto_emergencia_%d_relacion", n),
	}
}

// importColumns is the header written by the template
func importColumns(contactos int) []string {
	columns := []string{
		"nombre", "apellido_paterno", "apellido_materno", "fecha_nacimiento", "curp",
		"nivel_educativo", "grado", "grupo", "estado",
	}
	for i := 1; i <= contactos; i++ {
		columns = append(columns, contactoColumns(i)...)
	}
	return columns
}

func exportColumns() []string {
	columns := []string{
		"matricula", "nombre", "apellido_paterno", "apellido_materno", "fecha_nacimiento", "curp",
		"nivel_educativo", "grado", "grupo", "estado", "fecha_inscripcion",
	}
	for i := 1; i <= maxContactos; i++ {
		columns = append(columns, contactoColumns(i)...)
	}
	return columns
}

// sheetRow is one data row keyed by header name
type sheetRow map[string]string

func (r sheetRow) get(column string) string {
	return strings.TrimSpace(r[column])
}

// writeSheet renders a single "Alumnos" sheet with a header row. Each column
// is as wide as its longest value plus 2, capped at maxColumnWidth.
func writeSheet(headers []string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	widths := make([]int, len(headers))
	writeRow := func(rowNum int, values []string) error {
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheetName, cell, value); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(value); col < len(widths) && n > widths[col] {
				widths[col] = n
			}
		}
		return nil
	}

	if err := writeRow(1, headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, float64(min(width+2, maxColumnWidth))); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// readSheet parses the first sheet into its header and data rows.
// Cells are read raw so dates keep their serial number form. Fully blank
// rows are dropped; each returned row keeps its sheet line number.
func readSheet(content []byte) ([]string, []sheetRow, []int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil, fmt.Errorf("el archivo no contiene hojas")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil, fmt.Errorf("el archivo está vacío")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var (
		data    []sheetRow
		lineNos []int
	)
	for i, cells := range rows[1:] {
		row := make(sheetRow, len(headers))
		blank := true
		for col, header := range headers {
			if header == "" || col >= len(cells) {
				continue
			}
			row[header] = cells[col]
			if strings.TrimSpace(cells[col]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		data = append(data, row)
		lineNos = append(lineNos, i+2)
	}

	return headers, data, lineNos, nil
}

func missingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
