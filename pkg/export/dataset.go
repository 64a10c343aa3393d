package export

import "fmt"

// Column names one field of a Dataset and its printed label.
type Column struct {
	Key   string
	Label string
}

// Dataset is tabular export content. Rows are keyed by Column.Key.
type Dataset struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// Labels returns the printed header line.
func (d Dataset) Labels() []string {
	labels := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		labels[i] = col.Label
		if labels[i] == "" {
			labels[i] = col.Key
		}
	}
	return labels
}

// Record returns row i in column order.
func (d Dataset) Record(i int) []string {
	record := make([]string, len(d.Columns))
	for j, col := range d.Columns {
		record[j] = d.Rows[i][col.Key]
	}
	return record
}

func (d Dataset) validate(kind string) error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("%s requires at least one column", kind)
	}
	return nil
}
