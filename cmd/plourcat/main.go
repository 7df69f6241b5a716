// Command plourcat dumps a Parquet file: schema, column list, and up
// to 1000 rows of data as a table.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/diana-hep/plour"
)

const maxRows = 1000

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <parquet-file>\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	file, err := plour.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	leaves := file.Leaves()

	fmt.Println("=== Schema ===")
	for i, leaf := range leaves {
		typeName := "GROUP"
		if leaf.Element != nil && leaf.Element.Type != nil {
			typeName = leaf.Element.Type.String()
		}
		fmt.Printf("%d. %s (type: %s, repetition: %s)\n",
			i+1, strings.Join(leaf.Path, "."), typeName, leaf.RepetitionType)
	}
	fmt.Println()

	fmt.Println("=== Columns ===")
	for i, leaf := range leaves {
		fmt.Printf("%d. %s\n", i+1, strings.Join(leaf.Path, "."))
	}
	fmt.Println()

	fmt.Println("=== Data ===")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	for _, leaf := range leaves {
		fmt.Fprintf(w, "%s\t", leaf.Name)
	}
	fmt.Fprintf(w, "\n")
	for range leaves {
		fmt.Fprintf(w, "---\t")
	}
	fmt.Fprintf(w, "\n")

	rowsPrinted := 0
	for rg := 0; rg < file.NumRowGroups() && rowsPrinted < maxRows; rg++ {
		columns := make([]plour.ColumnResult, len(leaves))
		for i, leaf := range leaves {
			res, err := file.Column(rg, leaf, plour.ReadAll)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading column %s: %v\n", strings.Join(leaf.Path, "."), err)
				continue
			}
			columns[i] = res
		}

		rows := 0
		for _, col := range columns {
			if n := valueCount(col.Values); n > rows {
				rows = n
			}
		}
		if rows > maxRows-rowsPrinted {
			rows = maxRows - rowsPrinted
		}

		// Values print positionally from the dense slices, ignoring
		// definition levels: a column with nulls shows its values
		// compacted to the top rows with NULL padding below.
		for row := 0; row < rows; row++ {
			for _, col := range columns {
				fmt.Fprintf(w, "%s\t", formatValue(col.Values, row))
			}
			fmt.Fprintf(w, "\n")
			rowsPrinted++
		}
	}

	w.Flush()

	fmt.Printf("\nTotal rows printed: %d\n", rowsPrinted)
	fmt.Printf("Total rows in file: %d\n", file.Metadata().NumRows)
	fmt.Printf("Row groups: %d\n", file.NumRowGroups())
	return nil
}

func valueCount(values any) int {
	switch v := values.(type) {
	case []bool:
		return len(v)
	case []int32:
		return len(v)
	case []int64:
		return len(v)
	case [][12]byte:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	case [][]byte:
		return len(v)
	default:
		return 0
	}
}

func formatValue(values any, i int) string {
	if i >= valueCount(values) {
		return "NULL"
	}
	switch v := values.(type) {
	case []bool:
		return fmt.Sprintf("%v", v[i])
	case []int32:
		return fmt.Sprintf("%d", v[i])
	case []int64:
		return fmt.Sprintf("%d", v[i])
	case [][12]byte:
		return fmt.Sprintf("%x", v[i])
	case []float32:
		return fmt.Sprintf("%g", v[i])
	case []float64:
		return fmt.Sprintf("%g", v[i])
	case [][]byte:
		return string(v[i])
	default:
		return "NULL"
	}
}
