package export

// Table defines tabular export content shared by the renderers.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}
