package debug

// ShapeData describes one rasterized shape.
type ShapeData struct {
	Index  int        `json:"index"`
	Kind   string     `json:"kind"`
	Points int        `json:"points"`
	From   [2]uint32  `json:"from"`
	To     *[2]uint32 `json:"to,omitempty"`
	Radius *uint32    `json:"radius,omitempty"`
}

// ComposeStartData contains information about the start of a merge.
type ComposeStartData struct {
	Inputs      int `json:"inputs"`
	Shapes      int `json:"shapes"`
	Canvases    int `json:"canvases"`
	Coordinates int `json:"coordinates"`
	Workers     int `json:"workers"`
}

// ComposeEndData contains information about the finished canvas.
type ComposeEndData struct {
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Cells     int            `json:"cells"`
	Histogram map[string]int `json:"histogram"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

// RenderStartData contains information about the start of a render operation.
type RenderStartData struct {
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Glyphs         map[string]string `json:"glyphs"`
	TrimWhitespace bool              `json:"trim_whitespace"`
}

// RenderEndData contains information about the end of a render operation.
type RenderEndData struct {
	TotalRows    int   `json:"total_rows"`
	TotalCells   int   `json:"total_cells"`
	ElapsedMs    int64 `json:"elapsed_ms"`
	BytesWritten int   `json:"bytes_written"`
}

// WriteRowData contains information about writing a row to output.
type WriteRowData struct {
	RowIdx  int  `json:"row_idx"`
	Y       int  `json:"y"`
	Trimmed bool `json:"trimmed"`
}

// ErrorData contains error information.
type ErrorData struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
