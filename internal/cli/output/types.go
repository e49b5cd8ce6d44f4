package output

// FileResult is the JSON form of one converted file.
type FileResult struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Added   int    `json:"added,omitempty"`
	Removed int    `json:"removed,omitempty"`
	Diff    string `json:"diff,omitempty"`
	Error   string `json:"error,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// ConvertOutput is the JSON output of convert.
type ConvertOutput struct {
	Files     []FileResult `json:"files"`
	Changed   int          `json:"changed"`
	Failed    int          `json:"failed"`
	Written   bool         `json:"written"`
	UpToDate  bool         `json:"up_to_date"`
	TotalRead int          `json:"total_read"`
}

// GraphNode is one file of the import graph.
type GraphNode struct {
	Path       string   `json:"path"`
	Imports    []string `json:"imports,omitempty"`
	ImportedBy []string `json:"imported_by,omitempty"`
}

// GraphLevel groups files whose imports all sit in earlier levels.
type GraphLevel struct {
	Level int         `json:"level"`
	Files []GraphNode `json:"files"`
}

// GraphOutput is the JSON output of graph.
type GraphOutput struct {
	Levels     []GraphLevel `json:"levels,omitempty"`
	Order      []string     `json:"order"`
	Cycle      []string     `json:"cycle,omitempty"`
	TotalFiles int          `json:"total_files"`
	TotalEdges int          `json:"total_edges"`
}
