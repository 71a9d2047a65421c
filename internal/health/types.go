// Package health runs point-in-time integrity checks over the index store:
// dangling parent/child edges, unresolved shortcuts, folder-containment
// cycles, and basic statistics. Each check runs independent SQL against the
// store; a cycle is the only condition that fails the overall result, all
// other conditions are reported as warnings.
package health

// Result is the combined outcome of RunAll.
type Result struct {
	Passed   bool
	Warnings []string
	Errors   []string
	Stats    Stats
	Details  Details
}

func (r *Result) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Passed = false
}

// Stats is a point-in-time count/size summary over the live (non-removed)
// file set.
type Stats struct {
	TotalFiles     int
	ActiveFiles    int
	TrashedFiles   int
	RemovedFiles   int
	Folders        int
	Files          int
	Shortcuts      int
	GoogleNative   int
	BinaryFiles    int
	TotalSizeBytes int64
	TotalSizeGB    float64
	WithMD5        int
	OwnedByMe      int
	ParentEdges    int
}

// Details holds the raw per-check output backing the Warnings/Errors
// summary, for callers that want the underlying records.
type Details struct {
	DanglingEdges DanglingEdgesResult
	Shortcuts     ShortcutsResult
	Cycles        CyclesResult
	MimeTypes     []MimeTypeStat
}

// ParentChildEdge is one row of the parents table, reported as either a
// missing-parent or missing-child finding.
type ParentChildEdge struct {
	ParentID string
	ChildID  string
}

// OrphanedFile is a live file with no recorded parent edge. Root-level
// items legitimately have none; this is informational, not a defect.
type OrphanedFile struct {
	ID       string
	Name     string
	MimeType string
}

// DanglingEdgesResult reports parent/child edges pointing at files that no
// longer exist, plus files with no parent edge at all.
type DanglingEdgesResult struct {
	MissingParents     []ParentChildEdge
	MissingChildren    []ParentChildEdge
	OrphanedFiles      []OrphanedFile
	MissingParentCount int
	MissingChildCount  int
	OrphanCount        int
}

// UnresolvedShortcut is a live shortcut whose target id does not resolve to
// a live file.
type UnresolvedShortcut struct {
	ID             string
	Name           string
	ShortcutTarget string
}

// ShortcutsResult reports shortcuts that fail to resolve to a live target.
type ShortcutsResult struct {
	Unresolved      []UnresolvedShortcut
	UnresolvedCount int
	ResolvedCount   int
}

// CyclesResult reports folder-containment cycles, each represented as the
// ordered chain of folder ids from the cycle's entry point back to itself.
type CyclesResult struct {
	Cycles     [][]string
	HasCycles  bool
	CycleCount int
}

// MimeTypeStat is one row of the live-file MIME type breakdown.
type MimeTypeStat struct {
	MimeType  string
	Count     int
	TotalSize int64
}
