// Package analytics computes the derived-analytics bundle over a full
// index snapshot: duplicate groups, orphaned files, folder depths, semantic
// folder categories, and cross-cutting matrices/timelines built from them.
// Every view is a pure function of the file set, the parent/child
// containment map, and a reference time — no I/O, no store access.
package analytics

// DuplicateGroup is a set of files sharing the same name and size.
type DuplicateGroup struct {
	Name              string
	Size              int64
	FileIDs           []string
	Count             int
	PotentialSavings  int64
	IdenticalMetadata bool
	MimeType          string
}

// Duplicates is the name+size duplicate-grouping view.
type Duplicates struct {
	Groups                []DuplicateGroup
	TotalPotentialSavings int64
}

// Orphan is a file referencing at least one parent id absent from the
// snapshot.
type Orphan struct {
	FileID           string
	MissingParentIDs []string
}

// Orphans is the dangling-parent-reference view.
type Orphans struct {
	Orphans []Orphan
	Count   int
}

// DepthBucket is one row of the folder-depth distribution.
type DepthBucket struct {
	Depth       int
	FolderCount int
	TotalSize   int64
}

// Depths is the folder-depth view: per-folder depth, the count/size
// distribution by depth, the maximum depth observed, and the (bounded)
// list of the deepest folders.
type Depths struct {
	DepthByID       map[string]int
	Distribution    []DepthBucket
	MaxDepth        int
	DeepestFolderIDs []string
}

// FolderCategory is the classification assigned to one folder.
type FolderCategory struct {
	Category   string
	Confidence string // "high" (name match) or "medium" (content heuristic)
	Method     string // "name" or "content"
}

// CategoryTotal is the folder-count/size total for one semantic category.
type CategoryTotal struct {
	FolderCount int
	TotalSize   int64
}

// Semantic is the per-folder semantic classification view.
type Semantic struct {
	FolderCategory         map[string]FolderCategory
	Totals                 map[string]CategoryTotal
	CategoryFolderIDs      map[string][]string
	UncategorizedCount     int
	UncategorizedFolderIDs []string
}

// AgeBucketCell is one (category, age bucket) cell of the age-semantic
// matrix.
type AgeBucketCell struct {
	FolderCount int
	TotalSize   int64
}

// AgeSemantic is the folder age-by-category matrix.
type AgeSemantic struct {
	Buckets []string
	Matrix  map[string]map[string]AgeBucketCell
}

// TypeCell is one (category, file-type-group) cell of the type-semantic
// matrix.
type TypeCell struct {
	FileCount int
	TotalSize int64
}

// TypeSemantic is the file-type-by-folder-category matrix, categorizing
// each file by its first parent's semantic category.
type TypeSemantic struct {
	Groups []string
	Matrix map[string]map[string]TypeCell
}

// TypeGroupStat is the count/size total for one broad file-type group.
type TypeGroupStat struct {
	Count     int
	TotalSize int64
}

// TypeStats is the broad file-type breakdown (folders, images, documents,
// videos, audio, other).
type TypeStats struct {
	Groups map[string]TypeGroupStat
}

// TimeBucket is the count/size total for one timeline bucket key.
type TimeBucket struct {
	Count     int
	TotalSize int64
}

// TimeSeries holds day/ISO-week/month buckets for one timestamp field.
type TimeSeries struct {
	Day   map[string]TimeBucket
	Week  map[string]TimeBucket
	Month map[string]TimeBucket
}

// Timeline is the activity-over-time view, keyed by created and modified
// timestamps.
type Timeline struct {
	Created  TimeSeries
	Modified TimeSeries
}

// LargeLists is the bounded top-N largest files/folders by size.
type LargeLists struct {
	TopFileIDs   []string
	TopFolderIDs []string
}

// Bundle is the full derived-analytics payload computed from one index
// snapshot. DerivedVersion changes only when a view's shape changes in a
// way that invalidates a previously cached bundle.
type Bundle struct {
	DerivedVersion int
	Duplicates     Duplicates
	Orphans        Orphans
	Depths         Depths
	Semantic       Semantic
	AgeSemantic    AgeSemantic
	TypeSemantic   TypeSemantic
	Types          TypeStats
	Timeline       Timeline
	Large          LargeLists
}

// DerivedVersion is the current shape version of Bundle.
const DerivedVersion = 2
