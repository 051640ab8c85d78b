package swrn

// --- PR classification ---

// PRType classifies a problem report as a new feature or a bug fix.
type PRType string

const (
	PRFeature PRType = "feature"
	PRBugFix  PRType = "bug_fix"
	PRUnknown PRType = "unknown"
)

// --- Extraction types ---

// Page is the plain text of one PDF page. Numbering is 1-based.
type Page struct {
	Num  int    `json:"num"`
	Text string `json:"text"`
}

// Document is the page-wise text of one release-notes PDF.
type Document struct {
	Path      string `json:"path"`
	PageCount int    `json:"page_count"`
	Pages     []Page `json:"pages"`
}

// Extractor produces page-wise plain text from a PDF on disk.
// The extract package provides the production implementation.
type Extractor interface {
	Extract(path string) (Document, error)
}

// Occurrence is one PR citation found on a page: a section header or a
// line-start "PR-123456:" reference, with a short context snippet.
type Occurrence struct {
	PR      string `json:"pr"`
	Page    int    `json:"page"`
	Context string `json:"context"`
	Type    PRType `json:"type"`
}

// --- Store records ---

// PDFFile is an indexed release-notes file (database record).
type PDFFile struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	Filepath  string `json:"filepath"`
	SWVersion string `json:"sw_version"`
	FileSize  int64  `json:"file_size"`
	PageCount int    `json:"page_count"`
	IndexedAt string `json:"indexed_at"`
}

// BuildResult reports the outcome of an index build or update run.
// Per-file extraction failures land in Errors and do not abort the run.
type BuildResult struct {
	RunID   string   `json:"run_id"`
	Indexed int      `json:"indexed"`
	Skipped int      `json:"skipped"`
	Pages   int      `json:"pages"`
	PRs     int      `json:"prs"`
	Errors  []string `json:"errors,omitempty"`
}

// --- Search results ---

// TextHit is a full-text search match on one page.
type TextHit struct {
	Filename string  `json:"filename"`
	Version  string  `json:"sw_version"`
	Page     int     `json:"page"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// PRHit is one file's record of a PR, kept at the highest page number
// the PR appears on in that file.
type PRHit struct {
	PR       string `json:"pr"`
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
	Version  string `json:"sw_version"`
	Page     int    `json:"page"`
	Context  string `json:"context"`
	Type     PRType `json:"type"`
}

// KeywordHit is a PR surfaced by keyword search, with page provenance.
type KeywordHit struct {
	PR       string `json:"pr"`
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
	Version  string `json:"sw_version"`
	Page     int    `json:"page"`
	Snippet  string `json:"snippet"`
}

// SimilarHit is a candidate from similar-PR search with its blended score.
type SimilarHit struct {
	PR       string  `json:"pr"`
	Title    string  `json:"title"`
	Filename string  `json:"filename"`
	Version  string  `json:"sw_version"`
	Page     int     `json:"page"`
	Score    float64 `json:"score"`
	Detail   *Detail `json:"detail,omitempty"`
}

// --- PR detail ---

// ChangeRow is one structured row from a change table on a detail page
// (CV, factory automation, recipe parameter, UI, or alarm changes).
type ChangeRow struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OldValue    string `json:"old_value,omitempty"`
	NewValue    string `json:"new_value,omitempty"`
	Action      string `json:"action,omitempty"`
}

// Detail is the parsed detail page of one PR. Fields that the document
// does not carry stay empty; Found is false when the PR's detail page
// could not be located at all.
type Detail struct {
	PR               string `json:"pr"`
	Found            bool   `json:"found"`
	Title            string `json:"title,omitempty"`
	Component        string `json:"component,omitempty"`
	Module           string `json:"module,omitempty"`
	AffectedFunction string `json:"affected_function,omitempty"`
	History          string `json:"history,omitempty"`
	Benefits         string `json:"benefits,omitempty"`
	Description      string `json:"description,omitempty"`
	IssueDescription string `json:"issue_description,omitempty"`
	RootCause        string `json:"root_cause,omitempty"`
	Solution         string `json:"solution,omitempty"`
	Type             PRType `json:"type"`

	CVChanges     []ChangeRow `json:"cv_changes,omitempty"`
	FAChanges     []ChangeRow `json:"fa_changes,omitempty"`
	RecipeChanges []ChangeRow `json:"recipe_changes,omitempty"`
	UIChanges     []ChangeRow `json:"ui_changes,omitempty"`
	AlarmChanges  []ChangeRow `json:"alarm_changes,omitempty"`

	SourceFile string `json:"source_file,omitempty"`
	SourcePage int    `json:"source_page,omitempty"`
}

// SolutionOrBenefit returns the outcome text appropriate to the PR type:
// the solution for bug fixes, the benefits for features, whichever is
// present otherwise.
func (d Detail) SolutionOrBenefit() string {
	switch d.Type {
	case PRBugFix:
		if d.Solution != "" {
			return d.Solution
		}
		return d.Benefits
	case PRFeature:
		if d.Benefits != "" {
			return d.Benefits
		}
		return d.Solution
	}
	if d.Solution != "" {
		return d.Solution
	}
	return d.Benefits
}

// IssueOrDescription returns the problem text appropriate to the PR type:
// the issue description for bug fixes, the description for features,
// whichever is present otherwise.
func (d Detail) IssueOrDescription() string {
	switch d.Type {
	case PRBugFix:
		if d.IssueDescription != "" {
			return d.IssueDescription
		}
		return d.Description
	case PRFeature:
		if d.Description != "" {
			return d.Description
		}
		return d.IssueDescription
	}
	if d.IssueDescription != "" {
		return d.IssueDescription
	}
	return d.Description
}

// --- Version delta ---

// DeltaEntry is one PR introduced (or re-listed) inside a version window.
// IsNew is false when the PR was already present at a version at or below
// the window's lower bound.
type DeltaEntry struct {
	PR        string `json:"pr"`
	Version   string `json:"sw_version"`
	Type      PRType `json:"type"`
	Context   string `json:"context"`
	IsNew     bool   `json:"is_new"`
	Title     string `json:"title,omitempty"`
	Component string `json:"component,omitempty"`
	Module    string `json:"module,omitempty"`
}

// DeltaSummary aggregates a delta's entries.
type DeltaSummary struct {
	Features    int            `json:"features"`
	Bugs        int            `json:"bugs"`
	Unknown     int            `json:"unknown"`
	ByComponent map[string]int `json:"by_component,omitempty"`
	ByModule    map[string]int `json:"by_module,omitempty"`
	ByVersion   map[string]int `json:"by_version"`
}

// Delta lists the PRs that entered the corpus in the (From, To] window.
type Delta struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Versions []string     `json:"versions"`
	Entries  []DeltaEntry `json:"entries"`
	Summary  DeltaSummary `json:"summary"`
}

// --- Index status ---

// FileStat is one indexed file's line in Stats.
type FileStat struct {
	Filename string `json:"filename"`
	Version  string `json:"sw_version"`
	Pages    int    `json:"pages"`
}

// Stats describes the state of the index.
type Stats struct {
	Indexed    bool       `json:"indexed"`
	FileCount  int        `json:"file_count"`
	TotalPages int        `json:"total_pages"`
	PREntries  int        `json:"pr_entries"`
	UniquePRs  int        `json:"unique_prs"`
	DBSizeMB   float64    `json:"db_size_mb"`
	Files      []FileStat `json:"files,omitempty"`
}
