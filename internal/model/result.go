package model

// Outcome is the terminal state of a job.
type Outcome int

const (
	// OutcomeDownloaded means the file was fetched and tagged.
	OutcomeDownloaded Outcome = iota

	// OutcomeExisting means the file was already on disk; it was tagged
	// but not fetched again.
	OutcomeExisting

	// OutcomeNotFound means the search returned no candidate.
	OutcomeNotFound

	// OutcomeFetchFailed means the download tool reported an error.
	OutcomeFetchFailed

	// OutcomeTagFailed means the file is on disk but tagging failed.
	OutcomeTagFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeExisting:
		return "existing"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeTagFailed:
		return "tag_failed"
	default:
		return "unknown"
	}
}

// HasFile reports whether the outcome leaves an audio file at the job's
// output path.
func (o Outcome) HasFile() bool {
	return o == OutcomeDownloaded || o == OutcomeExisting || o == OutcomeTagFailed
}

// Result is the terminal report for one job.
type Result struct {
	Job      Job
	Outcome  Outcome
	MatchURL string
	Path     string
	Err      error
}

// Summary aggregates the results of a run.
type Summary struct {
	Collection  string
	Dir         string
	Total       int
	Downloaded  int
	Existing    int
	NotFound    int
	FetchFailed int
	TagFailed   int
}

// Add counts one result.
func (s *Summary) Add(r Result) {
	s.Total++
	switch r.Outcome {
	case OutcomeDownloaded:
		s.Downloaded++
	case OutcomeExisting:
		s.Existing++
	case OutcomeNotFound:
		s.NotFound++
	case OutcomeFetchFailed:
		s.FetchFailed++
	case OutcomeTagFailed:
		s.TagFailed++
	}
}

// Files returns how many results left a file on disk.
func (s Summary) Files() int {
	return s.Downloaded + s.Existing + s.TagFailed
}
