package models

// OutcomeStatus is the terminal state of one download task
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome records what happened to a single DownloadTask. Outcomes are
// accumulated for reporting only; a failed task is never retried.
type Outcome struct {
	Task   DownloadTask
	Status OutcomeStatus
	Path   string // final file path on success
	Reason string // skip reason ("already exists", "resolution mismatch")
	Kind   string // failure category on failure (e.g. "Network", "HTTP_404")
	Detail string // underlying error text on failure
}

// Success builds a success outcome for the task.
func Success(task DownloadTask, path string) Outcome {
	return Outcome{Task: task, Status: OutcomeSuccess, Path: path}
}

// Skipped builds a skip outcome with the given reason.
func Skipped(task DownloadTask, reason string) Outcome {
	return Outcome{Task: task, Status: OutcomeSkipped, Reason: reason}
}

// Failed builds a failure outcome with a category and detail.
func Failed(task DownloadTask, kind, detail string) Outcome {
	return Outcome{Task: task, Status: OutcomeFailed, Kind: kind, Detail: detail}
}
