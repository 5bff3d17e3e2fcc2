package judge0

// Execution status IDs as reported by the service. An execution is terminal
// once its status reaches StatusAccepted or beyond; ids 1 and 2 mean the
// submission is still moving through the queue.
const (
	StatusInQueue           = 1
	StatusProcessing        = 2
	StatusAccepted          = 3
	StatusWrongAnswer       = 4
	StatusTimeLimitExceeded = 5
	StatusCompilationError  = 6
	StatusRuntimeSIGSEGV    = 7
	StatusRuntimeSIGXFSZ    = 8
	StatusRuntimeSIGFPE     = 9
	StatusRuntimeSIGABRT    = 10
	StatusRuntimeNZEC       = 11
	StatusRuntimeOther      = 12
	StatusInternalError     = 13
	StatusExecFormatError   = 14
)

var statusDescriptions = map[int]string{
	StatusInQueue:           "In Queue",
	StatusProcessing:        "Processing",
	StatusAccepted:          "Accepted",
	StatusWrongAnswer:       "Wrong Answer",
	StatusTimeLimitExceeded: "Time Limit Exceeded",
	StatusCompilationError:  "Compilation Error",
	StatusRuntimeSIGSEGV:    "Runtime Error (SIGSEGV)",
	StatusRuntimeSIGXFSZ:    "Runtime Error (SIGXFSZ)",
	StatusRuntimeSIGFPE:     "Runtime Error (SIGFPE)",
	StatusRuntimeSIGABRT:    "Runtime Error (SIGABRT)",
	StatusRuntimeNZEC:       "Runtime Error (NZEC)",
	StatusRuntimeOther:      "Runtime Error (Other)",
	StatusInternalError:     "Internal Error",
	StatusExecFormatError:   "Exec Format Error",
}

// StatusDescription returns the human-readable description for a status id,
// falling back to "Internal Error" for ids outside the table.
func StatusDescription(id int) string {
	if desc, ok := statusDescriptions[id]; ok {
		return desc
	}
	return statusDescriptions[StatusInternalError]
}

// IsTerminal reports whether a status id will not change with further
// polling.
func IsTerminal(id int) bool {
	return id >= StatusAccepted
}
