package judge0

import "testing"

func TestStatusDescriptions(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{StatusInQueue, "In Queue"},
		{StatusProcessing, "Processing"},
		{StatusAccepted, "Accepted"},
		{StatusWrongAnswer, "Wrong Answer"},
		{StatusTimeLimitExceeded, "Time Limit Exceeded"},
		{StatusCompilationError, "Compilation Error"},
		{StatusRuntimeSIGSEGV, "Runtime Error (SIGSEGV)"},
		{StatusRuntimeNZEC, "Runtime Error (NZEC)"},
		{StatusInternalError, "Internal Error"},
		{StatusExecFormatError, "Exec Format Error"},
		{99, "Internal Error"},
		{0, "Internal Error"},
	}

	for _, tt := range tests {
		if got := StatusDescription(tt.id); got != tt.want {
			t.Errorf("StatusDescription(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for id := StatusInQueue; id <= StatusExecFormatError; id++ {
		want := id >= StatusAccepted
		if got := IsTerminal(id); got != want {
			t.Errorf("IsTerminal(%d) = %t, want %t", id, got, want)
		}
	}
}
