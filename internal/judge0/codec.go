package judge0

import (
	"encoding/base64"
	"fmt"
)

// SubmissionRequest is the payload for creating a submission. Stdin and
// ExpectedOutput are optional; nil fields stay absent on the wire.
type SubmissionRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          *string `json:"stdin,omitempty"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
	// Base64Encoded declares whether the string fields above are already
	// base64. The wire payload is always base64 regardless; see
	// encodeSubmission.
	Base64Encoded bool `json:"base64_encoded"`
}

// Status is the service's status object attached to every result.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// ExecutionResult is a submission's outcome as returned by the service,
// after base64 decoding. Optional fields are nil when the service omitted
// them.
type ExecutionResult struct {
	Status        Status   `json:"status"`
	Stdout        *string  `json:"stdout"`
	Stderr        *string  `json:"stderr"`
	CompileOutput *string  `json:"compile_output"`
	Message       *string  `json:"message"`
	Time          *string  `json:"time"`
	Memory        *float64 `json:"memory"`
	LanguageID    int      `json:"language_id"`
}

func encodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func decodeBase64(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	return string(b), nil
}

// encodeSubmission prepares a request for the wire. Fields are encoded only
// when the caller declared them plain, but the outgoing Base64Encoded flag
// is forced to true either way so the upstream call is always base64-safe.
func encodeSubmission(req SubmissionRequest) SubmissionRequest {
	out := req
	if !req.Base64Encoded {
		out.SourceCode = encodeBase64(req.SourceCode)
		if req.Stdin != nil {
			encoded := encodeBase64(*req.Stdin)
			out.Stdin = &encoded
		}
		if req.ExpectedOutput != nil {
			encoded := encodeBase64(*req.ExpectedOutput)
			out.ExpectedOutput = &encoded
		}
	}
	out.Base64Encoded = true
	return out
}

// decodeResult decodes the base64 output fields of a result in place. Each
// field is decoded independently; nil fields pass through untouched. A
// malformed field fails the whole result, since partial decoding would hand
// the caller a mix of plain and encoded text.
func decodeResult(res *ExecutionResult) error {
	for _, field := range []struct {
		name  string
		value **string
	}{
		{"stdout", &res.Stdout},
		{"stderr", &res.Stderr},
		{"compile_output", &res.CompileOutput},
		{"message", &res.Message},
	} {
		if *field.value == nil {
			continue
		}
		decoded, err := decodeBase64(**field.value)
		if err != nil {
			return fmt.Errorf("decode %s: %w", field.name, err)
		}
		*field.value = &decoded
	}
	return nil
}
