// Package engine provides the asynchronous submission engine. It records a
// queued submission, hands it to the execution client in a goroutine, pins
// the endpoint that accepted it, polls that endpoint until the result is
// terminal, and writes the decoded outcome back to the store.
package engine
