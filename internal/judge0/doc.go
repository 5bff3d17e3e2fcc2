// Package judge0 implements the client for Judge0-compatible remote code
// execution services. It maintains a prioritized registry of candidate
// endpoints, submits work through whichever endpoint answers first, polls
// for results against the endpoint that issued the submission token, and
// probes endpoint health. Submission payloads are base64-encoded on the
// wire and results are decoded before being handed back to callers.
package judge0
