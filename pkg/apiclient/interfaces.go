package apiclient

import "context"

// API is the caller-facing surface of Client, for mocking in consumer code.
type API interface {
	// Execute sends a request with an explicit method (GET, POST or PUT).
	Execute(ctx context.Context, method, path string, params Params, body any) (*Response, error)

	// Get performs a GET request.
	Get(ctx context.Context, path string, params Params, body any) (*Response, error)

	// Post performs a POST request with a JSON body.
	Post(ctx context.Context, path string, params Params, body any) (*Response, error)

	// Put performs a PUT request with a JSON body.
	Put(ctx context.Context, path string, params Params, body any) (*Response, error)
}

// Ensure Client implements API interface.
var _ API = (*Client)(nil)
