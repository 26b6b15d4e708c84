package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate. Callers can use errors.Is for
// programmatic handling while the messages stay human-readable.
var (
	// ErrNoRoot is returned when no root category is specified.
	ErrNoRoot = errors.New("no root category specified: pass a category title such as \"Category:Certosa (Bologna)\"")

	// ErrInvalidEndpoint is returned when the API endpoint is not an
	// absolute URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an absolute URL to a MediaWiki api.php")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the content batch size is not
	// positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMemberLimit is returned when the membership page size is
	// outside 1..500, the API's supported range.
	ErrInvalidMemberLimit = errors.New("invalid member limit: must be between 1 and 500")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")
)
