package docstore

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidDocument rejects writes that no agent-scoped query could read
// back.
var ErrInvalidDocument = errors.New("document has no agentId")

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
