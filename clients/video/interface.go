package video

import (
	"context"
	"errors"
)

var ErrNoResults = errors.New("no video found")

type VideoAPI interface {
	// Search returns the watch URL of the first result for query.
	Search(ctx context.Context, query string) (string, error)
}
