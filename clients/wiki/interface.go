package wiki

import (
	"context"
	"errors"
)

// ErrNotFound means the search returned no page.
var ErrNotFound = errors.New("no matching article")

type WikiAPI interface {
	// Summary returns the opening sentences of the best matching article.
	Summary(ctx context.Context, query string, sentences int) (string, error)
}
