package news

import "context"

type NewsAPI interface {
	// Headlines returns up to limit top headline titles.
	Headlines(ctx context.Context, limit int) ([]string, error)
}
