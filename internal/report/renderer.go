package report

import "context"

// Renderer turns a markdown document into a paginated binary artifact.
// Builders stay testable without a browser by depending on this interface.
type Renderer interface {
	Render(ctx context.Context, markdown string) ([]byte, error)
}
