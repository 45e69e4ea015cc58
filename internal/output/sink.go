package output

import (
	"context"
	"errors"

	"github.com/tuannm99/novasort/internal/storage"
)

const DefaultPath = "output/sorted.csv"

var ErrPublish = errors.New("output: publish failed")

// Sink takes the final run of a sort and makes it available as plain text
// somewhere. It returns where the result ended up.
type Sink interface {
	Publish(ctx context.Context, runPath string, codec storage.Codec) (string, error)
}
