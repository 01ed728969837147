package output

import (
	"context"

	"github.com/hashline/hashline/internal/models"
)

// OutputHandler renders sealed blocks for display or export. The ledger
// core only exposes readable fields; formatting lives here.
type OutputHandler interface {
	WriteBlock(ctx context.Context, block *models.Block) error
	Close() error
}
