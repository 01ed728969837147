package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hashline/hashline/internal/models"
)

type JSONOutputHandler struct {
	blockDir string
}

func NewJSONOutputHandler(outDir string) (*JSONOutputHandler, error) {
	blockDir := filepath.Join(outDir, "blocks")

	if err := os.MkdirAll(blockDir, 0755); err != nil {
		return nil, errors.WithMessage(err, "failed to create blocks directory")
	}

	return &JSONOutputHandler{blockDir: blockDir}, nil
}

func (h *JSONOutputHandler) WriteBlock(_ context.Context, block *models.Block) error {
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return errors.WithMessage(err, "failed to marshal block")
	}

	fileName := fmt.Sprintf("block_%010d.json", block.Index)
	filePath := filepath.Join(h.blockDir, fileName)
	return os.WriteFile(filePath, data, 0644)
}

func (h *JSONOutputHandler) Close() error {
	// No resources to close for file output
	return nil
}
