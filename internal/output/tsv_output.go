package output

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/hashline/hashline/internal/models"
)

// TSVOutputHandler writes one line per sealed block: index, hash and the
// compacted JSON payload, tab-separated.
type TSVOutputHandler struct {
	file   *os.File
	writer *bufio.Writer
}

func NewTSVOutputHandler(outputPath string) (*TSVOutputHandler, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create blocks TSV file")
	}

	return &TSVOutputHandler{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (h *TSVOutputHandler) WriteBlock(_ context.Context, block *models.Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return errors.WithMessage(err, "failed to marshal block")
	}

	compactData := new(bytes.Buffer)
	if err := json.Compact(compactData, data); err != nil {
		return errors.WithMessagef(err, "failed to compact JSON data for block %d", block.Index)
	}

	line := fmt.Sprintf("%d\t%s\t%s\n", block.Index, block.Hash, compactData.String())
	if _, err := h.writer.WriteString(line); err != nil {
		return errors.WithMessage(err, "failed to write to blocks TSV file")
	}

	return nil
}

func (h *TSVOutputHandler) Close() error {
	if err := h.writer.Flush(); err != nil {
		return errors.WithMessage(err, "failed to flush blocks TSV file")
	}
	return h.file.Close()
}
