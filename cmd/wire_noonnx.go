//go:build !onnx

package cmd

import (
	"errors"

	"github.com/mnemosyne-ai/mnemo/config"
	"github.com/mnemosyne-ai/mnemo/memory"
)

func newONNXEmbedder(*config.Config) (memory.Embedder, error) {
	return nil, errors.New(`onnx embedder requires building with -tags onnx`)
}
