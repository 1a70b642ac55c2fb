//go:build onnx

package cmd

import (
	"github.com/mnemosyne-ai/mnemo/config"
	"github.com/mnemosyne-ai/mnemo/memory"
	"github.com/mnemosyne-ai/mnemo/memory/embedder/onnx"
)

func newONNXEmbedder(cfg *config.Config) (memory.Embedder, error) {
	return onnx.New(onnx.Config{
		ModelPath:     cfg.Embedding.ONNX.ModelPath,
		TokenizerPath: cfg.Embedding.ONNX.TokenizerPath,
		LibraryPath:   cfg.Embedding.ONNX.LibraryPath,
	})
}
