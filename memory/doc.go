// Package memory provides the short-term conversational buffer and the
// embedding contract used by the retrieval layers.
//
// The buffer holds the last N turns of a conversation. When a new turn
// pushes it over capacity the oldest turn is evicted and handed back to the
// caller, which decides whether to compress it into long-term storage. The
// buffer itself never talks to a store; eviction is the only path by which
// short-term content becomes eligible for long-term storage.
//
// Embedder implementations:
//   - mock: deterministic hash-based vectors for tests
//   - onnx: all-MiniLM-L6-v2 via ONNX Runtime (build tag "onnx")
//   - openai: OpenAI embeddings API
//   - cached: ristretto cache in front of any Embedder
package memory
