// Package artifact records generation replies.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Artifact is one reply from a generation service.
type Artifact struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	Adapter    string            `json:"adapter"`
	Model      string            `json:"model"`
	PromptHash string            `json:"prompt_hash"`
	Cached     bool              `json:"cached"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	Hash       string            `json:"hash"`
}

// New creates an Artifact with computed hashes.
func New(content, adapter, model, prompt string) *Artifact {
	a := &Artifact{
		ID:         uuid.NewString(),
		Content:    content,
		Adapter:    adapter,
		Model:      model,
		PromptHash: Key(adapter, model, prompt),
		Metadata:   make(map[string]string),
		CreatedAt:  time.Now().UTC(),
	}
	a.Hash = a.computeHash()
	return a
}

// FromCache rebuilds the Artifact for a cached reply.
func FromCache(content, adapter, model, prompt string) *Artifact {
	a := New(content, adapter, model, prompt)
	a.Cached = true
	return a
}

// WithMetadata returns a copy of a with key set.
func (a *Artifact) WithMetadata(key, value string) *Artifact {
	out := *a
	out.Metadata = copyMetadata(a.Metadata)
	out.Metadata[key] = value
	return &out
}

// Key identifies a prompt sent to one adapter model. Replies are cached
// under it.
func Key(adapter, model, prompt string) string {
	h := sha256.New()
	h.Write([]byte(adapter))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}

func (a *Artifact) computeHash() string {
	h := sha256.New()
	h.Write([]byte(a.Content))
	h.Write([]byte(a.Adapter))
	h.Write([]byte(a.Model))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func copyMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
