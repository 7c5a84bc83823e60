package attachment

import (
	"context"
	"sync"
)

// Handler holds at most one pending attachment. A new selection replaces
// the previous one.
type Handler struct {
	mu      sync.Mutex
	pending *Attachment
}

func NewHandler() *Handler {
	return &Handler{}
}

// Select validates, encodes and stores f. On any error the pending
// attachment is left untouched.
func (h *Handler) Select(ctx context.Context, f File) (Attachment, error) {
	att, err := Encode(ctx, f)
	if err != nil {
		return Attachment{}, err
	}
	h.Set(att)
	return att, nil
}

func (h *Handler) Set(att Attachment) {
	h.mu.Lock()
	h.pending = &att
	h.mu.Unlock()
}

func (h *Handler) Pending() (Attachment, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == nil {
		return Attachment{}, false
	}
	return *h.pending, true
}

func (h *Handler) Cancel() {
	h.mu.Lock()
	h.pending = nil
	h.mu.Unlock()
}

// Take returns the pending attachment and clears it in one step, so a
// selection made while a send is in flight survives for the next message.
func (h *Handler) Take() *Attachment {
	h.mu.Lock()
	defer h.mu.Unlock()
	att := h.pending
	h.pending = nil
	return att
}
