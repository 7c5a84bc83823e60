package conversation

import "sync"

// History 是进程内的对话记录：只追加、不去重、不设上限。
// 远端接口无状态，每次请求都会携带完整快照。
type History struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewHistory() *History {
	return &History{}
}

// Append 追加一个 turn；追加后的 turn 不再被修改。
func (h *History) Append(turn Turn) {
	h.mu.Lock()
	h.turns = append(h.turns, turn.clone())
	h.mu.Unlock()
}

// Snapshot 返回完整记录的副本，调用方可以随意持有。
func (h *History) Snapshot() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Turn, len(h.turns))
	for i, t := range h.turns {
		out[i] = t.clone()
	}
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Last 返回最近一条指定角色的 turn。
func (h *History) Last(role Role) (Turn, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i := len(h.turns) - 1; i >= 0; i-- {
		if h.turns[i].Role == role {
			return h.turns[i].clone(), true
		}
	}
	return Turn{}, false
}
