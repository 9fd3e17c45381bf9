package gateway

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// frameRecorder is a FrameWriter that captures frames for assertions
// and can be flipped into a failing sink.
type frameRecorder struct {
	mu        sync.Mutex
	frames    [][]byte
	closed    bool
	failWrite bool
}

func (r *frameRecorder) WriteFrame(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrite {
		return errors.New("write failed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	r.frames = append(r.frames, cp)
	return nil
}

func (r *frameRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *frameRecorder) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *frameRecorder) frameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *frameRecorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.frames))
	for _, f := range r.frames {
		var ef EventFrame
		if err := json.Unmarshal(f, &ef); err == nil {
			out = append(out, ef.Event)
		}
	}
	return out
}

func (r *frameRecorder) lastFrame() *EventFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	var ef EventFrame
	if err := json.Unmarshal(r.frames[len(r.frames)-1], &ef); err != nil {
		return nil
	}
	return &ef
}

func newTestIdentity(userID string) *UserIdentity {
	return &UserIdentity{UserID: userID, Email: userID + "@example.com", Role: "member"}
}
