package v1

import (
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/postpilot-ai/postpilot/app/core"
	"github.com/postpilot-ai/postpilot/pkg/limiter"
)

// One limiter for the whole process. Every paid model call goes through it,
// replies and memory summaries alike, so bursts of messages serialize into
// evenly spaced upstream requests.
var (
	modelLimiter *limiter.CallLimiter
	limiterOnce  sync.Once
)

func ModelLimiter(core *core.Core) *limiter.CallLimiter {
	limiterOnce.Do(func() {
		modelLimiter = limiter.New(time.Duration(core.Cfg().RAG.RateLimitIntervalMS) * time.Millisecond)
	})
	return modelLimiter
}

// Per-conversation mutexes keep message handling ordered within a
// conversation while different conversations proceed in parallel.
var convLocks = cmap.New[*sync.Mutex]()

func conversationLock(conversationID string) *sync.Mutex {
	if mu, ok := convLocks.Get(conversationID); ok {
		return mu
	}
	mu := &sync.Mutex{}
	if !convLocks.SetIfAbsent(conversationID, mu) {
		mu, _ = convLocks.Get(conversationID)
	}
	return mu
}
