// Package tracing collects the frame events raised by allocators.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/framesim/idgen"
	"github.com/sarchlab/framesim/instrumentation/hooking"
	"github.com/sarchlab/framesim/mem/framealloc"
)

// A Tracer receives frame events.
type Tracer interface {
	Record(e Event)
}

// CollectTrace lets the tracer collect events from a domain. Event IDs are
// sequential per domain.
func CollectTrace(domain hooking.NamedHookable, tracer Tracer) {
	CollectTraceWithIDs(domain, tracer, idgen.NewSequential())
}

// CollectTraceWithIDs is CollectTrace with a custom ID generator.
func CollectTraceWithIDs(
	domain hooking.NamedHookable,
	tracer Tracer,
	ids idgen.Generator,
) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{
		t:      tracer,
		domain: domain.Name(),
		ids:    ids,
	})
}

// A traceHook turns allocator hooks into events.
type traceHook struct {
	t      Tracer
	domain string
	ids    idgen.Generator
}

// Func records the frame event carried by ctx.
func (h *traceHook) Func(ctx hooking.HookCtx) {
	fe, ok := ctx.Item.(framealloc.FrameEvent)
	if !ok {
		return
	}

	e := Event{
		ID:        h.ids.Generate(),
		Domain:    h.domain,
		Kind:      fe.Op.String(),
		Rejected:  ctx.Pos == framealloc.HookPosRequestRejected,
		Requested: fe.Requested,
		Frames:    fe.Addrs,
		FreeAfter: fe.FreeAfter,
	}

	if fe.Err != nil {
		e.Error = fe.Err.Error()
	}

	h.t.Record(e)
}
