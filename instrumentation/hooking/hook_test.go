package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingHook struct {
	calls []*HookPos
}

func (h *countingHook) Func(ctx HookCtx) {
	h.calls = append(h.calls, ctx.Pos)
}

var _ = Describe("HookableBase", func() {
	var (
		base  *HookableBase
		posA  = &HookPos{Name: "A"}
		posB  = &HookPos{Name: "B"}
		inner *countingHook
	)

	BeforeEach(func() {
		base = &HookableBase{}
		inner = &countingHook{}
	})

	It("should invoke hooks in registration order", func() {
		order := []string{}
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, "first") }))
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, "second") }))

		base.InvokeHook(HookCtx{Pos: posA})

		Expect(order).To(Equal([]string{"first", "second"}))
		Expect(base.NumHooks()).To(Equal(2))
	})

	It("should panic when the same hook is registered twice", func() {
		base.AcceptHook(inner)

		Expect(func() { base.AcceptHook(inner) }).To(Panic())
	})

	It("should filter by position", func() {
		base.AcceptHook(&PosFilter{Positions: []*HookPos{posB}, Next: inner})

		base.InvokeHook(HookCtx{Pos: posA})
		base.InvokeHook(HookCtx{Pos: posB})
		base.InvokeHook(HookCtx{Pos: posA})

		Expect(inner.calls).To(Equal([]*HookPos{posB}))
	})
})
