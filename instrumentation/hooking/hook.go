// Package hooking lets observers attach to the allocation sites of a frame
// allocator without the allocator knowing who is listening.
package hooking

// HookPos names a site where a hookable domain raises hooks.
type HookPos struct {
	Name string
}

// HookCtx carries what a hook needs to know about the site that fired it.
type HookCtx struct {
	// Domain is the object raising the hook.
	Domain Hookable

	// Pos identifies the site.
	Pos *HookPos

	// Item is the subject of the hook, for example a frame event.
	Item any

	// Detail is optional and may be nil.
	Detail any
}

// Hookable defines an object that accepts hooks.
type Hookable interface {
	// AcceptHook registers a hook. Hooks are registered before the domain
	// starts serving requests and stay attached for its lifetime.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook
}

// NamedHookable is a Hookable that can identify itself in traces.
type NamedHookable interface {
	Hookable
	Name() string
	InvokeHook(ctx HookCtx)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts an ordinary function to the Hook interface. HookFunc values
// are exempt from the duplicate check of HookableBase.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// PosFilter forwards only the hook invocations raised at one of the listed
// positions.
type PosFilter struct {
	Positions []*HookPos
	Next      Hook
}

// Func forwards ctx to Next if ctx.Pos is one of Positions.
func (f *PosFilter) Func(ctx HookCtx) {
	for _, p := range f.Positions {
		if p == ctx.Pos {
			f.Next.Func(ctx)
			return
		}
	}
}

// A HookableBase provides the bookkeeping for types that implement Hookable.
type HookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); isFunc {
		return
	}

	for _, registered := range h.hookList {
		if _, isFunc := registered.(HookFunc); isFunc {
			continue
		}

		if registered == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
