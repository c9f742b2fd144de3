package framealloc

// A Builder can build frame allocators.
type Builder struct {
	spec Spec
}

// MakeBuilder creates a builder with the default spec.
func MakeBuilder() Builder {
	return Builder{spec: Defaults()}
}

// WithNumFrames sets the number of frames, frame 0 included.
func (b Builder) WithNumFrames(n int) Builder {
	b.spec.NumFrames = n
	return b
}

// WithFrameSize sets the number of bytes in each frame.
func (b Builder) WithFrameSize(size uint64) Builder {
	b.spec.FrameSize = size
	return b
}

// WithSpec replaces the whole spec.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// Build returns a new allocator. It panics if the configuration is invalid;
// use NewAllocator to handle configuration errors.
func (b Builder) Build(name string) *Allocator {
	a, err := NewAllocator(name, b.spec)
	if err != nil {
		panic(err)
	}

	return a
}
