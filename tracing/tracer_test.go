package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/framesim/mem/framealloc"
)

type collectingTracer struct {
	events []Event
}

func (t *collectingTracer) Record(e Event) {
	t.events = append(t.events, e)
}

var _ = Describe("CollectTrace", func() {
	var (
		alloc  *framealloc.Allocator
		tracer *collectingTracer
	)

	BeforeEach(func() {
		alloc = framealloc.MakeBuilder().
			WithNumFrames(4).
			WithFrameSize(0x400).
			Build("Mem")
		tracer = &collectingTracer{}
		CollectTrace(alloc, tracer)
	})

	It("should turn allocator hooks into events", func() {
		var owner []uint64
		Expect(alloc.AllocateTo(2, &owner)).To(Succeed())
		Expect(alloc.Free(1, &owner)).To(Succeed())
		_, err := alloc.Allocate(3)
		Expect(err).To(HaveOccurred())

		Expect(tracer.events).To(HaveLen(3))

		Expect(tracer.events[0]).To(Equal(Event{
			ID:        "1",
			Domain:    "Mem",
			Kind:      "allocate",
			Requested: 2,
			Frames:    []uint64{0x400, 0x800},
			FreeAfter: 1,
		}))

		Expect(tracer.events[1].Kind).To(Equal("free"))
		Expect(tracer.events[1].Frames).To(Equal([]uint64{0x800}))

		Expect(tracer.events[2].Rejected).To(BeTrue())
		Expect(tracer.events[2].Error).To(ContainSubstring("insufficient free frames"))
	})

	It("should refuse the same tracer twice", func() {
		Expect(func() { CollectTrace(alloc, tracer) }).To(Panic())
	})
})

var _ = Describe("StatsTracer", func() {
	It("should count events by kind", func() {
		t := NewStatsTracer(nil)

		t.Record(Event{Kind: "allocate", Frames: []uint64{1, 2}, FreeAfter: 5})
		t.Record(Event{Kind: "allocate", Rejected: true, FreeAfter: 5})
		t.Record(Event{Kind: "free", Frames: []uint64{2}, FreeAfter: 6})
		t.Record(Event{Kind: "free", Rejected: true, FreeAfter: 6})

		Expect(t.Stats()).To(Equal(Stats{
			Allocations:         1,
			Frees:               1,
			RejectedAllocations: 1,
			RejectedFrees:       1,
			FramesAllocated:     2,
			FramesFreed:         1,
			LowestFree:          5,
		}))
	})

	It("should skip filtered events", func() {
		t := NewStatsTracer(func(e Event) bool { return !e.Rejected })

		t.Record(Event{Kind: "allocate", Rejected: true})

		Expect(t.Stats()).To(Equal(Stats{LowestFree: -1}))
	})
})

var _ = Describe("FormatFrames", func() {
	It("should join hex addresses", func() {
		Expect(FormatFrames(nil)).To(Equal(""))
		Expect(FormatFrames([]uint64{0x400, 0xc00})).To(Equal("0x400;0xc00"))
	})
})
