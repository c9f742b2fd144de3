package script

import (
	"bytes"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/framesim/mem/framealloc"
)

var _ = Describe("Runner", func() {
	var (
		mockCtrl *gomock.Controller
		alloc    *MockFrameAllocator
		out      *bytes.Buffer
		r        *Runner
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		alloc = NewMockFrameAllocator(mockCtrl)
		out = new(bytes.Buffer)
		r = NewRunner(alloc, DefaultNumOwners, out)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should print the header in hex", func() {
		alloc.EXPECT().NumFrames().Return(0x20)

		Expect(r.WriteHeader()).To(Succeed())
		Expect(out.String()).To(Equal("+20\n"))
	})

	It("should allocate into the owner's list", func() {
		alloc.EXPECT().
			AllocateTo(2, gomock.Any()).
			DoAndReturn(func(count int, owned *[]uint64) error {
				*owned = append(*owned, 0x400, 0x800)
				return nil
			})
		alloc.EXPECT().FreeCount().Return(13)

		res, err := r.Execute(Command{Text: "G 1 2", Op: OpAllocate, Owner: 1, Count: 2})

		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(Result{OK: true, FreeCount: 13}))
		Expect(out.String()).To(Equal("+G 1 2\n T d\n"))
		Expect(r.OwnerFrames()[1]).To(Equal([]uint64{0x400, 0x800}))
	})

	It("should print F for a rejected free", func() {
		alloc.EXPECT().Free(3, gomock.Any()).Return(framealloc.ErrInsufficientOwnedFrames)
		alloc.EXPECT().FreeCount().Return(2)

		res, err := r.Execute(Command{Text: "F 0 3", Op: OpFree, Owner: 0, Count: 3})

		Expect(err).NotTo(HaveOccurred())
		Expect(res.OK).To(BeFalse())
		Expect(res.Err).To(MatchError(framealloc.ErrInsufficientOwnedFrames))
		Expect(out.String()).To(Equal("+F 0 3\n F 2\n"))
	})

	It("should print the bitmap", func() {
		alloc.EXPECT().BitmapString().Return("0e 00 ")
		alloc.EXPECT().FreeCount().Return(3)

		_, err := r.Execute(Command{Text: "B", Op: OpShowBitmap})

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("+B\n0e 00 \n"))
	})

	It("should fail on an owner without a slot", func() {
		_, err := r.Execute(Command{Line: 7, Text: "G 4 1", Op: OpAllocate, Owner: 4, Count: 1})

		Expect(err).To(MatchError(ErrInvalidOwner))
		Expect(out.String()).To(Equal("+G 4 1\n"))
		Expect(r.Executed()).To(Equal(0))
	})

	It("should report progress", func() {
		progress := NewMockProgress(mockCtrl)
		r.WithProgress(progress)

		alloc.EXPECT().BitmapString().Return("")
		alloc.EXPECT().FreeCount().Return(0)
		progress.EXPECT().IncrementFinished(uint64(1))

		_, err := r.Execute(Command{Op: OpShowBitmap})
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Executed()).To(Equal(1))
	})
})

var _ = Describe("Runner with a real allocator", func() {
	It("should reproduce the reference output", func() {
		f, err := os.Open("testdata/sample.txt")
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		s, err := Parse(f)
		Expect(err).NotTo(HaveOccurred())

		alloc := framealloc.MakeBuilder().
			WithNumFrames(s.NumFrames).
			Build("Mem")
		out := new(bytes.Buffer)

		Expect(NewRunner(alloc, DefaultNumOwners, out).Run(s)).To(Succeed())

		rest := strings.Repeat("00 ", framealloc.BitmapBytes-1)
		Expect(out.String()).To(Equal(
			"+8\n" +
				"+G 0 3\n T 4\n" +
				"+G 1 2\n T 2\n" +
				"+B\nc0 " + rest + "\n" +
				"+F 0 2\n T 4\n" +
				"+G 2 3\n T 1\n" +
				"+F 1 5\n F 1\n" +
				"+B\n80 " + rest + "\n" +
				"+G 3 1\n T 0\n" +
				"+B\n00 " + rest + "\n"))
	})
})

var _ = Describe("Runner logging", func() {
	run := func(level logrus.Level) string {
		logs := new(bytes.Buffer)
		logger := logrus.New()
		logger.SetOutput(logs)
		logger.SetLevel(level)

		s, err := Parse(strings.NewReader("4\nG 0 1\nF 1 1\n\n"))
		Expect(err).NotTo(HaveOccurred())

		alloc := framealloc.MakeBuilder().WithNumFrames(4).Build("Mem")
		r := NewRunner(alloc, DefaultNumOwners, new(bytes.Buffer)).
			WithLogger(logger)
		Expect(r.Run(s)).To(Succeed())

		return logs.String()
	}

	It("should stay quiet at the info level", func() {
		Expect(run(logrus.InfoLevel)).To(BeEmpty())
	})

	It("should log commands and completion at the debug level", func() {
		logs := run(logrus.DebugLevel)

		Expect(logs).To(ContainSubstring("command executed"))
		Expect(logs).To(ContainSubstring("command rejected"))
		Expect(logs).To(ContainSubstring("script completed"))
	})
})

var _ = Describe("Runner inspection", func() {
	It("should copy owner lists", func() {
		alloc := framealloc.MakeBuilder().WithNumFrames(4).Build("Mem")
		r := NewRunner(alloc, 2, new(bytes.Buffer))
		_, err := r.Execute(Command{Op: OpAllocate, Owner: 0, Count: 1})
		Expect(err).NotTo(HaveOccurred())

		frames := r.OwnerFrames()
		frames[0][0] = 0

		Expect(r.OwnerFrames()[0]).To(Equal([]uint64{framealloc.DefaultFrameSize}))

		called := false
		r.Inspect(func() { called = alloc.FreeCount() == 2 })
		Expect(called).To(BeTrue())
	})
})
