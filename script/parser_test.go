package script

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	It("should read the frame count and the commands", func() {
		s, err := Parse(strings.NewReader("1a\r\nG 0 a\nF 3 1\nB\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(s.NumFrames).To(Equal(0x1a))
		Expect(s.Commands).To(Equal([]Command{
			{Line: 2, Text: "G 0 a", Op: OpAllocate, Owner: 0, Count: 10},
			{Line: 3, Text: "F 3 1", Op: OpFree, Owner: 3, Count: 1},
			{Line: 4, Text: "B", Op: OpShowBitmap},
		}))
	})

	It("should skip blank lines before the frame count only", func() {
		s, err := Parse(strings.NewReader("\n\n8\nG 0 1\n\n  \nB\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(s.NumFrames).To(Equal(8))
		Expect(s.Commands).To(Equal([]Command{
			{Line: 4, Text: "G 0 1", Op: OpAllocate, Owner: 0, Count: 1},
			{Line: 5, Text: "", Op: OpShowBitmap},
			{Line: 6, Text: "  ", Op: OpShowBitmap},
			{Line: 7, Text: "B", Op: OpShowBitmap},
		}))
	})

	It("should treat an empty command as a bitmap request", func() {
		cmd, err := ParseCommand("")

		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(Equal(Command{Op: OpShowBitmap}))
	})

	It("should accept a 0x prefix", func() {
		s, err := Parse(strings.NewReader("0x100\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(s.NumFrames).To(Equal(256))
		Expect(s.Commands).To(BeEmpty())
	})

	It("should treat unknown tokens as bitmap requests", func() {
		cmd, err := ParseCommand("print everything")

		Expect(err).NotTo(HaveOccurred())
		Expect(cmd.Op).To(Equal(OpShowBitmap))
	})

	It("should report the line of a malformed command", func() {
		_, err := Parse(strings.NewReader("4\nG 0\n"))

		var perr *ParseError
		Expect(err).To(BeAssignableToTypeOf(perr))
		Expect(err.(*ParseError).Line).To(Equal(2))
	})

	It("should reject non-hex numbers", func() {
		_, err := ParseCommand("F 0 zz")
		Expect(err).To(HaveOccurred())

		_, err = Parse(strings.NewReader("four\n"))
		Expect(err).To(HaveOccurred())
	})

	It("should reject an empty script", func() {
		_, err := Parse(strings.NewReader("\n\n"))
		Expect(err).To(MatchError(ErrEmptyScript))
	})
})
