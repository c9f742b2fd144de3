package storage_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/framesim/mem/storage"
)

var _ = Describe("Storage", func() {
	It("should read and write in single unit", func() {
		s := storage.New(4096, 1024)
		Expect(s.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := s.Read(0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = s.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read and write across units", func() {
		s := storage.New(4096, 1024)
		Expect(s.Write(1022, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := s.Read(1022, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should read zeros from untouched units", func() {
		s := storage.New(4096, 1024)

		res, err := s.Read(2048, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(make([]byte, 8)))
	})

	It("should clear a range that spans units", func() {
		s := storage.New(4096, 1024)
		data := make([]byte, 2048)
		for i := range data {
			data[i] = 0xff
		}
		Expect(s.Write(0, data)).To(Succeed())

		Expect(s.Clear(1000, 100)).To(Succeed())

		res, _ := s.Read(999, 102)
		Expect(res[0]).To(Equal(byte(0xff)))
		Expect(res[1:101]).To(Equal(make([]byte, 100)))
		Expect(res[101]).To(Equal(byte(0xff)))
	})

	It("should expose the live unit", func() {
		s := storage.New(4096, 1024)
		unit, err := s.Unit(5)
		Expect(err).NotTo(HaveOccurred())
		Expect(unit).To(HaveLen(1024))

		unit[7] = 0x42

		res, _ := s.Read(7, 1)
		Expect(res).To(Equal([]byte{0x42}))
	})

	It("should return error if accessing over the capacity", func() {
		s := storage.New(4096, 1024)

		err := s.Write(4096, []byte{1})
		Expect(err).To(MatchError(storage.ErrAddressOutOfRange))

		_, err = s.Read(4095, 2)
		Expect(err).To(MatchError(storage.ErrAddressOutOfRange))

		_, err = s.Unit(4096)
		Expect(err).To(MatchError(storage.ErrAddressOutOfRange))
	})

	It("should panic on a unit size that is not a power of two", func() {
		Expect(func() { storage.New(4096, 1000) }).To(Panic())
	})
})
