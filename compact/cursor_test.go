package compact

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cursor", func() {
	Context("ReadByte", func() {
		It("consumes bytes in order", func() {
			c := NewCursor([]byte{0x01, 0x02})

			b, err := c.ReadByte()
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal(byte(0x01)))

			b, err = c.ReadByte()
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal(byte(0x02)))

			Expect(c.Offset()).To(Equal(2))
			Expect(c.Remaining()).To(Equal(0))
		})

		It("fails past the end without moving the position", func() {
			c := NewCursor([]byte{})

			_, err := c.ReadByte()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrBufferOverflow)).To(BeTrue())
			Expect(c.Offset()).To(Equal(0))
		})
	})

	Context("ReadBytes", func() {
		It("returns a view of the requested length", func() {
			c := NewCursor([]byte{0x0a, 0x0b, 0x0c})

			b, err := c.ReadBytes(2)
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal([]byte{0x0a, 0x0b}))
			Expect(c.Remaining()).To(Equal(1))
		})

		It("rejects reads longer than the remaining region", func() {
			c := NewCursor([]byte{0x0a})

			_, err := c.ReadBytes(2)
			Expect(errors.Is(err, ErrBufferOverflow)).To(BeTrue())
			Expect(c.Offset()).To(Equal(0))
		})

		It("rejects negative lengths", func() {
			c := NewCursor([]byte{0x0a})

			_, err := c.ReadBytes(-1)
			Expect(errors.Is(err, ErrBufferOverflow)).To(BeTrue())
		})
	})

	Context("ReadUint16BE", func() {
		It("composes two bytes big-endian", func() {
			c := NewCursor([]byte{0x01, 0xc8})

			v, err := c.ReadUint16BE()
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint16(0x01c8)))
		})
	})
})

var _ = Describe("Varints", func() {
	Context("ReadUvarint", func() {
		It("reads a single-byte value", func() {
			v, err := ReadUvarint(NewCursor([]byte{0x7f}), MaxVarintLen64)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint64(127)))
		})

		It("reads a multi-byte value", func() {
			v, err := ReadUvarint(NewCursor([]byte{0xac, 0x02}), MaxVarintLen64)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint64(300)))
		})

		It("fails when the run exceeds the byte ceiling", func() {
			_, err := ReadUvarint(NewCursor([]byte{0x80, 0x80, 0x80, 0x01}), MaxVarintLen16)
			Expect(errors.Is(err, ErrMalformedVarint)).To(BeTrue())
		})

		It("fails on a truncated run", func() {
			_, err := ReadUvarint(NewCursor([]byte{0x80}), MaxVarintLen64)
			Expect(errors.Is(err, ErrBufferOverflow)).To(BeTrue())
		})
	})

	Context("ReadUvarintSeed", func() {
		It("treats the seed as the first byte of the run", func() {
			v, err := ReadUvarintSeed(NewCursor([]byte{0x02}), 0xac, MaxVarintLen32)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint64(300)))
		})

		It("completes immediately when the seed has no continuation bit", func() {
			v, err := ReadUvarintSeed(NewCursor(nil), 0x05, MaxVarintLen32)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint64(5)))
		})
	})

	Context("ReadVarintBytes", func() {
		It("returns the raw run without interpretation", func() {
			c := NewCursor([]byte{0xac, 0x02, 0xff})

			b, err := ReadVarintBytes(c, MaxVarintLen32)
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal([]byte{0xac, 0x02}))
			Expect(c.Remaining()).To(Equal(1))
		})

		It("fails when the run exceeds the byte ceiling", func() {
			_, err := ReadVarintBytes(NewCursor([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}), MaxVarintLen32)
			Expect(errors.Is(err, ErrMalformedVarint)).To(BeTrue())
		})
	})

	Context("ZigZag", func() {
		It("maps unsigned values back to signed", func() {
			Expect(ZigZag(0)).To(Equal(int64(0)))
			Expect(ZigZag(1)).To(Equal(int64(-1)))
			Expect(ZigZag(2)).To(Equal(int64(1)))
			Expect(ZigZag(3)).To(Equal(int64(-2)))
			Expect(ZigZag(300)).To(Equal(int64(150)))
			Expect(ZigZag(0xffffffffffffffff)).To(Equal(int64(-9223372036854775808)))
		})
	})
})
