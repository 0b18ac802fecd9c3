package util

import (
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Utility Package", func() {
	Context("Compress and Gunzip", func() {
		It("round-trips data", func() {
			original := []byte("thrift compact payload bytes")

			compressed, err := Compress(original)
			Expect(err).ToNot(HaveOccurred())
			Expect(compressed).ToNot(Equal(original))

			decompressed, err := Gunzip(compressed)
			Expect(err).ToNot(HaveOccurred())
			Expect(decompressed).To(Equal(original))
		})

		It("rejects data without a gzip header", func() {
			_, err := Gunzip([]byte("not gzip"))

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unable to create new reader"))
		})
	})

	Context("DirsExist", func() {
		It("accepts existing directories", func() {
			dir, err := os.MkdirTemp("", "thriftwire-test")
			Expect(err).ToNot(HaveOccurred())

			defer os.RemoveAll(dir)

			Expect(DirsExist([]string{dir})).To(Succeed())
		})

		It("names every missing directory", func() {
			err := DirsExist([]string{"/does/not/exist", "/also/missing"})

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("'/does/not/exist' does not exist"))
			Expect(err.Error()).To(ContainSubstring("'/also/missing' does not exist"))
		})
	})
})
