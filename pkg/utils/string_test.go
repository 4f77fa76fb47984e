package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("truncate", func() {
	It("returns the string unchanged when within the limit", func() {
		Expect(Truncate("short", 10)).To(Equal("short"))
	})

	It("returns the string unchanged when exactly at the limit", func() {
		Expect(Truncate("12345", 5)).To(Equal("12345"))
	})

	It("truncates with ellipsis when over the limit", func() {
		result := Truncate("this is a long string", 10)
		Expect(result).To(Equal("this is a ..."))
	})
})

var _ = Describe("digits", func() {
	It("passes through a bare digit string", func() {
		Expect(Digits("919876543210")).To(Equal("919876543210"))
	})

	It("strips plus signs, spaces, and separators", func() {
		Expect(Digits("+91 98765-43210")).To(Equal("919876543210"))
	})

	It("returns empty for a string without digits", func() {
		Expect(Digits("no digits here")).To(Equal(""))
	})
})
