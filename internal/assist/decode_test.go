package assist

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("decodeResponse", func() {
	It("decodes a valid JSON object", func() {
		value, err := decodeResponse(`{"clientName":"Acme"}`)
		Expect(err).NotTo(HaveOccurred())
		obj, ok := value.(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(obj["clientName"]).To(Equal("Acme"))
	})

	It("fails on an empty string", func() {
		_, err := decodeResponse("")
		Expect(IsKind(err, KindMalformedResponse)).To(BeTrue())
	})

	It("fails on truncated JSON", func() {
		_, err := decodeResponse(`{"clientName":"Acme"`)
		Expect(IsKind(err, KindMalformedResponse)).To(BeTrue())
	})

	It("fails on unquoted keys", func() {
		_, err := decodeResponse(`{clientName: Acme}`)
		Expect(IsKind(err, KindMalformedResponse)).To(BeTrue())
	})

	It("fails when prose precedes the payload", func() {
		_, err := decodeResponse(`Sure! Here's your data: {"clientName":"Acme"}`)
		Expect(IsKind(err, KindMalformedResponse)).To(BeTrue())
	})

	It("fails when prose follows the payload", func() {
		_, err := decodeResponse(`{"clientName":"Acme"} Hope that helps!`)
		Expect(IsKind(err, KindMalformedResponse)).To(BeTrue())
	})
})
