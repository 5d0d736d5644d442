package assist

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("sanitizeResponse", func() {
	It("removes a json-tagged fence", func() {
		cleaned := sanitizeResponse("```json\n{\"a\":1}\n```")
		Expect(cleaned).To(Equal(`{"a":1}`))
	})

	It("removes a bare fence", func() {
		cleaned := sanitizeResponse("```\n{\"a\":1}\n```")
		Expect(cleaned).To(Equal(`{"a":1}`))
	})

	It("removes every fence occurrence", func() {
		cleaned := sanitizeResponse("```json\n{\"a\":1}\n```\n```json\n{\"b\":2}\n```")
		Expect(cleaned).To(Equal("{\"a\":1}\n\n\n{\"b\":2}"))
	})

	It("trims surrounding whitespace", func() {
		Expect(sanitizeResponse("  {\"a\":1}\n\n")).To(Equal(`{"a":1}`))
	})

	It("leaves fence-free input unchanged", func() {
		Expect(sanitizeResponse(`{"a":1}`)).To(Equal(`{"a":1}`))
	})

	It("is idempotent", func() {
		inputs := []string{
			"```json\n{\"a\":1}\n```",
			`{"a":1}`,
			"",
			"plain prose reply",
		}
		for _, input := range inputs {
			once := sanitizeResponse(input)
			Expect(sanitizeResponse(once)).To(Equal(once))
		}
	})
})
