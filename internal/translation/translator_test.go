package translation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/blue-collar-job-portal/moderation/internal/translation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	openai "github.com/sashabaranov/go-openai"
)

var _ = Describe("openai translator", func() {
	var (
		srv      *httptest.Server
		status   int
		reply    string
		received openai.ChatCompletionRequest
	)

	BeforeEach(func() {
		status = http.StatusOK
		reply = "Anzeige unvollständig"
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/chat/completions"))
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			if status != http.StatusOK {
				_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
				return
			}
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply}}},
			})
		}))
	})

	AfterEach(func() {
		srv.Close()
	})

	It("translates through the chat completion api", func() {
		t := translation.NewOpenAITranslator("key", srv.URL, "gpt-4o-mini", time.Second)

		out, err := t.Translate(context.TODO(), "incomplete listing", "en", "de")
		Expect(err).To(BeNil())
		Expect(out).To(Equal("Anzeige unvollständig"))
		Expect(received.Model).To(Equal("gpt-4o-mini"))
		Expect(received.Messages).To(HaveLen(2))
		Expect(received.Messages[1].Content).To(Equal("incomplete listing"))
	})

	It("skips the call when the locales match", func() {
		t := translation.NewOpenAITranslator("key", "http://127.0.0.1:1", "gpt-4o-mini", time.Second)

		out, err := t.Translate(context.TODO(), "incomplete listing", "en", "en")
		Expect(err).To(BeNil())
		Expect(out).To(Equal("incomplete listing"))
	})

	It("fails on an api error", func() {
		status = http.StatusInternalServerError
		t := translation.NewOpenAITranslator("key", srv.URL, "gpt-4o-mini", time.Second)

		_, err := t.Translate(context.TODO(), "incomplete listing", "en", "de")
		Expect(err).NotTo(BeNil())
	})

	It("fails on an empty answer", func() {
		reply = "  "
		t := translation.NewOpenAITranslator("key", srv.URL, "gpt-4o-mini", time.Second)

		_, err := t.Translate(context.TODO(), "incomplete listing", "en", "de")
		Expect(err).NotTo(BeNil())
	})
})
