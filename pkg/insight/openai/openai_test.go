package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/celestio/astromcp/pkg/insight"
	"github.com/celestio/astromcp/pkg/insight/openai"
	"github.com/celestio/astromcp/pkg/profile"
)

type recordedRequest struct {
	Path          string
	Authorization string
	Model         string
	MaxTokens     int
	Messages      []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
}

var _ = Describe("Client", func() {
	var (
		ctx      context.Context
		requests []recordedRequest
		status   int
		response string
		server   *httptest.Server
		client   *openai.Client
	)

	newProfile := func() *profile.Profile {
		p, err := profile.New("Asha Rao", "1990-05-12", "14:30", "Mumbai, India", "")
		Expect(err).NotTo(HaveOccurred())
		return p
	}

	completion := func(text string) string {
		return `{"choices":[{"message":{"content":` + mustJSON(text) + `}}]}`
	}

	BeforeEach(func() {
		ctx = context.Background()
		requests = nil
		status = http.StatusOK
		response = completion("The stars favor patience.")

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req recordedRequest
			req.Path = r.URL.Path
			req.Authorization = r.Header.Get("Authorization")

			var body struct {
				Model     string `json:"model"`
				MaxTokens int    `json:"max_tokens"`
				Messages  []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			req.Model = body.Model
			req.MaxTokens = body.MaxTokens
			req.Messages = body.Messages

			requests = append(requests, req)

			w.WriteHeader(status)
			w.Write([]byte(response))
		}))
		DeferCleanup(server.Close)

		var err error
		client, err = openai.NewClient(openai.Config{
			APIKey:  "sk-test",
			BaseURL: server.URL,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewClient", func() {
		It("requires an API key", func() {
			_, err := openai.NewClient(openai.Config{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Generate", func() {
		It("embeds the birth details and question in the prompt", func() {
			text, err := client.Generate(ctx, newProfile(), "What does my career look like?", "next 6 months")
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(ContainSubstring("The stars favor patience."))
			Expect(text).To(ContainSubstring("Asha Rao"))

			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Path).To(Equal("/v1/chat/completions"))
			Expect(requests[0].Authorization).To(Equal("Bearer sk-test"))
			Expect(requests[0].Model).To(Equal("gpt-4o-mini"))
			Expect(requests[0].Messages).To(HaveLen(2))
			Expect(requests[0].Messages[0].Role).To(Equal("system"))
			Expect(requests[0].Messages[1].Content).To(ContainSubstring("Born on 1990-05-12 at 14:30 in Mumbai, India"))
			Expect(requests[0].Messages[1].Content).To(ContainSubstring("What does my career look like?"))
			Expect(requests[0].Messages[1].Content).To(ContainSubstring("next 6 months"))
		})

		It("asks for a full birth chart when no question is given", func() {
			_, err := client.Generate(ctx, newProfile(), "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(requests[0].Messages[1].Content).To(ContainSubstring("birth chart analysis"))
		})

		It("surfaces API errors as upstream errors", func() {
			status = http.StatusUnauthorized
			response = `{"error":{"message":"Incorrect API key provided"}}`

			_, err := client.Generate(ctx, newProfile(), "career?", "")
			Expect(errors.Is(err, insight.ErrUpstream)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("Incorrect API key"))
		})

		It("treats an empty choice list as an upstream error", func() {
			response = `{"choices":[]}`
			_, err := client.Generate(ctx, newProfile(), "career?", "")
			Expect(errors.Is(err, insight.ErrUpstream)).To(BeTrue())
		})

		It("surfaces network failures as upstream errors", func() {
			server.Close()
			_, err := client.Generate(ctx, newProfile(), "career?", "")
			Expect(errors.Is(err, insight.ErrUpstream)).To(BeTrue())
		})
	})

	Describe("CheckKey", func() {
		It("sends a minimal one-token request", func() {
			Expect(client.CheckKey(ctx)).To(Succeed())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].MaxTokens).To(Equal(1))
		})

		It("reports an invalid key", func() {
			status = http.StatusUnauthorized
			response = `{"error":{"message":"Incorrect API key provided"}}`
			Expect(client.CheckKey(ctx)).NotTo(Succeed())
		})
	})
})

func mustJSON(s string) string {
	b, err := json.Marshal(s)
	Expect(err).NotTo(HaveOccurred())
	return string(b)
}
