package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/celestio/astromcp/pkg/config"
)

var _ = Describe("Config", func() {
	Describe("NewDefaultConfig", func() {
		It("defaults the fallback policy to degrade", func() {
			cfg := config.NewDefaultConfig()
			Expect(cfg.Storage.FallbackPolicy).To(Equal(config.FallbackDegrade))
		})

		It("defaults the OpenAI model and base URL", func() {
			cfg := config.NewDefaultConfig()
			Expect(cfg.OpenAI.Model).To(Equal("gpt-4o-mini"))
			Expect(cfg.OpenAI.BaseURL).To(Equal("https://api.openai.com"))
		})
	})

	Describe("InitViper", func() {
		It("applies defaults when no config file exists", func() {
			v, err := config.InitViper("")
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.Listen).To(Equal(":8086"))
		})

		It("binds the well-known unprefixed environment variables", func() {
			os.Setenv("AUTH_TOKEN", "sekret")
			os.Setenv("MY_NUMBER", "919876543210")
			DeferCleanup(func() {
				os.Unsetenv("AUTH_TOKEN")
				os.Unsetenv("MY_NUMBER")
			})

			v, err := config.InitViper("")
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Auth.Token).To(Equal("sekret"))
			Expect(cfg.Auth.PhoneNumber).To(Equal("919876543210"))
		})

		It("reads values from a config.toml in the given directory", func() {
			dir := GinkgoT().TempDir()
			data := []byte("[server]\nlisten = \":9000\"\n")
			Expect(os.WriteFile(filepath.Join(dir, "config.toml"), data, 0o600)).To(Succeed())

			v, err := config.InitViper(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.Listen).To(Equal(":9000"))
		})
	})

	Describe("Validate", func() {
		var cfg *config.Config

		BeforeEach(func() {
			cfg = config.NewDefaultConfig()
			cfg.Auth.Token = "token"
			cfg.Auth.PhoneNumber = "919876543210"
		})

		It("accepts a fully populated config", func() {
			Expect(cfg.Validate()).To(Succeed())
		})

		It("rejects a missing auth token", func() {
			cfg.Auth.Token = ""
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("AUTH_TOKEN"))
		})

		It("rejects a missing phone number", func() {
			cfg.Auth.PhoneNumber = ""
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("MY_NUMBER"))
		})

		It("rejects an unknown fallback policy", func() {
			cfg.Storage.FallbackPolicy = "best-effort"
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("fallback_policy"))
		})

		It("accepts the strict fallback policy", func() {
			cfg.Storage.FallbackPolicy = config.FallbackStrict
			Expect(cfg.Validate()).To(Succeed())
		})
	})
})
