package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-PageFlow/internal/config"
)

var _ = Describe("Config", func() {
	Describe("Load", func() {
		It("should load minimal config on top of defaults", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "minimal.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Features.Directories).To(ConsistOf("features"))
			Expect(cfg.Fixtures.Directory).To(Equal("fixtures"))
			Expect(cfg.Browser.Engine).To(Equal("rod"))
			Expect(cfg.Browser.Width).To(Equal(1280))
		})

		It("should load full config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Features.Directories).To(HaveLen(2))
			Expect(cfg.Features.Exclude).To(ContainElement("drafts/**"))
			Expect(*cfg.Features.Recursive).To(BeFalse())
			Expect(cfg.Browser.Engine).To(Equal("chromedp"))
			Expect(cfg.Browser.BaseURL).To(Equal("https://shop.example.test"))
			Expect(cfg.Browser.Headless).To(BeFalse())
			Expect(cfg.Report.Enabled).To(BeTrue())
			Expect(cfg.Logging.File).To(Equal("logs/pageflow.log"))
			Expect(cfg.FailFast).To(BeTrue())
			Expect(cfg.Timeout()).To(Equal(45 * time.Second))
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load("nonexistent.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid YAML", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "invalid_pageflow.yaml")
			Expect(os.WriteFile(tmpFile, []byte("{{invalid yaml}}"), 0644)).To(Succeed())

			_, err := config.Load(tmpFile)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse config file"))
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg.Features.Include).To(ContainElements("*.feature", "*.md"))
			Expect(*cfg.Features.Recursive).To(BeTrue())
			Expect(cfg.Browser.Headless).To(BeTrue())
			Expect(cfg.Scaffold.FileSuffix).To(Equal("_test.go"))
			Expect(cfg.Logging.Level).To(Equal("info"))
			Expect(cfg.Timeout()).To(Equal(10 * time.Second))
			Expect(config.Validate(cfg)).To(Succeed())
		})
	})

	Describe("Validate", func() {
		var cfg *config.Config

		BeforeEach(func() {
			cfg = config.DefaultConfig()
		})

		It("should pass for full config", func() {
			full, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(config.Validate(full)).To(Succeed())
		})

		It("should fail if directories are empty", func() {
			cfg.Features.Directories = nil
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("features.directories")))
		})

		It("should fail for unknown engine", func() {
			cfg.Browser.Engine = "selenium"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("browser.engine")))
		})

		It("should fail for relative base URL", func() {
			cfg.Browser.BaseURL = "/app"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("browser.base_url")))
		})

		It("should fail for a bad timeout", func() {
			cfg.Browser.DefaultTimeout = "soon"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("browser.default_timeout")))
		})

		It("should require a report file when reporting", func() {
			cfg.Report.Enabled = true
			cfg.Report.File = ""
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("report.file")))
		})

		It("should fail if file suffix doesn't end with .go", func() {
			cfg.Scaffold.FileSuffix = "_test.txt"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("file_suffix")))
		})

		It("should fail for invalid log level", func() {
			cfg.Logging.Level = "verbose"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("logging.level")))
		})

		It("should report every violation at once", func() {
			cfg.Fixtures.Directory = ""
			cfg.Logging.Level = "loud"
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring("fixtures.directory")))
			Expect(err).To(MatchError(ContainSubstring("logging.level")))
		})
	})

	Describe("Rebase", func() {
		It("should join relative paths onto the config directory", func() {
			cfg := config.DefaultConfig()
			cfg.Logging.File = "/var/log/pageflow.log"
			cfg.Rebase(filepath.Join("e2e", "shop"))

			Expect(cfg.Features.Directories).To(ConsistOf(filepath.Join("e2e", "shop", "features")))
			Expect(cfg.Fixtures.Directory).To(Equal(filepath.Join("e2e", "shop", "fixtures")))
			Expect(cfg.Report.File).To(Equal(filepath.Join("e2e", "shop", "reports", "pageflow.jsonl")))
			Expect(cfg.Scaffold.TemplateDir).To(BeEmpty())
			Expect(cfg.Logging.File).To(Equal("/var/log/pageflow.log"))
		})

		It("should leave paths alone for the current directory", func() {
			cfg := config.DefaultConfig()
			cfg.Rebase(".")
			Expect(cfg.Fixtures.Directory).To(Equal("fixtures"))
		})
	})
})
