package generator_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-PageFlow/internal/config"
	"github.com/fjglira/GoE2E-PageFlow/internal/converter"
	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/generator"
	"github.com/fjglira/GoE2E-PageFlow/internal/logging"
	fparser "github.com/fjglira/GoE2E-PageFlow/internal/parser"
	"github.com/fjglira/GoE2E-PageFlow/internal/scanner"
	tmpl "github.com/fjglira/GoE2E-PageFlow/internal/template"
)

var _ = Describe("Generator", func() {
	var (
		gen        *generator.DefaultGenerator
		cfg        *config.Config
		outputDir  string
		configPath string
	)

	BeforeEach(func() {
		outputDir = filepath.Join(GinkgoT().TempDir(), "generated")

		cfg = config.DefaultConfig()
		cfg.Features.Directories = []string{filepath.Join("..", "..", "testdata", "features")}
		cfg.Scaffold.OutputDir = outputDir
		configPath = filepath.Join("..", "..", "pageflow.yaml")

		engine, err := tmpl.NewEngine("", cfg.Scaffold.Template)
		Expect(err).ToNot(HaveOccurred())

		gen = generator.NewGenerator(scanner.NewScanner(true), fparser.NewDefaultRegistry(),
			converter.NewConverter(), engine, logging.Discard())
	})

	It("should write one file per feature plus the bootstrap", func() {
		written, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())

		var names []string
		for _, p := range written {
			names = append(names, filepath.Base(p))
		}
		Expect(names).To(ConsistOf(
			generator.SuiteFile,
			"checkout_test.go",
			"checkout_dismissing_dialogs_test.go",
			"login_test.go",
			"order_test.go",
		))
	})

	It("should generate valid Go code", func() {
		written, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())

		fset := token.NewFileSet()
		for _, p := range written {
			_, err := parser.ParseFile(fset, p, nil, parser.AllErrors)
			Expect(err).ToNot(HaveOccurred(), p)
		}
	})

	It("should point each test at its feature relative to the output directory", func() {
		_, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())

		content, err := os.ReadFile(filepath.Join(outputDir, "login_test.go"))
		Expect(err).ToNot(HaveOccurred())

		abs, err := filepath.Abs(filepath.Join("..", "..", "testdata", "features", "login.feature"))
		Expect(err).ToNot(HaveOccurred())
		rel, err := filepath.Rel(outputDir, abs)
		Expect(err).ToNot(HaveOccurred())

		Expect(string(content)).To(ContainSubstring(`"` + filepath.ToSlash(rel) + `"`))
		Expect(string(content)).To(ContainSubstring(`It("Login with invalid credentials"`))
		Expect(string(content)).To(ContainSubstring("package e2e_generated"))
	})

	It("should bake the config path into the bootstrap", func() {
		_, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())

		content, err := os.ReadFile(filepath.Join(outputDir, generator.SuiteFile))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("suite.New(context.Background(), "))
		Expect(string(content)).To(ContainSubstring(`pageflow.yaml")`))
	})

	It("should not overwrite an existing bootstrap", func() {
		suitePath := filepath.Join(outputDir, generator.SuiteFile)
		custom := "// custom suite file\npackage e2e_generated\n"
		Expect(os.MkdirAll(outputDir, 0755)).To(Succeed())
		Expect(os.WriteFile(suitePath, []byte(custom), 0644)).To(Succeed())

		written, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(written).ToNot(ContainElement(suitePath))

		content, err := os.ReadFile(suitePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal(custom))
	})

	It("should only clean scaffolded files", func() {
		Expect(os.MkdirAll(outputDir, 0755)).To(Succeed())
		stale := filepath.Join(outputDir, "removed_feature_test.go")
		handwritten := filepath.Join(outputDir, "helpers_test.go")
		Expect(os.WriteFile(stale, []byte("// Code generated by pageflow scaffold from old.feature. DO NOT EDIT.\npackage e2e_generated\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(handwritten, []byte("package e2e_generated\n"), 0644)).To(Succeed())

		cfg.Scaffold.CleanBeforeGenerate = true
		_, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())

		Expect(stale).ToNot(BeAnExistingFile())
		Expect(handwritten).To(BeAnExistingFile())
	})

	It("should respect dry-run mode", func() {
		cfg.DryRun = true
		written, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(written).ToNot(BeEmpty())
		Expect(outputDir).ToNot(BeADirectory())
	})

	It("should stop on a source that does not parse", func() {
		cfg.Features.Include = []string{"*.txt"}
		registry := fparser.NewDefaultRegistry()
		registry.SetFallback(fparser.NewGherkinParser())
		engine, _ := tmpl.NewEngine("", cfg.Scaffold.Template)
		gen = generator.NewGenerator(scanner.NewScanner(true), registry, converter.NewConverter(), engine, logging.Discard())

		_, err := gen.Generate(cfg, configPath)
		Expect(err).To(MatchError(ContainSubstring("broken.feature.txt:4")))
	})

	It("should scaffold each source once when directories overlap", func() {
		cfg.Features.Directories = append(cfg.Features.Directories,
			filepath.Join("..", "..", "testdata", "features", "docs"))
		written, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(written).To(HaveLen(5))
	})

	It("should fail on a feature directory that does not exist", func() {
		cfg.Features.Directories = []string{filepath.Join("..", "..", "testdata", "featurez")}
		_, err := gen.Generate(cfg, configPath)
		Expect(err).To(MatchError(ContainSubstring("feature directory does not exist")))
	})

	It("should handle an empty directory gracefully", func() {
		cfg.Features.Directories = []string{GinkgoT().TempDir()}
		written, err := gen.Generate(cfg, configPath)
		Expect(err).ToNot(HaveOccurred())
		Expect(written).To(BeEmpty())
		Expect(outputDir).ToNot(BeADirectory())
	})

	It("should surface converter errors", func() {
		dir := GinkgoT().TempDir()
		dupes := "Feature: Dupes\n  Scenario: Same\n    Given I log out\n  Scenario: Same\n    Given I log out\n"
		Expect(os.WriteFile(filepath.Join(dir, "dupes.feature"), []byte(dupes), 0644)).To(Succeed())
		cfg.Features.Directories = []string{dir}

		_, err := gen.Generate(cfg, configPath)
		var perr *domain.Error
		Expect(err).To(BeAssignableToTypeOf(perr))
		Expect(err).To(MatchError(ContainSubstring("already defined at line 2")))
	})
})
