package converter_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-PageFlow/internal/converter"
	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
	"github.com/fjglira/GoE2E-PageFlow/internal/parser"
)

var featuresDir = filepath.Join("..", "..", "testdata", "features")

func parse(p parser.Parser, name string) []*domain.Feature {
	path := filepath.Join(featuresDir, name)
	content, err := os.ReadFile(path)
	Expect(err).ToNot(HaveOccurred())
	features, err := p.Parse(path, content)
	Expect(err).ToNot(HaveOccurred())
	return features
}

var _ = Describe("Converter", func() {
	var conv *converter.DefaultConverter

	BeforeEach(func() {
		conv = converter.NewConverter()
	})

	Describe("Convert", func() {
		It("should map a Gherkin feature onto one Describe", func() {
			features := parse(parser.NewGherkinParser(), "login.feature")
			spec, err := conv.Convert(features[0])
			Expect(err).ToNot(HaveOccurred())

			Expect(spec.Describe).To(Equal("User login"))
			Expect(spec.SourceType).To(Equal("gherkin"))
			Expect(spec.Labels).To(Equal([]string{"login"}))
			Expect(spec.Groups).To(HaveLen(1))
			Expect(spec.Groups[0].Context).To(BeEmpty())

			tests := spec.Groups[0].Tests
			Expect(tests).To(HaveLen(3))
			Expect(tests[0].Scenario).To(Equal("Passwordless login with a known user"))
			Expect(tests[0].Line).To(Equal(8))
			Expect(tests[0].Labels).To(BeEmpty())
			Expect(tests[1].Labels).To(Equal([]string{"smoke"}))
		})

		It("should prepend background steps", func() {
			features := parse(parser.NewGherkinParser(), "login.feature")
			spec, err := conv.Convert(features[0])
			Expect(err).ToNot(HaveOccurred())
			Expect(spec.Groups[0].Tests[0].Steps).To(Equal([]string{
				"Given I am on the login page",
				`When I login with user id "csra" and no password`,
				"Then I should see the dashboard",
			}))
		})

		It("should group Markdown scenarios by heading", func() {
			features := parse(parser.NewMarkdownParser(), filepath.Join("docs", "checkout.md"))
			Expect(features).To(HaveLen(2))

			spec, err := conv.Convert(features[0])
			Expect(err).ToNot(HaveOccurred())
			Expect(spec.Describe).To(Equal("Checkout from the guide"))
			Expect(spec.Groups[0].Context).To(Equal("Placing an order"))

			implicit, err := conv.Convert(features[1])
			Expect(err).ToNot(HaveOccurred())
			Expect(implicit.Describe).To(Equal("Dismissing dialogs"))
			Expect(implicit.Groups[0].Context).To(BeEmpty())
		})

		It("should fall back to headings and the file name for the Describe", func() {
			spec, err := conv.Convert(&domain.Feature{
				FilePath: "docs/guide.md",
				Headings: []domain.Heading{{Level: 2, Text: "Setup"}, {Level: 1, Text: "Guide"}},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(spec.Describe).To(Equal("Guide"))
			Expect(spec.Groups).To(BeEmpty())

			spec, _ = conv.Convert(&domain.Feature{FilePath: "docs/guide.md"})
			Expect(spec.Describe).To(Equal("guide"))
		})

		It("should reject duplicate scenario names", func() {
			_, err := conv.Convert(&domain.Feature{
				Name:     "Dupes",
				FilePath: "dupes.feature",
				Scenarios: []domain.Scenario{
					{Name: "Same", LineNumber: 3},
					{Name: "Same", LineNumber: 7},
				},
			})
			var perr *domain.Error
			Expect(errors.As(err, &perr)).To(BeTrue())
			Expect(perr.Phase).To(Equal("convert"))
			Expect(perr.LineNumber).To(Equal(7))
			Expect(perr.Message).To(ContainSubstring("line 3"))
		})

		It("should reject unnamed scenarios", func() {
			_, err := conv.Convert(&domain.Feature{
				Name:      "Blank",
				Scenarios: []domain.Scenario{{Name: "  ", LineNumber: 2}},
			})
			Expect(err).To(MatchError(ContainSubstring("scenario has no name")))
		})

		It("should make tags safe for Ginkgo labels", func() {
			spec, err := conv.Convert(&domain.Feature{
				Name: "Tags",
				Tags: []string{"@team/checkout", "@a&b"},
				Scenarios: []domain.Scenario{
					{Name: "One", Tags: []string{"@team/checkout", "@a&b", "@wip"}},
				},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(spec.Labels).To(Equal([]string{"team-checkout", "a-b"}))
			Expect(spec.Groups[0].Tests[0].Labels).To(Equal([]string{"wip"}))
		})
	})
})
