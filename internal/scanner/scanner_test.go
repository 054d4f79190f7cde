package scanner_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoE2E-PageFlow/internal/scanner"
)

var featuresDir = filepath.Join("..", "..", "testdata", "features")

var _ = Describe("Scanner", func() {
	var s *scanner.FileScanner

	BeforeEach(func() {
		s = scanner.NewScanner(true)
	})

	It("should find feature files", func() {
		files, err := s.Scan(featuresDir, []string{"*.feature"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(2))
	})

	It("should return sorted file paths", func() {
		files, err := s.Scan(featuresDir, []string{"*.feature"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(filepath.Base(files[0])).To(Equal("login.feature"))
		Expect(filepath.Base(files[1])).To(Equal("order.feature"))
	})

	It("should descend into subdirectories when recursive", func() {
		files, err := s.Scan(featuresDir, []string{"*.feature", "*.md"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(ContainElement(filepath.Join(featuresDir, "docs", "checkout.md")))
	})

	It("should respect exclude patterns", func() {
		files, err := s.Scan(featuresDir, []string{"*.feature", "*.md"}, []string{"docs/**", "login.feature"})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(HaveLen(1))
		Expect(filepath.Base(files[0])).To(Equal("order.feature"))
	})

	It("should handle non-recursive mode", func() {
		s = scanner.NewScanner(false)
		files, err := s.Scan(featuresDir, []string{"*.md"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(BeEmpty())
	})

	It("should fail for a missing directory", func() {
		_, err := s.Scan(filepath.Join(featuresDir, "missing"), []string{"*.feature"}, nil)
		Expect(err).To(MatchError(ContainSubstring("feature directory does not exist")))
	})

	Describe("ScanAll", func() {
		It("should deduplicate overlapping directories", func() {
			files, err := s.ScanAll([]string{featuresDir, filepath.Join(featuresDir, "docs")}, []string{"*.md"}, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(files).To(HaveLen(1))
		})
	})
})
