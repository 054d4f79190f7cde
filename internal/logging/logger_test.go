package logging_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/config"
	"github.com/fjglira/GoE2E-PageFlow/internal/logging"
)

var _ = Describe("New", func() {
	It("should use the configured level", func() {
		log, closeFn := logging.New(config.LoggingConfig{Level: "warn"}, false)
		defer closeFn()
		Expect(log.GetLevel()).To(Equal(logrus.WarnLevel))
	})

	It("should fall back to info for an unknown level", func() {
		log, closeFn := logging.New(config.LoggingConfig{Level: "chatty"}, false)
		defer closeFn()
		Expect(log.GetLevel()).To(Equal(logrus.InfoLevel))
	})

	It("should force debug when verbose", func() {
		log, closeFn := logging.New(config.LoggingConfig{Level: "error"}, true)
		defer closeFn()
		Expect(log.GetLevel()).To(Equal(logrus.DebugLevel))
	})

	It("should also write to the log file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "pageflow.log")
		log, closeFn := logging.New(config.LoggingConfig{Level: "info", File: path, MaxSizeMB: 1}, false)
		log.WithField("page", "login").Info("Visiting page")
		Expect(closeFn()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("Visiting page"))
		Expect(string(data)).To(ContainSubstring("page=login"))
	})
})
