package logger_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/redhatinsights/platform-go-middlewares/v2/request_id"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/uhwot/sacklite/config"
	"github.com/uhwot/sacklite/logger"
)

var _ = Describe("Logger", func() {
	BeforeEach(func() {
		config.Init()
		config.Get().Debug = true
		config.Get().LogLevel = "DEBUG"
		logger.InitLogger()
	})

	Context("Flush log messages", func() {
		Specify("Test flushing log messages works without error", func() {
			log.Trace("Test flushing log messages")

			logger.FlushLogger()
		})
	})

	Context("Level", func() {
		It("should follow the configured level", func() {
			Expect(log.GetLevel()).To(Equal(log.DebugLevel))
		})
	})

	Context("Context hook", func() {
		It("should add the request id and build info", func() {
			hook := test.NewGlobal()
			defer hook.Reset()

			handler := request_id.ConfiguredRequestID("X-Request-Id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				log.WithContext(r.Context()).Info("with request id")
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Request-Id", "abc-123")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			entry := hook.LastEntry()
			Expect(entry).ToNot(BeNil())
			Expect(entry.Data).To(HaveKeyWithValue("request_id", "abc-123"))
			Expect(entry.Data).To(HaveKey("build_commit"))
		})
	})
})
