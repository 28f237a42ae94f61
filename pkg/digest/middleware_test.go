package digest_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/bxcodec/faker/v3"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/uhwot/sacklite/pkg/digest"
)

const basePath = "/LITTLEBIGPLANETPS3_XML"

var _ = Describe("Middleware", func() {
	var key, cookie string
	var received []byte
	var handler http.Handler

	responseBody := []byte("<response/>")

	newRequest := func(method, path string, body []byte) *http.Request {
		req := httptest.NewRequest(method, basePath+path, bytes.NewReader(body))
		req.AddCookie(&http.Cookie{Name: digest.CookieName, Value: cookie})
		return req
	}

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	BeforeEach(func() {
		key = faker.Password()
		cookie = faker.UUIDHyphenated()
		received = nil
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error
			received, err = io.ReadAll(r.Body)
			Expect(err).ToNot(HaveOccurred())
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(responseBody)
		})
		handler = digest.Middleware(digest.Options{Key: key, BasePath: basePath, Enforce: true})(next)
	})

	It("lets exempt paths through without a digest", func() {
		rr := serve(newRequest(http.MethodGet, "/eula", nil))
		Expect(rr.Code).To(Equal(http.StatusCreated))
		Expect(rr.Body.Bytes()).To(Equal(responseBody))
	})

	It("rejects a missing digest with the expected one", func() {
		body := []byte("<slot/>")
		rr := serve(newRequest(http.MethodPost, "/publish", body))
		Expect(rr.Code).To(Equal(http.StatusForbidden))
		Expect(rr.Header().Get(digest.HeaderB)).To(Equal(digest.Compute(body, cookie, "/publish", key)))
		Expect(received).To(BeNil())
	})

	It("rejects a wrong digest", func() {
		req := newRequest(http.MethodPost, "/publish", []byte("<slot/>"))
		req.Header.Set(digest.HeaderA, digest.Compute([]byte("<other/>"), cookie, "/publish", key))
		rr := serve(req)
		Expect(rr.Code).To(Equal(http.StatusForbidden))
	})

	It("accepts a correct digest and hands over the body untouched", func() {
		body := []byte("<slot><name>My Level</name></slot>")
		req := newRequest(http.MethodPost, "/publish", body)
		req.Header.Set(digest.HeaderA, digest.Compute(body, cookie, "/publish", key))

		rr := serve(req)
		Expect(rr.Code).To(Equal(http.StatusCreated))
		Expect(received).To(Equal(body))
	})

	It("leaves the body out of upload digests and reads them from the second header", func() {
		body := []byte{0x00, 0x01, 0x02, 0xff}
		path := "/upload/0123456789abcdef"
		req := newRequest(http.MethodPost, path, body)
		req.Header.Set(digest.HeaderB, digest.Compute(nil, cookie, path, key))

		rr := serve(req)
		Expect(rr.Code).To(Equal(http.StatusCreated))
		Expect(received).To(Equal(body))
	})

	It("ignores the first header on uploads", func() {
		path := "/upload/0123456789abcdef"
		req := newRequest(http.MethodPost, path, []byte("data"))
		req.Header.Set(digest.HeaderA, digest.Compute(nil, cookie, path, key))

		rr := serve(req)
		Expect(rr.Code).To(Equal(http.StatusForbidden))
	})

	It("stamps responses with their own digest and the request digest", func() {
		req := newRequest(http.MethodGet, "/announce", nil)
		rr := serve(req)

		Expect(rr.Header().Get(digest.HeaderA)).To(Equal(digest.Compute(responseBody, cookie, "/announce", key)))
		Expect(rr.Header().Get(digest.HeaderB)).To(Equal(digest.Compute(nil, cookie, "/announce", key)))
	})

	It("stamps upload responses without their body", func() {
		path := "/upload/0123456789abcdef"
		req := newRequest(http.MethodPost, path, []byte("data"))
		req.Header.Set(digest.HeaderB, digest.Compute(nil, cookie, path, key))
		rr := serve(req)

		Expect(rr.Header().Get(digest.HeaderA)).To(Equal(digest.Compute(nil, cookie, path, key)))
		Expect(rr.Body.Bytes()).To(Equal(responseBody))
	})

	It("hashes an empty cookie when the client has none", func() {
		req := httptest.NewRequest(http.MethodPost, basePath+"/publish", nil)
		req.Header.Set(digest.HeaderA, digest.Compute(nil, "", "/publish", key))
		rr := serve(req)
		Expect(rr.Code).To(Equal(http.StatusCreated))
	})

	Context("when not enforcing", func() {
		BeforeEach(func() {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(responseBody)
			})
			handler = digest.Middleware(digest.Options{Key: key, BasePath: basePath})(next)
		})

		It("passes requests without a digest but still stamps the response", func() {
			rr := serve(newRequest(http.MethodPost, "/publish", []byte("<slot/>")))
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Header().Get(digest.HeaderA)).To(Equal(digest.Compute(responseBody, cookie, "/publish", key)))
		})
	})
})
