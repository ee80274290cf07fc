package portalclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Client", func() {
	var (
		store  *Store
		server *httptest.Server

		refreshCalls  atomic.Int64
		resourceCalls atomic.Int64
		refreshOK     bool
	)

	newServer := func() *httptest.Server {
		mux := http.NewServeMux()

		mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "correct_password" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Invalid credentials"})
				return
			}
			json.NewEncoder(w).Encode(AuthPayload{
				Success:      true,
				Token:        "access-1",
				RefreshToken: "refresh-1",
				User:         &User{ID: 1, Username: body["username"]},
				Roles:        []Role{{Name: "Admin"}},
			})
		})

		mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)
			if !refreshOK || r.Header.Get("Authorization") != "Bearer refresh-1" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Invalid refresh token"})
				return
			}
			json.NewEncoder(w).Encode(AuthPayload{
				Success:      true,
				Token:        "access-2",
				RefreshToken: "refresh-2",
				User:         &User{ID: 1, Username: "jdoe"},
			})
		})

		mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
			resourceCalls.Add(1)
			auth := r.Header.Get("Authorization")
			if auth != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Invalid token"})
				return
			}
			body, _ := io.ReadAll(r.Body)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "echo": string(body)})
		})

		return httptest.NewServer(mux)
	}

	ginkgo.BeforeEach(func() {
		refreshCalls.Store(0)
		resourceCalls.Store(0)
		refreshOK = true
		store = NewStore(filepath.Join(ginkgo.GinkgoT().TempDir(), "session.json"))
		server = newServer()
	})

	ginkgo.AfterEach(func() {
		server.Close()
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should persist the session on success", func() {
			client := New(server.URL, store)

			session, err := client.Login("jdoe", "correct_password")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(session.Token).To(gomega.Equal("access-1"))

			stored, err := store.Load()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.RefreshToken).To(gomega.Equal("refresh-1"))
			gomega.Expect(stored.HasRole("Admin")).To(gomega.BeTrue())
		})

		ginkgo.It("should surface the server message on bad credentials", func() {
			client := New(server.URL, store)

			session, err := client.Login("jdoe", "wrong")
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("Invalid credentials"))
			gomega.Expect(session).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("transparent refresh", func() {
		ginkgo.It("should refresh once and retry the original request", func() {
			client := New(server.URL, store)
			_, err := client.Login("jdoe", "correct_password")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// stored access-1 is stale; the server only accepts access-2
			req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/users", strings.NewReader(`{"username":"new"}`))
			resp, err := client.HTTPClient().Do(req)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			defer resp.Body.Close()

			gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusOK))
			gomega.Expect(refreshCalls.Load()).To(gomega.Equal(int64(1)))
			gomega.Expect(resourceCalls.Load()).To(gomega.Equal(int64(2)))

			// the retry carried the original body
			var body map[string]interface{}
			gomega.Expect(json.NewDecoder(resp.Body).Decode(&body)).To(gomega.Succeed())
			gomega.Expect(body["echo"]).To(gomega.ContainSubstring("new"))

			stored, err := store.Load()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.Token).To(gomega.Equal("access-2"))
			gomega.Expect(stored.RefreshToken).To(gomega.Equal("refresh-2"))
		})

		ginkgo.It("should clear the session and fail when refresh is rejected", func() {
			client := New(server.URL, store)
			_, err := client.Login("jdoe", "correct_password")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshOK = false

			req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/users", nil)
			resp, err := client.HTTPClient().Do(req)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring(ErrSessionExpired.Error()))
			if resp != nil {
				resp.Body.Close()
			}

			stored, loadErr := store.Load()
			gomega.Expect(loadErr).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored).To(gomega.BeNil())
		})

		ginkgo.It("should not attempt a refresh without a stored session", func() {
			client := New(server.URL, store)

			req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/users", nil)
			resp, err := client.HTTPClient().Do(req)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			defer resp.Body.Close()

			gomega.Expect(resp.StatusCode).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(refreshCalls.Load()).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should drop the stored session", func() {
			client := New(server.URL, store)
			_, err := client.Login("jdoe", "correct_password")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(client.Logout()).To(gomega.Succeed())

			stored, err := store.Load()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored).To(gomega.BeNil())
		})
	})
})
