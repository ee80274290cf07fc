package portalclient

import (
	"path/filepath"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestPortalClient(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Portal Client Suite")
}

var _ = ginkgo.Describe("Store", func() {
	var store *Store

	ginkgo.BeforeEach(func() {
		store = NewStore(filepath.Join(ginkgo.GinkgoT().TempDir(), "session.json"))
	})

	ginkgo.It("should round-trip a session through the file", func() {
		session := &Session{
			Token:        "access-token",
			RefreshToken: "refresh-token",
			User:         &User{ID: 1, Username: "jdoe"},
			Roles:        []Role{{ID: 1, Name: "Admin"}},
			Permissions:  []Permission{{Name: "users.read", Resource: "users", Action: "read"}},
		}

		gomega.Expect(store.Save(session)).To(gomega.Succeed())

		loaded, err := store.Load()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(loaded).To(gomega.Equal(session))
	})

	ginkgo.It("should report no session when the file does not exist", func() {
		loaded, err := store.Load()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(loaded).To(gomega.BeNil())
	})

	ginkgo.It("should clear the stored session", func() {
		gomega.Expect(store.Save(&Session{Token: "t"})).To(gomega.Succeed())
		gomega.Expect(store.Clear()).To(gomega.Succeed())

		loaded, err := store.Load()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(loaded).To(gomega.BeNil())
	})

	ginkgo.It("should tolerate clearing a missing session", func() {
		gomega.Expect(store.Clear()).To(gomega.Succeed())
	})
})

var _ = ginkgo.Describe("Session", func() {
	session := &Session{
		Roles: []Role{{Name: "Admin"}},
		Permissions: []Permission{
			{Name: "users.read"},
			{Name: "quicklinks.create"},
		},
	}

	ginkgo.Describe("HasRole", func() {
		ginkgo.It("should match stored role names", func() {
			gomega.Expect(session.HasRole("Admin")).To(gomega.BeTrue())
			gomega.Expect(session.HasRole("Super Admin")).To(gomega.BeFalse())
		})

		ginkgo.It("should be false on a nil session", func() {
			var nilSession *Session
			gomega.Expect(nilSession.HasRole("Admin")).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("HasPermission", func() {
		ginkgo.It("should match stored permission names", func() {
			gomega.Expect(session.HasPermission("users.read")).To(gomega.BeTrue())
			gomega.Expect(session.HasPermission("users.delete")).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("HasAnyPermission", func() {
		ginkgo.It("should succeed on any single match", func() {
			gomega.Expect(session.HasAnyPermission([]string{"users.delete", "quicklinks.create"})).To(gomega.BeTrue())
			gomega.Expect(session.HasAnyPermission([]string{"users.delete"})).To(gomega.BeFalse())
		})
	})
})
