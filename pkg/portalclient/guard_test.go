package portalclient

import (
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Guard", func() {
	var (
		store *Store
		guard *Guard
	)

	ginkgo.BeforeEach(func() {
		store = NewStore(filepath.Join(ginkgo.GinkgoT().TempDir(), "session.json"))
		guard = NewGuard(store)
	})

	login := func(roles ...string) {
		session := &Session{Token: "access-token", RefreshToken: "refresh-token"}
		for _, name := range roles {
			session.Roles = append(session.Roles, Role{Name: name})
		}
		gomega.Expect(store.Save(session)).To(gomega.Succeed())
	}

	ginkgo.Context("protected routes", func() {
		ginkgo.It("should redirect to login carrying the intended path", func() {
			decision, err := guard.Check(Route{Path: "/admin/users", RequiresAuth: true})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeFalse())
			gomega.Expect(decision.Redirect).To(gomega.Equal("/login?redirect=%2Fadmin%2Fusers"))
		})

		ginkgo.It("should allow a logged-in user", func() {
			login("User")

			decision, err := guard.Check(Route{Path: "/dashboard", RequiresAuth: true})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeTrue())
		})
	})

	ginkgo.Context("the login route", func() {
		ginkgo.It("should redirect a logged-in user home", func() {
			login("User")

			decision, err := guard.Check(Route{Path: "/login"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeFalse())
			gomega.Expect(decision.Redirect).To(gomega.Equal("/"))
		})

		ginkgo.It("should allow an anonymous visitor", func() {
			decision, err := guard.Check(Route{Path: "/login"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeTrue())
		})
	})

	ginkgo.Context("role-gated routes", func() {
		ginkgo.It("should redirect home when the required role is missing", func() {
			login("User")

			decision, err := guard.Check(Route{Path: "/admin", RequiresAuth: true, RequiredRole: "Admin"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeFalse())
			gomega.Expect(decision.Redirect).To(gomega.Equal("/"))
		})

		ginkgo.It("should allow a user holding the role", func() {
			login("User", "Admin")

			decision, err := guard.Check(Route{Path: "/admin", RequiresAuth: true, RequiredRole: "Admin"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(decision.Allowed).To(gomega.BeTrue())
		})
	})
})
