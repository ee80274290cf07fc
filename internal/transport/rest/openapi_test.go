package rest

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Transport Suite")
}

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should be a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("should document the auth endpoints", func() {
		Expect(doc.Paths.Find("/auth/login")).NotTo(BeNil())
		Expect(doc.Paths.Find("/auth/refresh")).NotTo(BeNil())
	})

	It("should document every resource collection the router mounts", func() {
		for _, path := range []string{
			"/users", "/users/{id}",
			"/roles",
			"/departments", "/departments/{id}",
			"/departmentlinks", "/departmentlinks/all", "/departmentlinks/{id}", "/departmentlinks/reorder",
			"/quicklinks", "/quicklinks/{id}", "/quicklinks/reorder",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("should require bearer auth on protected operations", func() {
		usersGet := doc.Paths.Find("/users").Get
		Expect(usersGet).NotTo(BeNil())
		Expect(usersGet.Security).NotTo(BeNil())
	})
})
