package deptlink

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestDeptLink(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Department Link Module Suite")
}

// Mock repository for testing
type mockLinkRepo struct {
	created       *Link
	createdDepts  []int64
	reordered     []int64
	byDepartment  map[int64][]Link
	softDeleted   []int64
	updated       *Link
	updatedDepts  []int64
	returnedError error
}

func (m *mockLinkRepo) GetForDepartment(departmentID int64) ([]Link, error) {
	if m.returnedError != nil {
		return nil, m.returnedError
	}
	return m.byDepartment[departmentID], nil
}

func (m *mockLinkRepo) GetAllWithDepartments() ([]LinkWithDepartments, error) {
	return nil, m.returnedError
}

func (m *mockLinkRepo) CreateWithAssignments(l *Link, departmentIDs []int64) error {
	if m.returnedError != nil {
		return m.returnedError
	}
	l.ID = 1
	m.created = l
	m.createdDepts = departmentIDs
	return nil
}

func (m *mockLinkRepo) UpdateWithAssignments(l *Link, departmentIDs []int64) error {
	if m.returnedError != nil {
		return m.returnedError
	}
	m.updated = l
	m.updatedDepts = departmentIDs
	return nil
}

func (m *mockLinkRepo) SoftDelete(id int64) error {
	m.softDeleted = append(m.softDeleted, id)
	return m.returnedError
}

func (m *mockLinkRepo) Reorder(linkIDs []int64) error {
	m.reordered = linkIDs
	return m.returnedError
}

var _ = ginkgo.Describe("DeptLinkService", func() {
	var (
		service  *Service
		mockRepo *mockLinkRepo
	)

	ginkgo.BeforeEach(func() {
		mockRepo = &mockLinkRepo{byDepartment: make(map[int64][]Link)}
		service = NewService(mockRepo, nil)
	})

	ginkgo.Describe("GetForDepartment", func() {
		ginkgo.It("should return an empty list for callers without a department", func() {
			links, err := service.GetForDepartment(nil)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(links).ToNot(gomega.BeNil())
			gomega.Expect(links).To(gomega.BeEmpty())
		})

		ginkgo.It("should return the department's links", func() {
			deptID := int64(3)
			mockRepo.byDepartment[3] = []Link{{ID: 1, Title: "wiki"}}

			links, err := service.GetForDepartment(&deptID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(links).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should fill icon and link type defaults", func() {
			l, err := service.Create(LinkDTO{Title: "wiki", URL: "https://wiki", DepartmentIDs: []int64{1}})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(l.Icon).To(gomega.Equal("mdi-link"))
			gomega.Expect(l.LinkType).To(gomega.Equal("internal"))
			gomega.Expect(mockRepo.createdDepts).To(gomega.Equal([]int64{1}))
		})

		ginkgo.It("should keep explicit icon and link type", func() {
			l, err := service.Create(LinkDTO{
				Title: "docs", URL: "https://docs", Icon: "mdi-book",
				LinkType: "external", DepartmentIDs: []int64{1},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(l.Icon).To(gomega.Equal("mdi-book"))
			gomega.Expect(l.LinkType).To(gomega.Equal("external"))
		})

		ginkgo.It("should require title and url", func() {
			l, err := service.Create(LinkDTO{DepartmentIDs: []int64{1}})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("Title and URL are required"))
			gomega.Expect(l).To(gomega.BeNil())
		})

		ginkgo.It("should require at least one department", func() {
			l, err := service.Create(LinkDTO{Title: "wiki", URL: "https://wiki"})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("At least one department must be selected"))
			gomega.Expect(l).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("Reorder", func() {
		ginkgo.It("should pass ids through in order", func() {
			gomega.Expect(service.Reorder(ReorderDTO{LinkIDs: []int64{3, 1, 2}})).To(gomega.Succeed())
			gomega.Expect(mockRepo.reordered).To(gomega.Equal([]int64{3, 1, 2}))
		})

		ginkgo.It("should reject an empty id list", func() {
			err := service.Reorder(ReorderDTO{})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("Link IDs are required"))
		})
	})
})
