package postgres

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	departmentDatamodel "github.com/intraforms/portal-api/internal/core/datamodel/department"
	userDatamodel "github.com/intraforms/portal-api/internal/core/datamodel/user"
	"github.com/intraforms/portal-api/internal/user"
)

func TestUserRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserRepository Suite")
}

var _ = Describe("UserRepository", func() {
	var (
		db   *gorm.DB
		repo user.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&departmentDatamodel.Department{},
			&userDatamodel.User{},
			&userDatamodel.Role{},
			&userDatamodel.Permission{},
			&userDatamodel.UserRole{},
			&userDatamodel.RolePermission{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewUserRepository(db)

		Expect(db.Create(&departmentDatamodel.Department{Name: "Finance"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&userDatamodel.Role{Name: "Admin", Active: true}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&userDatamodel.Role{Name: "User", Active: true}).Error).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	createUser := func(username string, roleIDs ...int64) *user.User {
		deptID := int64(1)
		u := &user.User{
			Username:     username,
			Email:        username + "@example.com",
			FirstName:    "Test",
			LastName:     "User",
			Active:       true,
			DepartmentID: &deptID,
		}
		Expect(repo.CreateWithRoles(u, "hash", roleIDs)).To(Succeed())
		return u
	}

	Describe("CreateWithRoles", func() {
		It("should insert the user and its role assignments", func() {
			u := createUser("jdoe", 1, 2)

			Expect(u.ID).To(BeNumerically(">", 0))

			roles, err := repo.GetRoles(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
		})

		It("should not persist the user when a role assignment insert fails", func() {
			u := &user.User{Username: "jdoe", Email: "jdoe@example.com", Active: true}

			// repeating a role id violates the user_roles unique pair
			err := repo.CreateWithRoles(u, "hash", []int64{1, 1})
			Expect(err).To(HaveOccurred())

			var count int64
			Expect(db.Model(&userDatamodel.User{}).Where("username = ?", "jdoe").Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should roll back role assignments when the user insert fails", func() {
			createUser("jdoe", 1)

			var before int64
			Expect(db.Model(&userDatamodel.UserRole{}).Count(&before).Error).NotTo(HaveOccurred())

			// duplicate username violates the unique index
			dup := &user.User{Username: "jdoe", Email: "dup@example.com", Active: true}
			err := repo.CreateWithRoles(dup, "hash", []int64{1, 2})
			Expect(err).To(HaveOccurred())

			var after int64
			Expect(db.Model(&userDatamodel.UserRole{}).Count(&after).Error).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})
	})

	Describe("GetAll", func() {
		It("should return users with department and role names", func() {
			createUser("adam", 1)
			createUser("zoe", 2)

			users, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			Expect(users[0].Username).To(Equal("adam"))
			Expect(users[1].Username).To(Equal("zoe"))
			Expect(users[0].DepartmentName).To(Equal("Finance"))
			Expect(users[0].Roles).To(HaveLen(1))
			Expect(users[0].Roles[0].Name).To(Equal("Admin"))
		})

		It("should include deactivated users in the admin listing", func() {
			u := createUser("jdoe", 1)
			Expect(repo.SoftDelete(u.ID)).To(Succeed())

			users, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Active).To(BeFalse())
		})
	})

	Describe("GetByID", func() {
		It("should return the user", func() {
			u := createUser("jdoe", 1)

			got, err := repo.GetByID(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Username).To(Equal("jdoe"))
			Expect(got.DepartmentName).To(Equal("Finance"))
		})

		It("should return ErrNotFound for a missing id", func() {
			got, err := repo.GetByID(99999)
			Expect(err).To(Equal(user.ErrNotFound))
			Expect(got).To(BeNil())
		})
	})

	Describe("GetPermissions", func() {
		It("should resolve permissions through role assignments without duplicates", func() {
			perm := &userDatamodel.Permission{Name: "users.read", Resource: "users", Action: "read"}
			Expect(db.Create(perm).Error).NotTo(HaveOccurred())
			Expect(db.Create(&userDatamodel.RolePermission{RoleID: 1, PermissionID: perm.ID}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&userDatamodel.RolePermission{RoleID: 2, PermissionID: perm.ID}).Error).NotTo(HaveOccurred())

			u := createUser("jdoe", 1, 2)

			perms, err := repo.GetPermissions(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(perms).To(HaveLen(1))
			Expect(perms[0].Name).To(Equal("users.read"))
		})

		It("should return an empty slice for a user without roles", func() {
			u := createUser("jdoe")

			perms, err := repo.GetPermissions(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(perms).NotTo(BeNil())
			Expect(perms).To(BeEmpty())
		})
	})

	Describe("UpdateWithRoles", func() {
		It("should update fields and replace assignments", func() {
			u := createUser("jdoe", 1)

			u.Email = "new@example.com"
			u.FirstName = "New"
			Expect(repo.UpdateWithRoles(u, "", []int64{2})).To(Succeed())

			got, err := repo.GetByID(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Email).To(Equal("new@example.com"))

			roles, err := repo.GetRoles(u.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(1))
			Expect(roles[0].Name).To(Equal("User"))
		})

		It("should keep the stored password hash when none is given", func() {
			u := createUser("jdoe", 1)

			Expect(repo.UpdateWithRoles(u, "", []int64{1})).To(Succeed())

			var row userDatamodel.User
			Expect(db.First(&row, u.ID).Error).NotTo(HaveOccurred())
			Expect(row.PasswordHash).To(Equal("hash"))
		})

		It("should return ErrNotFound for a missing user", func() {
			ghost := &user.User{ID: 99999, Email: "ghost@example.com"}
			Expect(repo.UpdateWithRoles(ghost, "", nil)).To(Equal(user.ErrNotFound))
		})
	})

	Describe("SoftDelete", func() {
		It("should flip active off and keep the row", func() {
			u := createUser("jdoe", 1)

			Expect(repo.SoftDelete(u.ID)).To(Succeed())

			var row userDatamodel.User
			Expect(db.First(&row, u.ID).Error).NotTo(HaveOccurred())
			Expect(row.Active).To(BeFalse())
		})

		It("should return ErrNotFound for a missing user", func() {
			Expect(repo.SoftDelete(99999)).To(Equal(user.ErrNotFound))
		})
	})
})
