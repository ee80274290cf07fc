package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with reference data",
	Long:  `Seed departments, roles, the permission catalogue and an initial administrator account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"department_link_assignments", "department_links", "quick_links",
				"user_roles", "role_permissions", "users", "permissions", "roles", "departments",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		departments := []string{"Human Resources", "Finance", "Information Technology", "Operations"}
		for _, name := range departments {
			var exists int
			if err := db.Raw("SELECT 1 FROM departments WHERE name = ?", name).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO departments (name, created_at, updated_at) VALUES (?, now(), now())", name).Error; err != nil {
				log.Fatalf("failed to insert department %s: %v", name, err)
			}
			fmt.Println("Seeded department:", name)
		}

		roles := []struct {
			Name string
			Desc string
		}{
			{"Super Admin", "Full access to every portal feature"},
			{"Admin", "Manage users, departments and links"},
			{"User", "Standard portal access"},
		}
		for _, r := range roles {
			var exists int
			if err := db.Raw("SELECT 1 FROM roles WHERE name = ?", r.Name).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO roles (name, description, active, created_at) VALUES (?, ?, true, now())", r.Name, r.Desc).Error; err != nil {
				log.Fatalf("failed to insert role %s: %v", r.Name, err)
			}
			fmt.Println("Seeded role:", r.Name)
		}

		permissions := []struct {
			Name     string
			Resource string
			Action   string
			Desc     string
		}{
			{"users.read", "users", "read", "View users"},
			{"users.create", "users", "create", "Create users"},
			{"users.update", "users", "update", "Update users"},
			{"users.delete", "users", "delete", "Deactivate users"},
			{"departments.create", "departments", "create", "Create departments"},
			{"departments.update", "departments", "update", "Update departments"},
			{"departments.delete", "departments", "delete", "Delete departments"},
			{"departmentlinks.create", "departmentlinks", "create", "Create department links"},
			{"departmentlinks.update", "departmentlinks", "update", "Update and reorder department links"},
			{"departmentlinks.delete", "departmentlinks", "delete", "Remove department links"},
			{"quicklinks.create", "quicklinks", "create", "Create quick links"},
			{"quicklinks.update", "quicklinks", "update", "Update and reorder quick links"},
			{"quicklinks.delete", "quicklinks", "delete", "Remove quick links"},
		}
		for _, p := range permissions {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row().Scan(&pid); err != nil {
				if err := db.Exec("INSERT INTO permissions (name, resource, action, description, created_at) VALUES (?, ?, ?, ?, now())",
					p.Name, p.Resource, p.Action, p.Desc).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}
		fmt.Println("Seeded permission catalogue")

		// Super Admin holds every permission; Admin everything but user deletion
		grantAll := func(roleName string, skip map[string]bool) {
			var roleID int64
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", roleName).Row().Scan(&roleID); err != nil {
				log.Fatalf("role not found %s: %v", roleName, err)
			}
			for _, p := range permissions {
				if skip[p.Name] {
					continue
				}
				var pid int64
				if err := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row().Scan(&pid); err != nil {
					log.Fatalf("permission not found %s: %v", p.Name, err)
				}
				var exists int
				if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", roleID, pid).Row().Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES (?, ?, now())", roleID, pid).Error; err != nil {
					log.Fatalf("failed to grant %s to %s: %v", p.Name, roleName, err)
				}
			}
		}
		grantAll("Super Admin", nil)
		grantAll("Admin", map[string]bool{"users.delete": true})
		fmt.Println("Granted role permissions")

		adminUsername := "admin"
		var adminID int64
		if err := db.Raw("SELECT id FROM users WHERE username = ?", adminUsername).Row().Scan(&adminID); err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash admin password: %v", err)
			}
			if err := db.Exec(`INSERT INTO users (username, email, password_hash, first_name, last_name, active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, true, now(), now())`,
				adminUsername, "admin@intraforms.local", string(hash), "Portal", "Administrator").Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			if err := db.Raw("SELECT id FROM users WHERE username = ?", adminUsername).Row().Scan(&adminID); err != nil {
				log.Fatalf("failed to lookup admin user id: %v", err)
			}
			fmt.Println("Seeded admin user:", adminUsername)
		}

		var superAdminID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", "Super Admin").Row().Scan(&superAdminID); err != nil {
			log.Fatalf("Super Admin role not found: %v", err)
		}
		var assigned int
		if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?", adminID, superAdminID).Row().Scan(&assigned); err != nil {
			if err := db.Exec("INSERT INTO user_roles (user_id, role_id, created_at) VALUES (?, ?, now())", adminID, superAdminID).Error; err != nil {
				log.Fatalf("failed to assign Super Admin role: %v", err)
			}
		}

		fmt.Println("Seeding complete")
	},
}
