package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	deductionDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/deduction"
	employeeDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/payroll"
	userDatamodel "github.com/frahmantamala/payroll-management/internal/core/datamodel/user"
	"github.com/frahmantamala/payroll-management/internal/payrollperiod"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		gormDB, err := initGormDB(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			clearTables(gormDB)
		}

		cost := cfg.Security.BCryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		if err := seedAll(gormDB, string(hash)); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("seeding complete")
	},
}

func clearTables(db *gorm.DB) {
	tables := []string{
		"payroll_approvals", "payroll_records", "attendance_aggregates",
		"employee_benefits", "employee_deductions", "deduction_types",
		"payroll_periods", "employees", "user_permissions", "permissions",
		"users", "departments",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("cleared existing data")
}

func seedAll(db *gorm.DB, passwordHash string) error {
	users := []userDatamodel.User{
		{Email: "nina.hr@mail.com", Name: "Nina Pertiwi", PasswordHash: passwordHash, IsActive: true},
		{Email: "bayu.eng@mail.com", Name: "Bayu Santoso", PasswordHash: passwordHash, IsActive: true},
		{Email: "sari.fin@mail.com", Name: "Sari Wulandari", PasswordHash: passwordHash, IsActive: true},
	}
	for i := range users {
		if err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].Email, err)
		}
	}
	hrUser, engHead, finHead := users[0], users[1], users[2]

	departments := []employeeDatamodel.Department{
		{Name: "Engineering", HeadUserID: &engHead.ID},
		{Name: "Finance", HeadUserID: &finHead.ID},
	}
	for i := range departments {
		if err := db.Where("name = ?", departments[i].Name).FirstOrCreate(&departments[i]).Error; err != nil {
			return fmt.Errorf("seed department %s: %w", departments[i].Name, err)
		}
	}

	permissions := []userDatamodel.Permission{
		{Name: "payroll:manage", Description: "Manage payroll periods and records"},
		{Name: "payroll:approve", Description: "Approve payroll periods organization-wide"},
	}
	for i := range permissions {
		if err := db.Where("name = ?", permissions[i].Name).FirstOrCreate(&permissions[i]).Error; err != nil {
			return fmt.Errorf("seed permission %s: %w", permissions[i].Name, err)
		}
	}
	for _, p := range permissions {
		up := userDatamodel.UserPermission{UserID: hrUser.ID, PermissionID: p.ID}
		if err := db.Where("user_id = ? AND permission_id = ?", hrUser.ID, p.ID).FirstOrCreate(&up).Error; err != nil {
			return fmt.Errorf("grant permission %d to hr user: %w", p.ID, err)
		}
	}

	hourlyRate := decimal.NewFromInt(120)
	employees := []employeeDatamodel.Employee{
		{Name: "Andi Wijaya", Email: "andi@mail.com", DepartmentID: departments[0].ID,
			BaseSalary: decimal.NewFromInt(16000), IsActive: true},
		{Name: "Budi Hartono", Email: "budi@mail.com", DepartmentID: departments[0].ID,
			BaseSalary: decimal.NewFromInt(14000), HourlyRate: &hourlyRate, IsActive: true},
		{Name: "Citra Lestari", Email: "citra@mail.com", DepartmentID: departments[1].ID,
			BaseSalary: decimal.NewFromInt(12000), IsActive: true},
	}
	for i := range employees {
		if err := db.Where("email = ?", employees[i].Email).FirstOrCreate(&employees[i]).Error; err != nil {
			return fmt.Errorf("seed employee %s: %w", employees[i].Email, err)
		}
	}

	deductionTypes := []deductionDatamodel.DeductionType{
		{Name: "income_tax", DefaultAmount: decimal.NewFromInt(500), IsActive: true},
		{Name: "health_insurance", DefaultAmount: decimal.NewFromInt(250), IsActive: true},
	}
	for i := range deductionTypes {
		if err := db.Where("name = ?", deductionTypes[i].Name).FirstOrCreate(&deductionTypes[i]).Error; err != nil {
			return fmt.Errorf("seed deduction type %s: %w", deductionTypes[i].Name, err)
		}
	}
	for _, emp := range employees {
		for _, dt := range deductionTypes {
			ed := deductionDatamodel.EmployeeDeduction{
				EmployeeID:      emp.ID,
				DeductionTypeID: dt.ID,
				Amount:          dt.DefaultAmount,
				IsActive:        true,
			}
			err := db.Where("employee_id = ? AND deduction_type_id = ?", emp.ID, dt.ID).
				FirstOrCreate(&ed).Error
			if err != nil {
				return fmt.Errorf("seed deduction for employee %d: %w", emp.ID, err)
			}
		}
		benefit := deductionDatamodel.EmployeeBenefit{
			EmployeeID: emp.ID,
			Name:       "meal_allowance",
			Amount:     decimal.NewFromInt(300),
			IsActive:   true,
		}
		err := db.Where("employee_id = ? AND name = ?", emp.ID, benefit.Name).
			FirstOrCreate(&benefit).Error
		if err != nil {
			return fmt.Errorf("seed benefit for employee %d: %w", emp.ID, err)
		}
	}

	now := time.Now()
	period := payrollDatamodel.PayrollPeriod{
		PeriodName:           now.Format("January 2006"),
		StartDate:            time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC),
		WorkingDays:          20,
		ExpectedMonthlyHours: decimal.NewFromInt(160),
		Status:               payrollperiod.StatusDraft,
	}
	if err := db.Where("period_name = ?", period.PeriodName).FirstOrCreate(&period).Error; err != nil {
		return fmt.Errorf("seed period: %w", err)
	}

	for _, emp := range employees {
		agg := employeeDatamodel.AttendanceAggregate{
			PayrollPeriodID: period.ID,
			EmployeeID:      emp.ID,
			RegularHours:    decimal.NewFromInt(150),
			OvertimeHours:   decimal.NewFromInt(5),
			LateHours:       decimal.NewFromInt(2),
			PaidLeaveHours:  decimal.NewFromInt(8),
		}
		err := db.Where("payroll_period_id = ? AND employee_id = ?", period.ID, emp.ID).
			FirstOrCreate(&agg).Error
		if err != nil {
			return fmt.Errorf("seed attendance for employee %d: %w", emp.ID, err)
		}
	}

	return nil
}
