package main

import (
	"fmt"
	"net/http"

	"github.com/wagewise-hr/payroll-backend-go/internal/config"
	appHTTP "github.com/wagewise-hr/payroll-backend-go/internal/handler/http"
	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/database"
	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/jwt"
	"github.com/wagewise-hr/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/wagewise-hr/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	companyRepo := postgresql.NewCompanyRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db, cfg.Payroll.WriteChunkSize)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	cycleService := payrollService.NewCycleService(
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		companyRepo,
		payrollService.Options{
			WorkingDaysPerMonth:  cfg.Payroll.WorkingDaysPerMonth,
			DailyWorkHours:       cfg.Payroll.DailyWorkHours,
			DefaultTZOffsetHours: cfg.Payroll.TimezoneOffsetHours,
		},
	)

	payrollHandler := appHTTP.NewPayrollHandler(cycleService)
	router := appHTTP.NewRouter(JWTService, payrollHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server is running on port", cfg.App.Port)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
