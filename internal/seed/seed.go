package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/orgtree/internal/app/models"
	appRepos "github.com/yigit/orgtree/internal/app/repositories"
)

// CreateDemoData inserts a small sample organizational tree for local
// development. It is a no-op when any departments already exist.
func CreateDemoData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	var count int64
	if err := dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		lgr.Debug().Msg("Departments already present, skipping demo data")
		return nil
	}

	lgr.Info().Msg("Creating demo data...")

	departmentRepo := appRepos.NewDepartmentRepository(dbPool)
	employeeRepo := appRepos.NewEmployeeRepository(dbPool)

	engineering := &appModels.Department{Name: "Engineering"}
	if err := departmentRepo.Create(ctx, engineering); err != nil {
		return err
	}

	for _, name := range []string{"Backend", "Frontend"} {
		child := &appModels.Department{Name: name, ParentID: &engineering.ID}
		if err := departmentRepo.Create(ctx, child); err != nil {
			return err
		}
	}

	cto := &appModels.Employee{
		DepartmentID: engineering.ID,
		FullName:     "Alex Petrov",
		Position:     "CTO",
	}
	if err := employeeRepo.Create(ctx, cto); err != nil {
		return err
	}

	lgr.Info().Int64("rootDepartmentId", engineering.ID).Msg("Demo data created")
	return nil
}
