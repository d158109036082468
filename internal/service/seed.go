package service

import (
	"context"
	"os"
	"sahayak_backend/internal/model"
	"sahayak_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultAdminName     = "Administrator"
	DefaultAdminEmail    = "admin@sahayak.local"
	defaultAdminPassword = "ChangeMe123!"
)

// SeedAdmin creates the default admin when there are no teachers at all.
func SeedAdmin(ctx context.Context, directory *DirectoryService) (bool, error) {
	if len(directory.GetTeachers()) > 0 {
		return false, nil
	}

	password := os.Getenv("SAHAYAK_ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
		logger.Log.Warn("seeding admin with the default password, change it after first login",
			zap.String("email", DefaultAdminEmail))
	}

	admin, err := directory.AddTeacher(ctx, TeacherInput{
		Name:     DefaultAdminName,
		Email:    DefaultAdminEmail,
		Password: password,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	logger.Log.Info("default admin created", zap.String("teacherId", admin.ID))
	return true, nil
}
