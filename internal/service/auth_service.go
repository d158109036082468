package service

import (
	"context"
	"sahayak_backend/internal/config"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
)

type AuthService struct {
	Directory *DirectoryService
	Cfg       *config.Config
}

func NewAuthService(directory *DirectoryService, cfg *config.Config) *AuthService {
	return &AuthService{
		Directory: directory,
		Cfg:       cfg,
	}
}

// Login checks the credentials for the requested role and issues a token.
// An admin may sign in as teacher; the admin role requires an admin account.
func (s *AuthService) Login(role model.UserRole, email, password string) (string, model.Session, error) {
	var (
		session model.Session
		hash    string
		mail    string
	)

	switch role {
	case model.RoleStudent:
		student, ok := s.Directory.GetStudentByEmail(email)
		if !ok {
			return "", nil, util.ErrInvalidCredentials
		}
		session, hash, mail = &model.StudentSession{Student: student}, student.PasswordHash, student.Email
	case model.RoleTeacher, model.RoleAdmin:
		teacher, ok := s.Directory.GetTeacherByEmail(email)
		if !ok || (role == model.RoleAdmin && !teacher.IsAdmin()) {
			return "", nil, util.ErrInvalidCredentials
		}
		session, hash, mail = &model.TeacherSession{Teacher: teacher}, teacher.PasswordHash, teacher.Email
	default:
		return "", nil, util.ErrInvalidCredentials
	}

	if !passwordMatches(hash, password) {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(session, mail, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// ResolveSession loads the current record behind a token. Deleted accounts
// and role changes invalidate outstanding tokens.
func (s *AuthService) ResolveSession(claims *util.Claims) (model.Session, error) {
	if claims == nil {
		return nil, util.ErrInvalidCredentials
	}
	switch claims.Role {
	case model.RoleStudent:
		student, ok := s.Directory.GetStudentByID(claims.UserID)
		if !ok {
			return nil, util.ErrInvalidCredentials
		}
		return &model.StudentSession{Student: student}, nil
	case model.RoleTeacher, model.RoleAdmin:
		teacher, ok := s.Directory.GetTeacherByID(claims.UserID)
		if !ok || teacher.Role != claims.Role {
			return nil, util.ErrInvalidCredentials
		}
		return &model.TeacherSession{Teacher: teacher}, nil
	}
	return nil, util.ErrInvalidCredentials
}

// ChangePassword changes the caller's own password.
func (s *AuthService) ChangePassword(ctx context.Context, session model.Session, current, newPassword string) (bool, error) {
	switch sess := session.(type) {
	case *model.StudentSession:
		return s.Directory.UpdateStudentPassword(ctx, sess.Student.ID, current, newPassword)
	case *model.TeacherSession:
		return s.Directory.UpdateTeacherPassword(ctx, sess.Teacher.ID, current, newPassword)
	}
	return false, util.ErrPermissionDenied
}
