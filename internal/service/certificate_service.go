package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/repository"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// CertificateWriter writes the commendation printed on a certificate.
type CertificateWriter interface {
	GenerateCertificateText(ctx context.Context, studentName, courseTitle string, score float64) (string, error)
}

type CertificateService struct {
	Directory  *DirectoryService
	ResultRepo *repository.QuizResultRepository
	Writer     CertificateWriter
	Storage    *StorageService
}

func NewCertificateService(
	directory *DirectoryService,
	resultRepo *repository.QuizResultRepository,
	writer CertificateWriter,
	storage *StorageService,
) *CertificateService {
	return &CertificateService{
		Directory:  directory,
		ResultRepo: resultRepo,
		Writer:     writer,
		Storage:    storage,
	}
}

var certificateTemplate = template.Must(template.New("certificate").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format(util.CertificateDateFormat) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Certificate of Completion - {{.StudentName}}</title>
<style>
body { font-family: Georgia, serif; text-align: center; padding: 4em; }
.frame { border: 6px double #2f5d8a; padding: 3em; }
h1 { color: #2f5d8a; letter-spacing: 0.1em; }
.name { font-size: 2em; margin: 0.5em 0; }
</style>
</head>
<body>
<div class="frame">
<h1>Certificate of Completion</h1>
<p>This certifies that</p>
<p class="name">{{.StudentName}}</p>
<p>has completed the course <strong>{{.CourseTitle}}</strong> with a quiz score of {{printf "%.0f" .Score}}%.</p>
<p>{{.Commendation}}</p>
<p>Issued {{date .IssuedAt}}</p>
</div>
</body>
</html>
`))

// Issue renders and stores a certificate for a student whose latest result
// in the course has been graded. The caller must own the student.
func (s *CertificateService) Issue(ctx context.Context, session model.Session, courseID, studentID string) (model.Certificate, error) {
	ts, err := StaffSession(session)
	if err != nil {
		return model.Certificate{}, err
	}
	course, ok := s.Directory.GetCourseByID(courseID)
	if !ok {
		return model.Certificate{}, util.ErrCourseNotFound
	}
	student, ok := s.Directory.GetStudentByID(studentID)
	if !ok {
		return model.Certificate{}, util.ErrStudentNotFound
	}
	if !OwnsStudent(ts, student) || !IsEnrolled(student, course) {
		return model.Certificate{}, util.ErrPermissionDenied
	}
	result, ok := s.ResultRepo.FindLatest(studentID, courseID)
	if !ok {
		return model.Certificate{}, util.ErrResultNotFound
	}
	if !result.Graded {
		return model.Certificate{}, util.ErrResultNotGraded
	}

	commendation, err := s.Writer.GenerateCertificateText(ctx, student.Name, course.Title, result.Score)
	if err != nil {
		return model.Certificate{}, err
	}

	cert := model.Certificate{
		StudentID:    student.ID,
		CourseID:     course.ID,
		StudentName:  student.Name,
		CourseTitle:  course.Title,
		Score:        result.Score,
		Commendation: commendation,
		IssuedAt:     model.NowFunc(),
	}

	var buf bytes.Buffer
	if err := certificateTemplate.Execute(&buf, cert); err != nil {
		return model.Certificate{}, err
	}

	key := fmt.Sprintf("certificates/%s/%s-%d.html", course.ID, student.ID, cert.IssuedAt.Unix())
	url, err := s.Storage.Put(ctx, key, buf.Bytes(), util.MimeHTML)
	if err != nil {
		return model.Certificate{}, fmt.Errorf("upload certificate: %w", err)
	}
	cert.URL = url

	logger.Log.Info("certificate issued",
		zap.String("studentId", student.ID),
		zap.String("courseId", course.ID),
		zap.String("url", url))
	return cert, nil
}
