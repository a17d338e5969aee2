package service

import (
	"context"
	"io"
	"time"

	"github.com/smartpdf/ui-api/internal/data"
	"github.com/smartpdf/ui-api/internal/domain/auth"
	"github.com/smartpdf/ui-api/internal/domain/model"
	"github.com/smartpdf/ui-api/internal/ports"
)

// Function-field mocks: each test wires only the calls it expects.

type mockUserRepo struct {
	createFn             func(ctx context.Context, p model.CreateUserParams) (*model.User, error)
	getByIDFn            func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn         func(ctx context.Context, email string) (*model.User, error)
	listFn               func(ctx context.Context, limit, offset int) ([]*model.AdminUserView, error)
	activateFn           func(ctx context.Context, id int64) error
	updateProfileFn      func(ctx context.Context, id int64, req model.UpdateProfileRequest) (*model.User, error)
	updatePasswordFn     func(ctx context.Context, id int64, passwordHash string) error
	deleteFn             func(ctx context.Context, id int64) error
	deleteStalePendingFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ ports.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(ctx context.Context, p model.CreateUserParams) (*model.User, error) {
	return m.createFn(ctx, p)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*model.AdminUserView, error) {
	return m.listFn(ctx, limit, offset)
}

func (m *mockUserRepo) Activate(ctx context.Context, id int64) error {
	return m.activateFn(ctx, id)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id int64, req model.UpdateProfileRequest) (*model.User, error) {
	return m.updateProfileFn(ctx, id, req)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.updatePasswordFn(ctx, id, passwordHash)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockUserRepo) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.deleteStalePendingFn(ctx, cutoff)
}

type mockSessionStore struct {
	saveFn   func(ctx context.Context, sess auth.Session) error
	getFn    func(ctx context.Context, id string) (auth.Session, error)
	deleteFn func(ctx context.Context, id string) error
}

var _ ports.SessionStore = (*mockSessionStore)(nil)

func (m *mockSessionStore) Save(ctx context.Context, sess auth.Session) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, sess)
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (auth.Session, error) {
	return m.getFn(ctx, id)
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockOTPStore struct {
	issueFn  func(ctx context.Context, purpose auth.OTPPurpose, email string) (string, error)
	checkFn  func(ctx context.Context, purpose auth.OTPPurpose, email, code string) error
	verifyFn func(ctx context.Context, purpose auth.OTPPurpose, email, code string) error
	deleteFn func(ctx context.Context, purpose auth.OTPPurpose, email string) error
}

var _ ports.OTPStore = (*mockOTPStore)(nil)

func (m *mockOTPStore) Issue(ctx context.Context, purpose auth.OTPPurpose, email string) (string, error) {
	if m.issueFn == nil {
		return "1234", nil
	}
	return m.issueFn(ctx, purpose, email)
}

func (m *mockOTPStore) Check(ctx context.Context, purpose auth.OTPPurpose, email, code string) error {
	return m.checkFn(ctx, purpose, email, code)
}

func (m *mockOTPStore) Verify(ctx context.Context, purpose auth.OTPPurpose, email, code string) error {
	return m.verifyFn(ctx, purpose, email, code)
}

func (m *mockOTPStore) Delete(ctx context.Context, purpose auth.OTPPurpose, email string) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, purpose, email)
}

type mockMailSender struct {
	sendFn func(ctx context.Context, to, subject, body string) error
	sent   []string
}

var _ ports.MailSender = (*mockMailSender)(nil)

func (m *mockMailSender) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, to)
	if m.sendFn == nil {
		return nil
	}
	return m.sendFn(ctx, to, subject, body)
}

type mockNotificationRepo struct {
	createFn func(ctx context.Context, userID int64, message string) (*model.Notification, error)
	listFn   func(ctx context.Context, userID int64) ([]*model.Notification, error)
	deleteFn func(ctx context.Context, id, userID int64) error
}

var _ ports.NotificationRepository = (*mockNotificationRepo)(nil)

func (m *mockNotificationRepo) Create(ctx context.Context, userID int64, message string) (*model.Notification, error) {
	return m.createFn(ctx, userID, message)
}

func (m *mockNotificationRepo) ListForUser(ctx context.Context, userID int64) ([]*model.Notification, error) {
	return m.listFn(ctx, userID)
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id, userID int64) error {
	return m.deleteFn(ctx, id, userID)
}

type mockTemplateRepo struct {
	saveFn    func(ctx context.Context, userID int64, req model.SaveTemplateRequest) (*model.Template, error)
	getByIDFn func(ctx context.Context, id, userID int64) (*model.Template, error)
	listFn    func(ctx context.Context, userID int64) ([]*model.Template, error)
}

var _ ports.TemplateRepository = (*mockTemplateRepo)(nil)

func (m *mockTemplateRepo) Save(ctx context.Context, userID int64, req model.SaveTemplateRequest) (*model.Template, error) {
	return m.saveFn(ctx, userID, req)
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, id, userID int64) (*model.Template, error) {
	if m.getByIDFn == nil {
		return nil, data.ErrTemplateNotFound
	}
	return m.getByIDFn(ctx, id, userID)
}

func (m *mockTemplateRepo) ListForUser(ctx context.Context, userID int64) ([]*model.Template, error) {
	return m.listFn(ctx, userID)
}

type mockConverter struct {
	uploadFn    func(ctx context.Context, filename string, r io.Reader) (string, error)
	createJobFn func(ctx context.Context, p ports.CreateJobParams) (string, error)
	getJobFn    func(ctx context.Context, jobID string) (*ports.JobStatus, error)
}

var _ ports.Converter = (*mockConverter)(nil)

func (m *mockConverter) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if m.uploadFn == nil {
		return "import-task", nil
	}
	return m.uploadFn(ctx, filename, r)
}

func (m *mockConverter) CreateJob(ctx context.Context, p ports.CreateJobParams) (string, error) {
	if m.createJobFn == nil {
		return "remote-job", nil
	}
	return m.createJobFn(ctx, p)
}

func (m *mockConverter) GetJob(ctx context.Context, jobID string) (*ports.JobStatus, error) {
	return m.getJobFn(ctx, jobID)
}
