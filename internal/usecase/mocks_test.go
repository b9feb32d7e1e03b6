package usecase_test

import (
	"context"
	"io"
	"time"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/security/antivirus"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTalentRepo struct {
	mock.Mock
}

func (m *MockTalentRepo) Create(ctx context.Context, p *domain.TalentProfile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockTalentRepo) Update(ctx context.Context, p *domain.TalentProfile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockTalentRepo) GetByID(ctx context.Context, id string) (*domain.TalentProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TalentProfile), args.Error(1)
}
func (m *MockTalentRepo) GetByUserID(ctx context.Context, userID string) (*domain.TalentProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TalentProfile), args.Error(1)
}
func (m *MockTalentRepo) IncrementViews(ctx context.Context, id string) (*domain.TalentProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TalentProfile), args.Error(1)
}
func (m *MockTalentRepo) Search(ctx context.Context, filter domain.TalentSearchFilter) ([]domain.TalentProfile, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.TalentProfile), args.Get(1).(int64), args.Error(2)
}
func (m *MockTalentRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockRecruiterRepo struct {
	mock.Mock
}

func (m *MockRecruiterRepo) Create(ctx context.Context, r *domain.RecruiterProfile) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRecruiterRepo) Update(ctx context.Context, r *domain.RecruiterProfile) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRecruiterRepo) GetByUserID(ctx context.Context, userID string) (*domain.RecruiterProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecruiterProfile), args.Error(1)
}
func (m *MockRecruiterRepo) GetShortlist(ctx context.Context, userID string) ([]domain.ShortlistedTalent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShortlistedTalent), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

// Mock ports
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, key, contentType string, r io.Reader) (*domain.StoredFile, error) {
	args := m.Called(ctx, key, contentType, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredFile), args.Error(1)
}
func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ext string, content []byte) (string, error) {
	args := m.Called(ext, content)
	return args.String(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

type stubTokens struct{}

func (stubTokens) Issue(userID, role string) (string, error) {
	return "token-" + userID + "-" + role, nil
}

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Scan(ctx context.Context, data []byte) (antivirus.Verdict, error) {
	args := m.Called(ctx, data)
	return args.Get(0).(antivirus.Verdict), args.Error(1)
}
