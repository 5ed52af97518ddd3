package handlers

import (
	"context"
	"io"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"medscribe/internal/api/middleware"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/api/v1/services"
	"medscribe/internal/app/model"
)

// MockServices bundles mock implementations of every service interface the
// handlers depend on.
type MockServices struct {
	TranscriptionService *MockTranscriptionService
	TranslationService   *MockTranslationService
	SpeechService        *MockSpeechService
	MediaService         *MockMediaService
	AuthService          *MockAuthService
	MonitorService       *MockMonitorService
	ExportService        *MockExportService
}

// NewMockServices creates a new instance of mock services.
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		TranscriptionService: NewMockTranscriptionService(t),
		TranslationService:   NewMockTranslationService(t),
		SpeechService:        NewMockSpeechService(t),
		MediaService:         NewMockMediaService(t),
		AuthService:          NewMockAuthService(t),
		MonitorService:       NewMockMonitorService(t),
		ExportService:        NewMockExportService(t),
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *MockServices) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, NewMockServices(t)
}

// testUser is the account the authenticated handler tests run as.
func testUser() *model.User {
	return &model.User{
		ID:       7,
		Username: "drsmith",
		Email:    "drsmith@clinic.example",
		IsActive: true,
	}
}

// asUser stores the account on the context the way RequireAuth does after
// verifying a token, so handlers can run without the full token flow.
func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

// MockTranscriptionService is a mock implementation of TranscriptionService
type MockTranscriptionService struct {
	mock.Mock
}

func NewMockTranscriptionService(t *testing.T) *MockTranscriptionService {
	m := &MockTranscriptionService{}
	m.Test(t)
	return m
}

func (m *MockTranscriptionService) Create(ctx context.Context, userID uint, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscriptionResponse), args.Error(1)
}

func (m *MockTranscriptionService) List(ctx context.Context, userID uint) ([]dto.TranscriptionResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.TranscriptionResponse), args.Error(1)
}

func (m *MockTranscriptionService) Get(ctx context.Context, userID, id uint) (*dto.TranscriptionResponse, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscriptionResponse), args.Error(1)
}

func (m *MockTranscriptionService) Update(ctx context.Context, userID, id uint, req *dto.UpdateTranscriptionRequest) (*dto.TranscriptionResponse, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscriptionResponse), args.Error(1)
}

func (m *MockTranscriptionService) Delete(ctx context.Context, userID, id uint) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTranscriptionService) UploadAndTranscribe(ctx context.Context, userID, id uint, upload services.UploadedAudio, withAnalysis bool) (*dto.UploadResult, error) {
	args := m.Called(ctx, userID, id, upload, withAnalysis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UploadResult), args.Error(1)
}

func (m *MockTranscriptionService) Analyze(ctx context.Context, userID, id uint) (*dto.AnalysisResponse, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalysisResponse), args.Error(1)
}

func (m *MockTranscriptionService) Summarize(ctx context.Context, userID, id uint) (*dto.SummaryResponse, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SummaryResponse), args.Error(1)
}

// MockTranslationService is a mock implementation of TranslationService
type MockTranslationService struct {
	mock.Mock
}

func NewMockTranslationService(t *testing.T) *MockTranslationService {
	m := &MockTranslationService{}
	m.Test(t)
	return m
}

func (m *MockTranslationService) Create(ctx context.Context, userID uint, req *dto.CreateTranslationRequest) (*dto.TranslationResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranslationResponse), args.Error(1)
}

func (m *MockTranslationService) Get(ctx context.Context, userID, id uint) (*dto.TranslationResponse, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranslationResponse), args.Error(1)
}

func (m *MockTranslationService) Glossary(sourceLanguage, targetLanguage string) (map[string]string, error) {
	args := m.Called(sourceLanguage, targetLanguage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockTranslationService) QualityCheck(ctx context.Context, userID, id uint) (*dto.QualityCheckResponse, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QualityCheckResponse), args.Error(1)
}

// MockSpeechService is a mock implementation of SpeechService
type MockSpeechService struct {
	mock.Mock
}

func NewMockSpeechService(t *testing.T) *MockSpeechService {
	m := &MockSpeechService{}
	m.Test(t)
	return m
}

func (m *MockSpeechService) Synthesize(ctx context.Context, userID uint, req *dto.SynthesizeRequest) (*dto.SynthesizeResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SynthesizeResponse), args.Error(1)
}

// MockMediaService is a mock implementation of MediaService
type MockMediaService struct {
	mock.Mock
}

func NewMockMediaService(t *testing.T) *MockMediaService {
	m := &MockMediaService{}
	m.Test(t)
	return m
}

func (m *MockMediaService) OpenUploadedAudio(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *MockMediaService) OpenSynthesizedAudio(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService(t *testing.T) *MockAuthService {
	m := &MockAuthService{}
	m.Test(t)
	return m
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthService) Profile(ctx context.Context, user *model.User) *dto.UserResponse {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*dto.UserResponse)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, user *model.User, req *dto.ChangePasswordRequest) error {
	args := m.Called(ctx, user, req)
	return args.Error(0)
}

// MockMonitorService is a mock implementation of MonitorService
type MockMonitorService struct {
	mock.Mock
}

func NewMockMonitorService(t *testing.T) *MockMonitorService {
	m := &MockMonitorService{}
	m.Test(t)
	return m
}

func (m *MockMonitorService) Status(ctx context.Context) *dto.StatusResponse {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*dto.StatusResponse)
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	mock.Mock
}

func NewMockExportService(t *testing.T) *MockExportService {
	m := &MockExportService{}
	m.Test(t)
	return m
}

func (m *MockExportService) ExportTranscriptions(ctx context.Context, userID uint, query dto.ExportQuery, w io.Writer) error {
	args := m.Called(ctx, userID, query, w)
	return args.Error(0)
}

var _ services.TranscriptionService = (*MockTranscriptionService)(nil)
var _ services.TranslationService = (*MockTranslationService)(nil)
var _ services.SpeechService = (*MockSpeechService)(nil)
var _ services.MediaService = (*MockMediaService)(nil)
var _ services.AuthService = (*MockAuthService)(nil)
var _ services.MonitorService = (*MockMonitorService)(nil)
var _ services.ExportService = (*MockExportService)(nil)
