package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/analysis"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/config"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/models"
	"github.com/sstrntu/youtube-live-comment-scrapper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorage is a mock implementation of the storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, name string, data []byte) error {
	args := m.Called(ctx, name, data)
	return args.Error(0)
}

func (m *MockStorage) Retrieve(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStorage) List(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockNotificationService is a mock implementation of the notification service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendDigest(run *models.AnalysisRun) error {
	args := m.Called(run)
	return args.Error(0)
}

type failingThemes struct{}

func (failingThemes) Themes(ctx context.Context, messages []models.Message) ([]models.Theme, error) {
	return nil, errors.New("quota exceeded")
}

const sampleTranscript = `[
	{"id":"1","author":"Hostess","text":"Welcome everyone to the launch stream","timestamp":"2024-03-01T20:00:00Z","badges":["owner"]},
	{"id":"2","author":"Hostess","text":"What should we build next?","timestamp":"2024-03-01T20:00:10Z","badges":["owner"]},
	{"id":"3","author":"Bob","text":"a pizza tracker","timestamp":"2024-03-01T20:00:20Z"},
	{"id":"4","author":"Cara","text":"pizza tracker for sure","timestamp":"2024-03-01T20:00:40Z"},
	{"id":"5","author":"Dan","text":"more pizza please","timestamp":"2024-03-01T20:01:00Z"}
]`

func newTestService(prefix string, themes analysis.ThemeSource) (*Service, *MockStorage, *MockNotificationService) {
	cfg := &config.Config{TranscriptPrefix: prefix}
	mockStorage := &MockStorage{}
	mockNotifications := &MockNotificationService{}
	analyzer := analysis.NewAnalyzer(analysis.DefaultOptions(), themes)
	return NewService(cfg, mockStorage, mockNotifications, analyzer), mockStorage, mockNotifications
}

func TestService_AnalyzeMessages(t *testing.T) {
	service, _, _ := newTestService("", nil)

	run := service.AnalyzeMessages(context.Background(), "api", nil, "")

	_, err := uuid.Parse(run.ID)
	assert.NoError(t, err)
	assert.Equal(t, "api", run.Source)
	assert.Equal(t, models.UnknownHost, run.Analysis.HostName)
	assert.NotEmpty(t, run.Duration)

	stats := service.Stats()
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, "api", stats.LastSource)
	assert.Equal(t, 0, stats.AugmentationFallbacks)
}

func TestService_AnalyzeTranscript(t *testing.T) {
	service, mockStorage, _ := newTestService("streams/", nil)
	mockStorage.On("Retrieve", mock.Anything, "streams/launch.json").Return([]byte(sampleTranscript), nil)

	run, err := service.AnalyzeTranscript(context.Background(), "launch.json", "")

	require.NoError(t, err)
	assert.Equal(t, "launch.json", run.Source)
	assert.Equal(t, "Hostess", run.Analysis.HostName)
	assert.Equal(t, 1, run.Analysis.Summary.TotalQuestions)
	assert.Equal(t, 1, run.Analysis.Summary.AnsweredQuestions)
	assert.Equal(t, 5, service.Stats().TotalMessages)
	mockStorage.AssertExpectations(t)
}

func TestService_AnalyzeTranscript_ManualHost(t *testing.T) {
	service, mockStorage, _ := newTestService("", nil)
	mockStorage.On("Retrieve", mock.Anything, "launch.json").Return([]byte(sampleTranscript), nil)

	run, err := service.AnalyzeTranscript(context.Background(), "launch.json", "Bob")

	require.NoError(t, err)
	assert.Equal(t, "Bob", run.Analysis.HostName)
}

func TestService_AnalyzeTranscript_NotFound(t *testing.T) {
	service, mockStorage, _ := newTestService("", nil)
	mockStorage.On("Retrieve", mock.Anything, "gone.json").Return(nil, storage.ErrNotFound)

	_, err := service.AnalyzeTranscript(context.Background(), "gone.json", "")

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_StoreTranscript(t *testing.T) {
	service, mockStorage, _ := newTestService("streams/", nil)
	mockStorage.On("Store", mock.Anything, "streams/launch.json", []byte(sampleTranscript)).Return(nil)

	count, err := service.StoreTranscript(context.Background(), "launch.json", []byte(sampleTranscript))

	require.NoError(t, err)
	assert.Equal(t, 5, count)
	mockStorage.AssertExpectations(t)
}

func TestService_StoreTranscript_RejectsInvalid(t *testing.T) {
	service, mockStorage, _ := newTestService("", nil)

	_, err := service.StoreTranscript(context.Background(), "bad.json", []byte("id,author,text"))

	assert.ErrorIs(t, err, ErrInvalidTranscript)
	mockStorage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ListTranscripts(t *testing.T) {
	service, mockStorage, _ := newTestService("streams/", nil)
	mockStorage.On("List", mock.Anything, "streams/").Return([]string{"streams/a.json", "streams/b.json"}, nil)

	names, err := service.ListTranscripts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, names)
}

func TestService_RunScan(t *testing.T) {
	service, mockStorage, mockNotifications := newTestService("streams/", nil)
	ctx := context.Background()

	mockStorage.On("List", mock.Anything, "streams/").
		Return([]string{"streams/a.json", "streams/b.json", "streams/bad.json"}, nil)
	mockStorage.On("Retrieve", mock.Anything, "streams/a.json").Return([]byte(sampleTranscript), nil)
	mockStorage.On("Retrieve", mock.Anything, "streams/b.json").Return(nil, errors.New("connection reset"))
	mockStorage.On("Retrieve", mock.Anything, "streams/bad.json").Return([]byte("not json"), nil)
	mockNotifications.On("SendDigest", mock.AnythingOfType("*models.AnalysisRun")).Return(nil)

	first, err := service.RunScan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Listed)
	assert.Equal(t, []string{"a.json"}, first.Analyzed)
	assert.Equal(t, []string{"b.json", "bad.json"}, first.Failed)

	second, err := service.RunScan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Skipped)
	assert.Empty(t, second.Analyzed)
	assert.Equal(t, []string{"b.json"}, second.Failed)

	mockNotifications.AssertNumberOfCalls(t, "SendDigest", 1)
	mockStorage.AssertNumberOfCalls(t, "Retrieve", 4)

	stats := service.Stats()
	assert.Equal(t, 2, stats.ProcessedTranscripts)
	assert.Equal(t, 3, stats.ErrorCount)
}

func TestService_RunScan_ListFailure(t *testing.T) {
	service, mockStorage, _ := newTestService("", nil)
	mockStorage.On("List", mock.Anything, "").Return(nil, errors.New("forbidden"))

	_, err := service.RunScan(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, service.Stats().ErrorCount)
}

func TestService_DeleteTranscript_AllowsRescan(t *testing.T) {
	service, mockStorage, mockNotifications := newTestService("", nil)
	ctx := context.Background()

	mockStorage.On("List", mock.Anything, "").Return([]string{"a.json"}, nil)
	mockStorage.On("Retrieve", mock.Anything, "a.json").Return([]byte(sampleTranscript), nil)
	mockStorage.On("Delete", mock.Anything, "a.json").Return(nil)
	mockNotifications.On("SendDigest", mock.Anything).Return(nil)

	_, err := service.RunScan(ctx)
	require.NoError(t, err)
	require.NoError(t, service.DeleteTranscript(ctx, "a.json"))
	assert.Equal(t, 0, service.Stats().ProcessedTranscripts)

	result, err := service.RunScan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json"}, result.Analyzed)
	mockNotifications.AssertNumberOfCalls(t, "SendDigest", 2)
}

func TestService_DeliverFailureIsCounted(t *testing.T) {
	service, _, mockNotifications := newTestService("", nil)
	mockNotifications.On("SendDigest", mock.Anything).Return(errors.New("webhook down"))

	service.Deliver(&models.AnalysisRun{ID: "run-1"})

	assert.Equal(t, 1, service.Stats().DigestFailures)
}

func TestService_AugmentationFallbackIsCounted(t *testing.T) {
	service, mockStorage, _ := newTestService("", failingThemes{})
	mockStorage.On("Retrieve", mock.Anything, "a.json").Return([]byte(sampleTranscript), nil)

	run, err := service.AnalyzeTranscript(context.Background(), "a.json", "")

	require.NoError(t, err)
	for _, c := range run.Analysis.TopicClusters {
		assert.Equal(t, models.ClusterSourceKeyword, c.Source)
	}
	assert.Equal(t, 1, service.Stats().AugmentationFallbacks)
}

func TestService_GetMetrics(t *testing.T) {
	service, _, _ := newTestService("", nil)
	service.AnalyzeMessages(context.Background(), "api", nil, "")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(service.GetMetrics()), &decoded))
	assert.Equal(t, float64(1), decoded["total_runs"])
	assert.Equal(t, "api", decoded["last_source"])
}
