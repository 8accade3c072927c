package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"docsync/internal/config"
	"docsync/internal/destination/notion"
	"docsync/internal/domain"
	"docsync/internal/service/mocks"
)

type SyncServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source      *mocks.MockSource
	destination *mocks.MockDestination
	images      *mocks.MockImageResolver
	tasks       *mocks.MockTaskStore
	configs     *mocks.MockConfigStore
	publisher   *mocks.MockPublisher

	service *SyncService
	cfg     config.SyncConfig
	logger  *slog.Logger
	now     time.Time
}

func (s *SyncServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.destination = mocks.NewMockDestination(s.ctrl)
	s.images = mocks.NewMockImageResolver(s.ctrl)
	s.tasks = mocks.NewMockTaskStore(s.ctrl)
	s.configs = mocks.NewMockConfigStore(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.cfg = config.SyncConfig{
		BatchSize:       5,
		DefaultCategory: "Tech Sharing",
		PageType:        "Post",
		PageStatus:      "Published",
	}

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	s.service = NewSyncService(
		s.source,
		s.destination,
		s.images,
		s.tasks,
		s.configs,
		s.publisher,
		s.logger,
		s.cfg,
		"db1",
	)
	s.service.now = func() time.Time { return s.now }
}

func (s *SyncServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func (s *SyncServiceTestSuite) task(id int64, targetID string) *domain.SyncTask {
	return &domain.SyncTask{
		ID:             id,
		RecordNumber:   fmt.Sprintf("1700000000000_%08d", id),
		SourcePlatform: domain.PlatformFeishu,
		TargetPlatform: domain.PlatformNotion,
		SourceID:       "doxcn123",
		TargetID:       targetID,
		ContentType:    domain.ContentDocument,
		Status:         domain.StatusPending,
	}
}

func paragraphDoc(n int) *domain.ParsedDocument {
	doc := &domain.ParsedDocument{ID: "doxcn123", Title: "Weekly"}
	for i := range n {
		doc.Blocks = append(doc.Blocks, domain.TextBlock{ID: fmt.Sprintf("b%d", i), Text: fmt.Sprintf("line %d", i)})
	}
	return doc
}

func (s *SyncServiceTestSuite) expectClaim(task *domain.SyncTask) {
	s.tasks.EXPECT().GetByID(gomock.Any(), task.ID).Return(task, nil)
	s.tasks.EXPECT().Claim(gomock.Any(), task.ID).Return(nil)
}

func (s *SyncServiceTestSuite) TestProcessTask_CreateChunksLargeDocument() {
	ctx := context.Background()
	task := s.task(1, "")
	doc := paragraphDoc(250)
	props := notion.Properties{"Name": notion.TitleProperty{Text: "Weekly"}}

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").Return(doc, nil)
	s.images.EXPECT().Resolve(ctx, gomock.Len(0)).Return(map[string]domain.ResolvedImage{})
	s.destination.EXPECT().FindPageByTitle(ctx, "db1", "Weekly").Return(nil, nil)
	s.configs.EXPECT().GetCategory(ctx, domain.PlatformFeishu, "doxcn123").Return("", nil)
	s.destination.EXPECT().PageProperties(ctx, "db1", notion.PageAttributes{
		Title:    "Weekly",
		Type:     "Post",
		Status:   "Published",
		Category: "Tech Sharing",
		Date:     s.now,
	}).Return(props)

	gomock.InOrder(
		s.destination.EXPECT().CreateDatabasePage(ctx, "db1", props, gomock.Len(100)).
			Return(&notion.Page{ID: "page1"}, nil),
		s.destination.EXPECT().AppendBlocks(ctx, "page1", gomock.Len(100)).Return(nil),
		s.destination.EXPECT().AppendBlocks(ctx, "page1", gomock.Len(50)).Return(nil),
	)

	s.tasks.EXPECT().MarkSuccess(ctx, int64(1), "page1", "Weekly", s.now).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e domain.TaskEvent) error {
		s.Equal(domain.StatusSuccess, e.Status)
		s.Equal(domain.ActionCreate, e.Action)
		s.Equal("page1", e.TargetID)
		return nil
	})

	result, err := s.service.ProcessTask(ctx, 1)

	s.Require().NoError(err)
	s.Equal(domain.ActionCreate, result.Action)
	s.Equal(250, result.BlocksWritten)
	s.Zero(result.ChunksFailed)
}

func (s *SyncServiceTestSuite) TestProcessTask_FailedChunkIsSkipped() {
	ctx := context.Background()
	task := s.task(2, "")

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").Return(paragraphDoc(150), nil)
	s.images.EXPECT().Resolve(ctx, gomock.Any()).Return(nil)
	s.destination.EXPECT().FindPageByTitle(ctx, "db1", "Weekly").Return(nil, nil)
	s.configs.EXPECT().GetCategory(ctx, domain.PlatformFeishu, "doxcn123").Return("Ops", nil)
	s.destination.EXPECT().PageProperties(ctx, "db1", gomock.Any()).Return(notion.Properties{})
	s.destination.EXPECT().CreateDatabasePage(ctx, "db1", gomock.Any(), gomock.Len(100)).Return(&notion.Page{ID: "page2"}, nil)
	s.destination.EXPECT().AppendBlocks(ctx, "page2", gomock.Len(50)).Return(errors.New("validation_error"))
	s.tasks.EXPECT().MarkSuccess(ctx, int64(2), "page2", "Weekly", s.now).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := s.service.ProcessTask(ctx, 2)

	s.Require().NoError(err)
	s.Equal(100, result.BlocksWritten)
	s.Equal(1, result.ChunksFailed)
}

func (s *SyncServiceTestSuite) TestProcessTask_UpdatesRecordedTarget() {
	ctx := context.Background()
	task := s.task(3, "page-old")

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").Return(paragraphDoc(3), nil)
	s.images.EXPECT().Resolve(ctx, gomock.Any()).Return(nil)
	s.destination.EXPECT().UpdatePageFromSource(ctx, "page-old", "Weekly", gomock.Len(3)).
		Return(&notion.WriteReport{BlocksWritten: 3, Deleted: 7}, nil)
	s.tasks.EXPECT().MarkSuccess(ctx, int64(3), "page-old", "Weekly", s.now).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := s.service.ProcessTask(ctx, 3)

	s.Require().NoError(err)
	s.Equal(domain.ActionUpdate, result.Action)
	s.Equal(3, result.BlocksWritten)
}

func (s *SyncServiceTestSuite) TestProcessTask_FallsBackToTitleSearchAndBackfills() {
	ctx := context.Background()
	task := s.task(4, "page-gone")

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").Return(paragraphDoc(2), nil)
	s.images.EXPECT().Resolve(ctx, gomock.Any()).Return(nil)
	s.destination.EXPECT().UpdatePageFromSource(ctx, "page-gone", "Weekly", gomock.Any()).
		Return(nil, fmt.Errorf("get page: %w", domain.ErrResourceNotFound))
	s.destination.EXPECT().FindPageByTitle(ctx, "db1", "Weekly").Return(&notion.Page{ID: "page-found", Title: "Weekly"}, nil)
	s.destination.EXPECT().UpdatePageFromSource(ctx, "page-found", "Weekly", gomock.Any()).
		Return(&notion.WriteReport{BlocksWritten: 2}, nil)
	s.tasks.EXPECT().SetTargetID(ctx, int64(4), "page-found").Return(nil)
	s.tasks.EXPECT().MarkSuccess(ctx, int64(4), "page-found", "Weekly", s.now).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := s.service.ProcessTask(ctx, 4)

	s.Require().NoError(err)
	s.Equal(domain.ActionUpdateExisting, result.Action)
	s.Equal("page-found", result.TargetID)
}

func (s *SyncServiceTestSuite) TestProcessTask_ParseFailureMarksFailed() {
	ctx := context.Background()
	task := s.task(5, "")

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").Return(nil, fmt.Errorf("fetch: %w", domain.ErrPermissionDenied))
	s.tasks.EXPECT().MarkFailed(gomock.Any(), int64(5), gomock.Any(), s.now).DoAndReturn(
		func(_ context.Context, _ int64, msg string, _ time.Time) error {
			s.Contains(msg, "parse source document")
			return nil
		},
	)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e domain.TaskEvent) error {
		s.Equal(domain.StatusFailed, e.Status)
		s.NotEmpty(e.Error)
		return nil
	})

	_, err := s.service.ProcessTask(ctx, 5)

	s.ErrorIs(err, domain.ErrPermissionDenied)
}

func (s *SyncServiceTestSuite) TestProcessTask_MarkFailedErrorIsTolerated() {
	ctx, cancel := context.WithCancel(context.Background())
	task := s.task(6, "")

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").DoAndReturn(func(context.Context, string) (*domain.ParsedDocument, error) {
		cancel()
		return nil, context.Canceled
	})
	s.tasks.EXPECT().MarkFailed(gomock.Any(), int64(6), gomock.Any(), s.now).DoAndReturn(
		func(writeCtx context.Context, _ int64, _ string, _ time.Time) error {
			s.NoError(writeCtx.Err(), "failure is recorded on a live context")
			return errors.New("connection refused")
		},
	)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := s.service.ProcessTask(ctx, 6)

	s.ErrorIs(err, context.Canceled)
}

func (s *SyncServiceTestSuite) TestProcessTask_MarkSuccessErrorMarksFailed() {
	ctx := context.Background()
	task := s.task(13, "page13")

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").Return(paragraphDoc(1), nil)
	s.images.EXPECT().Resolve(ctx, gomock.Any()).Return(nil)
	s.destination.EXPECT().UpdatePageFromSource(ctx, "page13", "Weekly", gomock.Any()).Return(&notion.WriteReport{BlocksWritten: 1}, nil)
	s.tasks.EXPECT().MarkSuccess(ctx, int64(13), "page13", "Weekly", s.now).Return(errors.New("connection reset"))
	s.tasks.EXPECT().MarkFailed(gomock.Any(), int64(13), gomock.Any(), s.now).DoAndReturn(
		func(_ context.Context, _ int64, msg string, _ time.Time) error {
			s.Contains(msg, "connection reset")
			return nil
		},
	)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e domain.TaskEvent) error {
		s.Equal(domain.StatusFailed, e.Status)
		return nil
	})

	result, err := s.service.ProcessTask(ctx, 13)

	s.ErrorContains(err, "mark task success")
	s.Nil(result)
}

func (s *SyncServiceTestSuite) TestProcessTask_LostClaimIsNotAFailure() {
	ctx := context.Background()
	task := s.task(7, "")

	s.tasks.EXPECT().GetByID(ctx, int64(7)).Return(task, nil)
	s.tasks.EXPECT().Claim(ctx, int64(7)).Return(fmt.Errorf("%w: task 7", domain.ErrTaskNotClaimable))

	_, err := s.service.ProcessTask(ctx, 7)

	s.ErrorIs(err, domain.ErrTaskNotClaimable)
}

func (s *SyncServiceTestSuite) TestProcessTask_ReverseDirectionIsRecorded() {
	ctx := context.Background()
	task := &domain.SyncTask{
		ID:             8,
		SourcePlatform: domain.PlatformNotion,
		TargetPlatform: domain.PlatformFeishu,
		SourceID:       "abcdef0123456789abcdef0123456789",
	}

	s.expectClaim(task)
	s.destination.EXPECT().GetPage(ctx, task.SourceID).Return(&notion.Page{ID: task.SourceID, Title: "Design"}, nil)
	s.tasks.EXPECT().MarkSuccess(ctx, int64(8), "", "Design", s.now).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := s.service.ProcessTask(ctx, 8)

	s.Require().NoError(err)
	s.Equal(domain.ActionRecorded, result.Action)
	s.NotEmpty(result.Note)
}

func (s *SyncServiceTestSuite) TestProcessTask_PlaceholderImageStillSucceeds() {
	ctx := context.Background()
	task := s.task(9, "")
	doc := &domain.ParsedDocument{
		ID:    "doxcn123",
		Title: "Gallery",
		Blocks: []domain.Block{
			domain.TextBlock{Text: "before"},
			domain.ImageBlock{FileToken: "boxdenied"},
		},
		Images: []domain.ImageBlock{{FileToken: "boxdenied"}},
	}
	resolved := map[string]domain.ResolvedImage{
		"boxdenied": {
			URL:         "https://via.placeholder.com/400x300?text=Permission+denied",
			Caption:     "Image unavailable: permission denied",
			Placeholder: true,
		},
	}

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").Return(doc, nil)
	s.images.EXPECT().Resolve(ctx, doc.Images).Return(resolved)
	s.destination.EXPECT().FindPageByTitle(ctx, "db1", "Gallery").Return(nil, nil)
	s.configs.EXPECT().GetCategory(ctx, domain.PlatformFeishu, "doxcn123").Return("", errors.New("db down"))
	s.destination.EXPECT().PageProperties(ctx, "db1", gomock.Any()).Return(notion.Properties{})
	s.destination.EXPECT().CreateDatabasePage(ctx, "db1", gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ notion.Properties, blocks []notion.Block) (*notion.Page, error) {
			s.Require().Len(blocks, 2)
			img, ok := blocks[1].(notion.Image)
			s.Require().True(ok)
			s.Equal(resolved["boxdenied"].URL, img.URL)
			return &notion.Page{ID: "page9"}, nil
		},
	)
	s.tasks.EXPECT().MarkSuccess(ctx, int64(9), "page9", "Gallery", s.now).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := s.service.ProcessTask(ctx, 9)

	s.Require().NoError(err)
	s.Equal(1, result.Images)
	s.Equal(1, result.Placeholders)
}

func (s *SyncServiceTestSuite) TestProcessTask_FixtureRequiresFlag() {
	ctx := context.Background()
	task := s.task(10, "")
	task.SourceID = "test_doc"

	s.expectClaim(task)
	s.source.EXPECT().ParseDocument(ctx, "test_doc").Return(nil, fmt.Errorf("%w: test_doc", domain.ErrResourceNotFound))
	s.tasks.EXPECT().MarkFailed(gomock.Any(), int64(10), gomock.Any(), s.now).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.ProcessTask(ctx, 10)
	s.ErrorIs(err, domain.ErrResourceNotFound)
}

func (s *SyncServiceTestSuite) TestProcessTask_FixtureWhenAllowed() {
	ctx := context.Background()
	s.service.config.AllowTestFixtures = true
	task := s.task(11, "")
	task.SourceID = "test_doc"

	s.expectClaim(task)
	s.images.EXPECT().Resolve(ctx, gomock.Any()).Return(nil)
	s.destination.EXPECT().FindPageByTitle(ctx, "db1", "Fixture test_doc").Return(nil, nil)
	s.configs.EXPECT().GetCategory(ctx, domain.PlatformFeishu, "test_doc").Return("", nil)
	s.destination.EXPECT().PageProperties(ctx, "db1", gomock.Any()).Return(notion.Properties{})
	s.destination.EXPECT().CreateDatabasePage(ctx, "db1", gomock.Any(), gomock.Len(2)).Return(&notion.Page{ID: "page11"}, nil)
	s.tasks.EXPECT().MarkSuccess(ctx, int64(11), "page11", "Fixture test_doc", s.now).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	_, err := s.service.ProcessTask(ctx, 11)
	s.Require().NoError(err)
}

func (s *SyncServiceTestSuite) TestProcessTask_MissingDatabaseID() {
	ctx := context.Background()
	s.service.databaseID = ""
	task := s.task(12, "")

	s.expectClaim(task)
	s.tasks.EXPECT().MarkFailed(gomock.Any(), int64(12), gomock.Any(), s.now).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.ProcessTask(ctx, 12)
	s.ErrorIs(err, domain.ErrConfigMissing)
}

func (s *SyncServiceTestSuite) TestProcessPending_CountsOutcomes() {
	ctx := context.Background()
	ok := s.task(20, "page20")
	lost := s.task(21, "")
	bad := s.task(22, "")
	bad.SourcePlatform = domain.PlatformNotion
	bad.TargetPlatform = domain.PlatformNotion

	s.tasks.EXPECT().ListPending(ctx, 5).Return([]domain.SyncTask{*ok, *lost, *bad}, nil)

	s.expectClaim(ok)
	s.source.EXPECT().ParseDocument(ctx, "doxcn123").Return(paragraphDoc(1), nil)
	s.images.EXPECT().Resolve(ctx, gomock.Any()).Return(nil)
	s.destination.EXPECT().UpdatePageFromSource(ctx, "page20", "Weekly", gomock.Any()).Return(&notion.WriteReport{BlocksWritten: 1}, nil)
	s.tasks.EXPECT().MarkSuccess(ctx, int64(20), "page20", "Weekly", s.now).Return(nil)

	s.tasks.EXPECT().GetByID(ctx, int64(21)).Return(lost, nil)
	s.tasks.EXPECT().Claim(ctx, int64(21)).Return(domain.ErrTaskNotClaimable)

	s.expectClaim(bad)
	s.tasks.EXPECT().MarkFailed(gomock.Any(), int64(22), gomock.Any(), s.now).Return(nil)

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	stats, err := s.service.ProcessPending(ctx)

	s.Require().NoError(err)
	s.Equal(3, stats.Picked)
	s.Equal(1, stats.Succeeded)
	s.Equal(1, stats.Failed)
	s.Equal(1, stats.Skipped)
}

func (s *SyncServiceTestSuite) TestProcessPending_ListError() {
	ctx := context.Background()
	s.tasks.EXPECT().ListPending(ctx, 5).Return(nil, errors.New("db error"))

	stats, err := s.service.ProcessPending(ctx)

	s.Error(err)
	s.Nil(stats)
}

func (s *SyncServiceTestSuite) TestProcessPending_RequeuesStaleTasks() {
	ctx := context.Background()
	s.cfg.StaleAfter = 30 * time.Minute
	s.service.config = s.cfg

	gomock.InOrder(
		s.tasks.EXPECT().RequeueStale(ctx, 30*time.Minute).Return([]int64{3}, nil),
		s.tasks.EXPECT().ListPending(ctx, 5).Return(nil, nil),
	)

	stats, err := s.service.ProcessPending(ctx)

	s.Require().NoError(err)
	s.Equal(0, stats.Picked)
}

func (s *SyncServiceTestSuite) TestProcessPending_RequeueErrorDoesNotBlockTick() {
	ctx := context.Background()
	s.cfg.StaleAfter = time.Minute
	s.service.config = s.cfg

	s.tasks.EXPECT().RequeueStale(ctx, time.Minute).Return(nil, errors.New("db error"))
	s.tasks.EXPECT().ListPending(ctx, 5).Return(nil, nil)

	stats, err := s.service.ProcessPending(ctx)

	s.Require().NoError(err)
	s.Equal(0, stats.Picked)
}
