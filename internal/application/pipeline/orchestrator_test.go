package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postsmith-ai-api/internal/application/analysis"
	"postsmith-ai-api/internal/application/content"
	"postsmith-ai-api/internal/application/retrieval"
	"postsmith-ai-api/internal/config"
	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
	"postsmith-ai-api/internal/infrastructure/scraper"
	workflowchain "postsmith-ai-api/internal/workflow/chain"
)

// fakeChatModel 同时服务分析链（Generate）与生成链（Stream）
type fakeChatModel struct {
	generateMsg *schema.Message
	streamMsgs  []*schema.Message
	streamErr   error
}

func (m *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	return m.generateMsg, nil
}

func (m *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return schema.StreamReaderFromArray(m.streamMsgs), nil
}

type fakeModelFactory struct {
	model model.BaseChatModel
}

func (f *fakeModelFactory) Get(_ context.Context, _ string) (model.BaseChatModel, error) {
	return f.model, nil
}

type fakeRetriever struct {
	result *retrieval.Result
	err    error
	got    *retrieval.Query
}

func (f *fakeRetriever) Retrieve(_ context.Context, q *retrieval.Query) (*retrieval.Result, error) {
	f.got = q
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakePostRepo struct {
	createErr error
	existing  *entity.GeneratedPost
	created   []*entity.GeneratedPost
}

func (f *fakePostRepo) Create(_ context.Context, post *entity.GeneratedPost) error {
	if f.createErr != nil {
		return f.createErr
	}
	post.ID = fmt.Sprintf("post-%d", len(f.created)+1)
	f.created = append(f.created, post)
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, _, _ string) (*entity.GeneratedPost, error) {
	return nil, repository.ErrNotFound
}

func (f *fakePostRepo) GetBySourceURL(_ context.Context, _, _ string) (*entity.GeneratedPost, error) {
	if f.existing != nil {
		return f.existing, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePostRepo) List(_ context.Context, _ string, _ *entity.Platform, _ repository.Pagination) (*repository.PagedResult[*entity.GeneratedPost], error) {
	return repository.NewPagedResult([]*entity.GeneratedPost{}, 0, repository.NewPagination(1, 20)), nil
}

func (f *fakePostRepo) Delete(_ context.Context, _, _ string) error {
	return nil
}

const analyzeOutput = `{"category":"tech_tutorial","audience":"developers","summary":"A walkthrough of building SSE endpoints in Go.","key_points":["use flushers","handle disconnects"],"pitch_strength":35}`

const analyzeOutputWithTones = `{"category":"tech_tutorial","audience":"developers","summary":"A walkthrough of building SSE endpoints in Go.","key_points":["use flushers"],"pitch_strength":35,"tone_profile":[{"tone":"educational","weight":70},{"tone":"casual","weight":30}]}`

func newScrapeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{"markdown":"# SSE in Go\n\nLong form article body.","metadata":{"title":"SSE in Go","statusCode":200}}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestOrchestrator(t *testing.T, srv *httptest.Server, chatModel model.BaseChatModel, retriever retrieval.Retriever, posts repository.PostRepository) *Orchestrator {
	t.Helper()
	factory := &fakeModelFactory{model: chatModel}
	sc := scraper.NewClient(&config.ScraperConfig{
		Endpoint:   srv.URL,
		WaitBudget: time.Second,
		Formats:    []string{"markdown"},
	})
	return NewOrchestrator(
		content.NewFetcher(sc, nil, 0),
		analysis.NewAnalyzer(factory),
		retriever,
		workflowchain.NewPostChain(factory),
		posts,
		&config.PipelineConfig{Retrieval: config.RetrievalConfig{TopK: 3}},
	)
}

func collectEvents(ch <-chan Event) []Event {
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func progressOf(events []Event, stage Stage, status StageStatus) *ProgressPayload {
	for _, ev := range events {
		if ev.Type == EventProgress && ev.Progress.Stage == stage && ev.Progress.Status == status {
			return ev.Progress
		}
	}
	return nil
}

func noticeOf(events []Event, level NoticeLevel) *NoticePayload {
	for _, ev := range events {
		if ev.Type == EventNotice && ev.Notice.Level == level {
			return ev.Notice
		}
	}
	return nil
}

func contentsOf(events []Event) []string {
	var out []string
	for _, ev := range events {
		if ev.Type == EventContent {
			out = append(out, ev.Content.Content)
		}
	}
	return out
}

func TestOrchestratorRunSuccess(t *testing.T) {
	srv := newScrapeServer(t)
	chatModel := &fakeChatModel{
		generateMsg: &schema.Message{Role: schema.Assistant, Content: analyzeOutput},
		streamMsgs: []*schema.Message{
			{Role: schema.Assistant, Content: "Building SSE endpoints "},
			{Role: schema.Assistant, Content: "is easier than you think."},
			{Role: schema.Assistant, ResponseMeta: &schema.ResponseMeta{
				Usage: &schema.TokenUsage{PromptTokens: 120, CompletionTokens: 40},
			}},
		},
	}
	retriever := &fakeRetriever{result: &retrieval.Result{
		Examples: []*retrieval.ScoredExample{
			{Example: &entity.TrainingExample{Content: "an example post", ToneProfile: entity.ToneProfile{{Tone: entity.ToneWitty, Weight: 100}}}, Score: 2},
		},
		Level:    retrieval.LevelExact,
		Strategy: retrieval.StrategyToneMatch,
	}}
	posts := &fakePostRepo{}
	o := newTestOrchestrator(t, srv, chatModel, retriever, posts)

	events := collectEvents(o.Run(context.Background(), &Request{
		OwnerID:     "owner-1",
		SourceURL:   "https://blog.example.com/sse-in-go",
		Platform:    entity.PlatformTwitter,
		ToneProfile: entity.ToneProfile{{Tone: entity.ToneWitty, Weight: 60}, {Tone: entity.ToneDirect, Weight: 40}},
		Provider:    "openai",
		Model:       "gpt-4o-mini",
	}))

	for _, stage := range []Stage{StageFetch, StageAnalyze, StageRetrieve, StageGenerate, StagePersist} {
		assert.NotNil(t, progressOf(events, stage, StatusLoading), "stage %s should start", stage)
		assert.NotNil(t, progressOf(events, stage, StatusSuccess), "stage %s should complete", stage)
	}

	// content 事件携带累计文本
	contents := contentsOf(events)
	require.Len(t, contents, 2)
	assert.Equal(t, "Building SSE endpoints ", contents[0])
	assert.Equal(t, "Building SSE endpoints is easier than you think.", contents[1])

	success := noticeOf(events, NoticeSuccess)
	require.NotNil(t, success)
	assert.Equal(t, "post-1", success.PostID)

	require.Len(t, posts.created, 1)
	post := posts.created[0]
	assert.Equal(t, "owner-1", post.OwnerID)
	assert.Equal(t, "https://blog.example.com/sse-in-go", post.SourceURL)
	assert.Equal(t, entity.CategoryTechTutorial, post.Category)
	assert.Equal(t, entity.AudienceDevelopers, post.Audience)
	assert.Equal(t, entity.PostStatusDraft, post.Status)
	assert.Equal(t, entity.OwnershipOriginal, post.Ownership)
	assert.Equal(t, "Building SSE endpoints is easier than you think.", post.Content)
	assert.Equal(t, "A walkthrough of building SSE endpoints in Go.", post.Summary)
	assert.Equal(t, 35, post.PitchStrength)
	assert.Equal(t, "gpt-4o-mini", post.ModelUsed)
	assert.Equal(t, 160, post.TokensUsed)
	assert.NotEmpty(t, post.RunID)

	// 检索请求携带分析结果与配置的 TopK
	require.NotNil(t, retriever.got)
	assert.Equal(t, entity.CategoryTechTutorial, retriever.got.Category)
	assert.Equal(t, 3, retriever.got.TopK)
}

func TestOrchestratorRetrievalFailureContinues(t *testing.T) {
	srv := newScrapeServer(t)
	chatModel := &fakeChatModel{
		generateMsg: &schema.Message{Role: schema.Assistant, Content: analyzeOutput},
		streamMsgs: []*schema.Message{
			{Role: schema.Assistant, Content: "A post without references."},
		},
	}
	retriever := &fakeRetriever{err: fmt.Errorf("milvus unreachable")}
	posts := &fakePostRepo{}
	o := newTestOrchestrator(t, srv, chatModel, retriever, posts)

	events := collectEvents(o.Run(context.Background(), &Request{
		OwnerID:   "owner-1",
		SourceURL: "https://blog.example.com/sse-in-go",
		Platform:  entity.PlatformLinkedIn,
		Provider:  "openai",
		Model:     "gpt-4o-mini",
	}))

	assert.NotNil(t, progressOf(events, StageRetrieve, StatusError))
	warning := noticeOf(events, NoticeWarning)
	require.NotNil(t, warning)
	assert.Contains(t, warning.Message, "without style references")

	// 检索失败不终止流水线
	assert.NotNil(t, noticeOf(events, NoticeSuccess))
	require.Len(t, posts.created, 1)

	// 未提供语气画像时注入默认值
	assert.Equal(t, entity.ToneProfile{{Tone: entity.ToneCasual, Weight: 100}}, posts.created[0].ToneProfile)
}

func TestOrchestratorDuplicatePostIsConflictNotFailure(t *testing.T) {
	srv := newScrapeServer(t)
	chatModel := &fakeChatModel{
		generateMsg: &schema.Message{Role: schema.Assistant, Content: analyzeOutput},
		streamMsgs: []*schema.Message{
			{Role: schema.Assistant, Content: "Another take on the same article."},
		},
	}
	retriever := &fakeRetriever{result: &retrieval.Result{Level: retrieval.LevelEmpty}}
	posts := &fakePostRepo{
		createErr: repository.ErrDuplicatePost,
		existing:  &entity.GeneratedPost{ID: "post-existing"},
	}
	o := newTestOrchestrator(t, srv, chatModel, retriever, posts)

	events := collectEvents(o.Run(context.Background(), &Request{
		OwnerID:   "owner-1",
		SourceURL: "https://blog.example.com/sse-in-go",
		Platform:  entity.PlatformTwitter,
		Provider:  "openai",
		Model:     "gpt-4o-mini",
	}))

	persistErr := progressOf(events, StagePersist, StatusError)
	require.NotNil(t, persistErr)
	assert.Equal(t, "already exists for this owner", persistErr.Message)
	assert.Equal(t, string(KindConflict), persistErr.Detail)

	// 警示通知带回已存在帖子的 ID
	warning := noticeOf(events, NoticeWarning)
	require.NotNil(t, warning)
	assert.Contains(t, warning.Message, "already exists")
	assert.Equal(t, "post-existing", warning.PostID)

	// 冲突是业务结果：没有 error 级通知
	assert.Nil(t, noticeOf(events, NoticeError))
	assert.Nil(t, noticeOf(events, NoticeSuccess))
}

func TestOrchestratorFetchFailureStopsPipeline(t *testing.T) {
	// 抓取服务与源站都不可达
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	chatModel := &fakeChatModel{
		generateMsg: &schema.Message{Role: schema.Assistant, Content: analyzeOutput},
	}
	retriever := &fakeRetriever{result: &retrieval.Result{Level: retrieval.LevelEmpty}}
	posts := &fakePostRepo{}
	o := newTestOrchestrator(t, srv, chatModel, retriever, posts)

	events := collectEvents(o.Run(context.Background(), &Request{
		OwnerID:   "owner-1",
		SourceURL: "http://127.0.0.1:1/article",
		Platform:  entity.PlatformTwitter,
		Provider:  "openai",
		Model:     "gpt-4o-mini",
	}))

	assert.NotNil(t, progressOf(events, StageFetch, StatusError))
	errNotice := noticeOf(events, NoticeError)
	require.NotNil(t, errNotice)
	assert.Contains(t, errNotice.Message, "fetch")

	// 后续阶段不再执行
	assert.Nil(t, progressOf(events, StageAnalyze, StatusLoading))
	assert.Empty(t, posts.created)
	assert.Nil(t, retriever.got)
}

func TestOrchestratorUsesAnalyzedToneProfile(t *testing.T) {
	srv := newScrapeServer(t)
	chatModel := &fakeChatModel{
		generateMsg: &schema.Message{Role: schema.Assistant, Content: analyzeOutputWithTones},
		streamMsgs: []*schema.Message{
			{Role: schema.Assistant, Content: "A post in the article's own voice."},
		},
	}
	retriever := &fakeRetriever{result: &retrieval.Result{Level: retrieval.LevelEmpty}}
	posts := &fakePostRepo{}
	o := newTestOrchestrator(t, srv, chatModel, retriever, posts)

	// 请求未带语气画像时，采用分析链推断的画像而非配置默认值
	events := collectEvents(o.Run(context.Background(), &Request{
		OwnerID:   "owner-1",
		SourceURL: "https://blog.example.com/sse-in-go",
		Platform:  entity.PlatformTwitter,
		Provider:  "openai",
		Model:     "gpt-4o-mini",
	}))

	require.NotNil(t, noticeOf(events, NoticeSuccess))
	require.Len(t, posts.created, 1)

	inferred := entity.ToneProfile{
		{Tone: entity.ToneEducational, Weight: 70},
		{Tone: entity.ToneCasual, Weight: 30},
	}
	assert.Equal(t, inferred, posts.created[0].ToneProfile)
	require.NotNil(t, retriever.got)
	assert.Equal(t, inferred, retriever.got.ToneProfile)
}

func TestOrchestratorCancelledContext(t *testing.T) {
	srv := newScrapeServer(t)
	chatModel := &fakeChatModel{
		generateMsg: &schema.Message{Role: schema.Assistant, Content: analyzeOutput},
		streamMsgs: []*schema.Message{
			{Role: schema.Assistant, Content: "never delivered"},
		},
	}
	retriever := &fakeRetriever{result: &retrieval.Result{Level: retrieval.LevelEmpty}}
	posts := &fakePostRepo{}
	o := newTestOrchestrator(t, srv, chatModel, retriever, posts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := collectEvents(o.Run(ctx, &Request{
		OwnerID:   "owner-1",
		SourceURL: "https://blog.example.com/sse-in-go",
		Platform:  entity.PlatformTwitter,
		Provider:  "openai",
		Model:     "gpt-4o-mini",
	}))

	// 通道在取消后关闭，不产出成功通知
	assert.Nil(t, noticeOf(events, NoticeSuccess))
	assert.Empty(t, posts.created)
}
