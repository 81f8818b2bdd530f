package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"postsmith-ai-api/internal/application/analysis"
	"postsmith-ai-api/internal/application/content"
	"postsmith-ai-api/internal/application/retrieval"
	"postsmith-ai-api/internal/config"
	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
	workflowchain "postsmith-ai-api/internal/workflow/chain"
	wfmodel "postsmith-ai-api/internal/workflow/model"
	"postsmith-ai-api/pkg/logger"
	"postsmith-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("pipeline")

// maxContentChars 送入分析链的正文截断长度
const maxContentChars = 12000

// platformRules 送入生成提示词的平台写作约束
var platformRules = map[entity.Platform]string{
	entity.PlatformTwitter:   "max 280 characters, punchy opening, at most 2 hashtags",
	entity.PlatformLinkedIn:  "professional but personal, short paragraphs, strong hook in the first line, at most 3 hashtags",
	entity.PlatformInstagram: "caption style, emotive, generous line breaks, hashtags grouped at the end",
	entity.PlatformFacebook:  "conversational, medium length, end with a question that invites discussion",
}

// Request 一次流水线运行的请求
type Request struct {
	OwnerID     string
	SourceURL   string
	Platform    entity.Platform
	Ownership   *entity.Ownership
	ToneProfile entity.ToneProfile
	Provider    string
	Model       string
}

// Orchestrator 帖子生成流水线编排器
// 抓取 -> 分析 -> 检索 -> 生成 -> 持久化，事件经单一通道流出
type Orchestrator struct {
	fetcher   *content.Fetcher
	analyzer  *analysis.Analyzer
	retriever retrieval.Retriever
	postChain *workflowchain.PostChain
	posts     repository.PostRepository
	cfg       *config.PipelineConfig
}

func NewOrchestrator(
	fetcher *content.Fetcher,
	analyzer *analysis.Analyzer,
	retriever retrieval.Retriever,
	postChain *workflowchain.PostChain,
	posts repository.PostRepository,
	cfg *config.PipelineConfig,
) *Orchestrator {
	return &Orchestrator{
		fetcher:   fetcher,
		analyzer:  analyzer,
		retriever: retriever,
		postChain: postChain,
		posts:     posts,
		cfg:       cfg,
	}
}

// Run 启动流水线，返回事件通道
// 通道在运行结束后关闭；调用方取消 ctx 即可终止运行
func (o *Orchestrator) Run(ctx context.Context, req *Request) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		o.run(ctx, req, events)
	}()
	return events
}

func (o *Orchestrator) run(ctx context.Context, req *Request, events chan<- Event) {
	ctx, span := tracer.Start(ctx, "pipeline.Run",
		trace.WithAttributes(
			attribute.String("pipeline.platform", string(req.Platform)),
			attribute.String("pipeline.source_url", req.SourceURL),
		))
	defer span.End()

	runID := uuid.NewString()
	ctx = logger.WithContext(ctx, logger.RunIDKey, runID)

	metrics.ActiveRuns.Inc()
	defer metrics.ActiveRuns.Dec()

	outcome := "success"
	defer func() {
		metrics.PipelineRunsTotal.WithLabelValues(outcome).Inc()
	}()

	// 事件发送；客户端断开后放弃运行
	emit := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	fail := func(stage Stage, err error) {
		se := WrapStage(stage, err)
		outcome = "failed"
		metrics.PipelineStageErrors.WithLabelValues(string(stage), string(se.Kind)).Inc()
		logger.Error(ctx, "pipeline stage failed", se.Err,
			"stage", string(stage), "kind", string(se.Kind))
		span.RecordError(se)
		emit(progressEvent(stage, StatusError, se.Err.Error(), string(se.Kind)))
		emit(noticeEvent(NoticeError, fmt.Sprintf("generation failed at %s stage", stage), ""))
	}

	// 1. 抓取
	ctx = logger.WithContext(ctx, logger.StageKey, string(StageFetch))
	emit(progressEvent(StageFetch, StatusLoading, "fetching source content", ""))
	fetchStart := time.Now()
	page, err := o.fetcher.Fetch(ctx, req.SourceURL)
	metrics.PipelineStageDuration.WithLabelValues(string(StageFetch)).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		fail(StageFetch, err)
		return
	}
	if !emit(progressEvent(StageFetch, StatusSuccess, "source content fetched", page.Title)) {
		outcome = "cancelled"
		return
	}

	// 2. 分析
	ctx = logger.WithContext(ctx, logger.StageKey, string(StageAnalyze))
	emit(progressEvent(StageAnalyze, StatusLoading, "analyzing content", ""))
	analyzeStart := time.Now()
	result, err := o.analyzer.Analyze(ctx, &wfmodel.AnalyzeInput{
		Provider: req.Provider,
		Model:    req.Model,
		URL:      req.SourceURL,
		Title:    page.Title,
		Content:  truncate(page.Markdown, maxContentChars),
	})
	metrics.PipelineStageDuration.WithLabelValues(string(StageAnalyze)).Observe(time.Since(analyzeStart).Seconds())
	if err != nil {
		fail(StageAnalyze, err)
		return
	}
	if !emit(progressEvent(StageAnalyze, StatusSuccess, "content analyzed",
		fmt.Sprintf("%s/%s", result.Category, result.Audience))) {
		outcome = "cancelled"
		return
	}

	// 语气画像优先级：请求指定 > 分析推断 > 配置默认
	profile := req.ToneProfile
	if len(profile) == 0 {
		profile = result.ToneProfile
	}
	if len(profile) == 0 {
		profile = o.defaultToneProfile()
	}

	// 3. 检索；失败只告警不终止，空结果继续
	ctx = logger.WithContext(ctx, logger.StageKey, string(StageRetrieve))
	emit(progressEvent(StageRetrieve, StatusLoading, "retrieving similar examples", ""))
	retrieveStart := time.Now()
	retrieved, err := o.retriever.Retrieve(ctx, &retrieval.Query{
		OwnerID:     req.OwnerID,
		Platform:    req.Platform,
		Category:    result.Category,
		Audience:    result.Audience,
		Ownership:   req.Ownership,
		ToneProfile: profile,
		Summary:     result.Summary,
		TopK:        o.topK(),
	})
	metrics.PipelineStageDuration.WithLabelValues(string(StageRetrieve)).Observe(time.Since(retrieveStart).Seconds())
	if err != nil {
		se := WrapStage(StageRetrieve, err)
		metrics.PipelineStageErrors.WithLabelValues(string(StageRetrieve), string(se.Kind)).Inc()
		logger.Warn(ctx, "retrieval failed, continuing without examples",
			"kind", string(se.Kind), "error", se.Err)
		emit(progressEvent(StageRetrieve, StatusError, se.Err.Error(), string(se.Kind)))
		emit(noticeEvent(NoticeWarning, "example retrieval failed; generating without style references", ""))
		retrieved = &retrieval.Result{Level: retrieval.LevelEmpty}
	} else {
		if !emit(progressEvent(StageRetrieve, StatusSuccess, "examples retrieved",
			fmt.Sprintf("%d examples (%s)", len(retrieved.Examples), retrieved.Level))) {
			outcome = "cancelled"
			return
		}
	}

	// 4. 生成（流式）
	ctx = logger.WithContext(ctx, logger.StageKey, string(StageGenerate))
	emit(progressEvent(StageGenerate, StatusLoading, "generating post", ""))
	generateStart := time.Now()
	text, meta, err := o.generate(ctx, req, profile, result, retrieved, emit)
	metrics.PipelineStageDuration.WithLabelValues(string(StageGenerate)).Observe(time.Since(generateStart).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			outcome = "cancelled"
			return
		}
		fail(StageGenerate, err)
		return
	}
	if !emit(progressEvent(StageGenerate, StatusSuccess, "post generated",
		fmt.Sprintf("%d chars", len(text)))) {
		outcome = "cancelled"
		return
	}
	metrics.GeneratedPostLength.WithLabelValues(string(req.Platform)).Observe(float64(len(text)))

	// 5. 持久化；唯一约束冲突是业务结果而非系统故障
	ctx = logger.WithContext(ctx, logger.StageKey, string(StagePersist))
	emit(progressEvent(StagePersist, StatusLoading, "saving post", ""))
	persistStart := time.Now()
	ownership := entity.OwnershipOriginal
	if req.Ownership != nil {
		ownership = *req.Ownership
	}
	post := &entity.GeneratedPost{
		OwnerID:       req.OwnerID,
		SourceURL:     req.SourceURL,
		RunID:         runID,
		Platform:      req.Platform,
		Category:      result.Category,
		Audience:      result.Audience,
		Ownership:     ownership,
		PitchStrength: result.PitchStrength,
		ToneProfile:   profile,
		Title:         page.Title,
		Summary:       result.Summary,
		Content:       text,
		Status:        entity.PostStatusDraft,
		ModelUsed:     meta.Model,
		TokensUsed:    meta.PromptTokens + meta.CompletionTokens,
	}
	err = o.posts.Create(ctx, post)
	metrics.PipelineStageDuration.WithLabelValues(string(StagePersist)).Observe(time.Since(persistStart).Seconds())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePost) {
			outcome = "conflict"
			metrics.PipelineStageErrors.WithLabelValues(string(StagePersist), string(KindConflict)).Inc()
			logger.Info(ctx, "post already exists for owner and source url",
				"owner_id", req.OwnerID, "source_url", req.SourceURL)
			// 冲突时带回已存在帖子的 ID，方便调用方直接跳转
			existingID := ""
			if existing, lookupErr := o.posts.GetBySourceURL(ctx, req.OwnerID, req.SourceURL); lookupErr == nil && existing != nil {
				existingID = existing.ID
			}
			emit(progressEvent(StagePersist, StatusError, "already exists for this owner", string(KindConflict)))
			emit(noticeEvent(NoticeWarning, "a post for this url already exists; the generated content was not saved", existingID))
			return
		}
		fail(StagePersist, err)
		return
	}

	emit(progressEvent(StagePersist, StatusSuccess, "post saved", post.ID))
	emit(noticeEvent(NoticeSuccess, "post generated and saved", post.ID))
	logger.Info(ctx, "pipeline completed",
		"post_id", post.ID, "platform", string(req.Platform), "tokens", post.TokensUsed)
}

// generate 流式生成帖子，content 事件携带累计文本
func (o *Orchestrator) generate(
	ctx context.Context,
	req *Request,
	profile entity.ToneProfile,
	result *analysis.Analysis,
	retrieved *retrieval.Result,
	emit func(Event) bool,
) (string, wfmodel.LLMUsageMeta, error) {
	meta := wfmodel.LLMUsageMeta{
		Provider:    strings.TrimSpace(req.Provider),
		Model:       strings.TrimSpace(req.Model),
		GeneratedAt: time.Now().UTC(),
	}

	examples := make([]wfmodel.ReferenceExample, 0, len(retrieved.Examples))
	for _, s := range retrieved.Examples {
		examples = append(examples, wfmodel.ReferenceExample{
			Content:     s.Example.Content,
			ToneProfile: toneProfileString(s.Example.ToneProfile),
		})
	}

	sr, err := o.postChain.Stream(ctx, &wfmodel.PostGenerateInput{
		Provider:      req.Provider,
		Model:         req.Model,
		Platform:      string(req.Platform),
		PlatformRules: platformRules[req.Platform],
		Category:      string(result.Category),
		Audience:      string(result.Audience),
		ToneProfile:   toneProfileString(profile),
		Summary:       result.Summary,
		KeyPoints:     result.KeyPoints,
		Examples:      examples,
	})
	if err != nil {
		return "", meta, err
	}
	defer sr.Close()

	var builder strings.Builder
	for {
		msg, err := sr.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", meta, err
		}
		if msg == nil {
			continue
		}
		if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
			meta.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
			meta.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
		}
		if msg.Content == "" {
			continue
		}
		builder.WriteString(msg.Content)
		if !emit(contentEvent(builder.String(), string(req.Platform))) {
			return "", meta, ctx.Err()
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", meta, fmt.Errorf("empty generated post")
	}
	return text, meta, nil
}

func (o *Orchestrator) defaultToneProfile() entity.ToneProfile {
	if o.cfg != nil && len(o.cfg.DefaultToneProfile) > 0 {
		profile := make(entity.ToneProfile, 0, len(o.cfg.DefaultToneProfile))
		for _, w := range o.cfg.DefaultToneProfile {
			profile = append(profile, entity.ToneWeight{Tone: entity.Tone(w.Tone), Weight: w.Weight})
		}
		if profile.Validate() == nil {
			return profile
		}
	}
	return entity.ToneProfile{{Tone: entity.ToneCasual, Weight: 100}}
}

func (o *Orchestrator) topK() int {
	if o.cfg != nil && o.cfg.Retrieval.TopK > 0 {
		return o.cfg.Retrieval.TopK
	}
	return 4
}

func toneProfileString(p entity.ToneProfile) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
