package retrieval

import (
	"context"
	"errors"
	"testing"

	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExampleRepo 按过滤器维度返回预置结果
type fakeExampleRepo struct {
	byFilter func(f repository.ExampleFilter) []*entity.TrainingExample
	recent   []*entity.TrainingExample
	findErr  error

	filters []repository.ExampleFilter
}

var _ repository.ExampleRepository = (*fakeExampleRepo)(nil)

func (r *fakeExampleRepo) Create(ctx context.Context, example *entity.TrainingExample) error {
	return nil
}

func (r *fakeExampleRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.TrainingExample, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeExampleRepo) List(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.TrainingExample], error) {
	return nil, nil
}

func (r *fakeExampleRepo) Delete(ctx context.Context, ownerID, id string) error {
	return nil
}

func (r *fakeExampleRepo) Find(ctx context.Context, f repository.ExampleFilter) ([]*entity.TrainingExample, error) {
	r.filters = append(r.filters, f)
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.byFilter == nil {
		return nil, nil
	}
	return r.byFilter(f), nil
}

func (r *fakeExampleRepo) FindRecent(ctx context.Context, limit int) ([]*entity.TrainingExample, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.recent, nil
}

func (r *fakeExampleRepo) FindByIDs(ctx context.Context, ownerID string, ids []string) ([]*entity.TrainingExample, error) {
	return nil, nil
}

func newExample(id string, weights ...entity.ToneWeight) *entity.TrainingExample {
	return &entity.TrainingExample{
		ID:          id,
		Platform:    entity.PlatformTwitter,
		Category:    entity.CategoryTechTutorial,
		Audience:    entity.AudienceDevelopers,
		ToneProfile: entity.ToneProfile(weights),
	}
}

func testQuery() *Query {
	return &Query{
		OwnerID:  "owner-1",
		Platform: entity.PlatformTwitter,
		Category: entity.CategoryTechTutorial,
		Audience: entity.AudienceDevelopers,
		ToneProfile: entity.ToneProfile{
			{Tone: entity.ToneWitty, Weight: 60},
			{Tone: entity.ToneDirect, Weight: 40},
		},
		TopK: 2,
	}
}

func TestFinderExactMatch(t *testing.T) {
	repo := &fakeExampleRepo{
		byFilter: func(f repository.ExampleFilter) []*entity.TrainingExample {
			if f.Platform != nil && f.Category != nil && f.Audience != nil {
				return []*entity.TrainingExample{
					newExample("a", entity.ToneWeight{Tone: entity.ToneWitty, Weight: 55}, entity.ToneWeight{Tone: entity.ToneDirect, Weight: 45}),
					newExample("b", entity.ToneWeight{Tone: entity.ToneBold, Weight: 100}),
				}
			}
			return nil
		},
	}
	finder := NewFinder(repo, &ToneMatchScorer{Tolerance: 10})

	result, err := finder.Retrieve(context.Background(), testQuery())
	require.NoError(t, err)

	assert.Equal(t, LevelExact, result.Level)
	assert.Equal(t, StrategyToneMatch, result.Strategy)
	require.Len(t, result.Examples, 2)
	// 双分量命中的示例排在前面
	assert.Equal(t, "a", result.Examples[0].Example.ID)
	assert.Equal(t, 2.0, result.Examples[0].Score)
	assert.Equal(t, 0.0, result.Examples[1].Score)
}

func TestFinderRelaxesPlatformFirst(t *testing.T) {
	repo := &fakeExampleRepo{
		byFilter: func(f repository.ExampleFilter) []*entity.TrainingExample {
			// 只有丢掉 platform 维度后才有结果
			if f.Platform == nil && f.Category != nil {
				return []*entity.TrainingExample{newExample("c")}
			}
			return nil
		},
	}
	finder := NewFinder(repo, &ToneMatchScorer{Tolerance: 10})

	result, err := finder.Retrieve(context.Background(), testQuery())
	require.NoError(t, err)

	assert.Equal(t, LevelRelaxed, result.Level)
	require.Len(t, result.Examples, 1)
	assert.Equal(t, "c", result.Examples[0].Example.ID)

	// 放宽顺序：先精确，再丢 platform
	require.GreaterOrEqual(t, len(repo.filters), 2)
	assert.NotNil(t, repo.filters[0].Platform)
	assert.Nil(t, repo.filters[1].Platform)
	assert.NotNil(t, repo.filters[1].Category)
}

func TestFinderRecencyFallback(t *testing.T) {
	repo := &fakeExampleRepo{
		recent: []*entity.TrainingExample{newExample("newest"), newExample("older")},
	}
	finder := NewFinder(repo, &ToneMatchScorer{Tolerance: 10})

	result, err := finder.Retrieve(context.Background(), testQuery())
	require.NoError(t, err)

	assert.Equal(t, LevelRecency, result.Level)
	require.Len(t, result.Examples, 2)
	assert.Equal(t, "newest", result.Examples[0].Example.ID)
	// 三级过滤全部打空后才兜底
	assert.Len(t, repo.filters, 3)
}

func TestFinderEmptyResultIsNotError(t *testing.T) {
	finder := NewFinder(&fakeExampleRepo{}, &ToneMatchScorer{Tolerance: 10})

	result, err := finder.Retrieve(context.Background(), testQuery())
	require.NoError(t, err)

	assert.Equal(t, LevelEmpty, result.Level)
	assert.Empty(t, result.Examples)
}

func TestFinderTopKTruncation(t *testing.T) {
	repo := &fakeExampleRepo{
		byFilter: func(f repository.ExampleFilter) []*entity.TrainingExample {
			if f.Platform == nil {
				return nil
			}
			return []*entity.TrainingExample{
				newExample("1"), newExample("2"), newExample("3"), newExample("4"),
			}
		},
	}
	finder := NewFinder(repo, &ToneMatchScorer{Tolerance: 10})

	q := testQuery()
	q.TopK = 2
	result, err := finder.Retrieve(context.Background(), q)
	require.NoError(t, err)

	assert.Len(t, result.Examples, 2)
	// 同分时保持仓储层的时间倒序
	assert.Equal(t, "1", result.Examples[0].Example.ID)
	assert.Equal(t, "2", result.Examples[1].Example.ID)
}

func TestFinderPropagatesRepositoryError(t *testing.T) {
	repo := &fakeExampleRepo{findErr: errors.New("connection refused")}
	finder := NewFinder(repo, &ToneMatchScorer{Tolerance: 10})

	_, err := finder.Retrieve(context.Background(), testQuery())
	assert.Error(t, err)
}
