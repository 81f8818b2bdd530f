package handler

import (
	"context"
	"errors"
	"testing"

	"postsmith-ai-api/internal/domain/entity"
	"postsmith-ai-api/internal/domain/repository"
	"postsmith-ai-api/internal/infrastructure/persistence/milvus"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExampleRepo struct {
	created []*entity.TrainingExample
}

var _ repository.ExampleRepository = (*fakeExampleRepo)(nil)

func (r *fakeExampleRepo) Create(ctx context.Context, example *entity.TrainingExample) error {
	r.created = append(r.created, example)
	return nil
}

func (r *fakeExampleRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.TrainingExample, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeExampleRepo) List(ctx context.Context, ownerID string, pagination repository.Pagination) (*repository.PagedResult[*entity.TrainingExample], error) {
	return repository.NewPagedResult[*entity.TrainingExample](nil, 0, pagination), nil
}

func (r *fakeExampleRepo) Delete(ctx context.Context, ownerID, id string) error {
	return nil
}

func (r *fakeExampleRepo) Find(ctx context.Context, filter repository.ExampleFilter) ([]*entity.TrainingExample, error) {
	return nil, nil
}

func (r *fakeExampleRepo) FindRecent(ctx context.Context, limit int) ([]*entity.TrainingExample, error) {
	return nil, nil
}

func (r *fakeExampleRepo) FindByIDs(ctx context.Context, ownerID string, ids []string) ([]*entity.TrainingExample, error) {
	return nil, nil
}

type fakeTransactor struct {
	calls int
}

var _ repository.Transactor = (*fakeTransactor)(nil)

func (t *fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeEmbedder struct {
	err error
}

var _ embedding.Embedder = (*fakeEmbedder)(nil)

func (e *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	return [][]float64{{0.1, 0.2}}, nil
}

func TestCreateExampleWithoutVectorStackSkipsTransaction(t *testing.T) {
	repo := &fakeExampleRepo{}
	tx := &fakeTransactor{}
	h := NewExampleHandler(repo, nil, nil, tx)

	example := &entity.TrainingExample{OwnerID: "owner-1", Content: "an example"}
	err := h.createExample(context.Background(), example)

	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Zero(t, tx.calls)
}

func TestCreateExampleIndexFailureSurfacesInsideTransaction(t *testing.T) {
	repo := &fakeExampleRepo{}
	tx := &fakeTransactor{}
	embedErr := errors.New("embedding backend unavailable")
	h := NewExampleHandler(repo, &fakeEmbedder{err: embedErr}, milvus.NewRepository(nil), tx)

	example := &entity.TrainingExample{OwnerID: "owner-1", Content: "an example"}
	err := h.createExample(context.Background(), example)

	// 行写入与向量索引在同一事务单元执行，索引失败的错误必须冒泡触发回滚
	require.Error(t, err)
	assert.ErrorIs(t, err, embedErr)
	assert.Equal(t, 1, tx.calls)
	assert.Len(t, repo.created, 1)
}
