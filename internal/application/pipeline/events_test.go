package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressEventWireShape(t *testing.T) {
	// 阶段状态的线上取值固定为 loading / success / error
	assert.Equal(t, StageStatus("loading"), StatusLoading)
	assert.Equal(t, StageStatus("success"), StatusSuccess)
	assert.Equal(t, StageStatus("error"), StatusError)

	ev := progressEvent(StagePersist, StatusError, "already exists for this owner", string(KindConflict))
	b, err := json.Marshal(ev.Progress)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "persist", decoded["stage"])
	assert.Equal(t, "error", decoded["status"])
	// detail 是纯字符串而非嵌套对象
	assert.Equal(t, "conflict", decoded["detail"])
}

func TestProgressEventOmitsEmptyDetail(t *testing.T) {
	ev := progressEvent(StageFetch, StatusLoading, "fetching source content", "")
	b, err := json.Marshal(ev.Progress)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "detail")
}
