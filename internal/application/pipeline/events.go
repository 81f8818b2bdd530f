// Package pipeline 提供帖子生成流水线编排
package pipeline

// Stage 流水线阶段
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageAnalyze  Stage = "analyze"
	StageRetrieve Stage = "retrieve"
	StageGenerate Stage = "generate"
	StagePersist  Stage = "persist"
)

// StageStatus 阶段状态
type StageStatus string

const (
	StatusLoading StageStatus = "loading"
	StatusSuccess StageStatus = "success"
	StatusError   StageStatus = "error"
)

// EventType 流式事件类型，对应 SSE 的 event 名
type EventType string

const (
	EventProgress EventType = "progress"
	EventContent  EventType = "content"
	EventNotice   EventType = "notice"
)

// NoticeLevel 通知级别
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// ProgressPayload 阶段进度事件，Detail 为可选的补充说明文本
type ProgressPayload struct {
	Stage   Stage       `json:"stage"`
	Status  StageStatus `json:"status"`
	Message string      `json:"message,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// ContentPayload 生成内容事件，Content 为到当前为止的累计文本
type ContentPayload struct {
	Content  string `json:"content"`
	Platform string `json:"platform"`
}

// NoticePayload 终态或警示通知
type NoticePayload struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	PostID  string      `json:"post_id,omitempty"`
}

// Event 流水线事件，三种载荷互斥，按 Type 取用
type Event struct {
	Type     EventType
	Progress *ProgressPayload
	Content  *ContentPayload
	Notice   *NoticePayload
}

func progressEvent(stage Stage, status StageStatus, message, detail string) Event {
	return Event{
		Type: EventProgress,
		Progress: &ProgressPayload{
			Stage:   stage,
			Status:  status,
			Message: message,
			Detail:  detail,
		},
	}
}

func contentEvent(content, platform string) Event {
	return Event{
		Type:    EventContent,
		Content: &ContentPayload{Content: content, Platform: platform},
	}
}

func noticeEvent(level NoticeLevel, message, postID string) Event {
	return Event{
		Type:   EventNotice,
		Notice: &NoticePayload{Level: level, Message: message, PostID: postID},
	}
}
