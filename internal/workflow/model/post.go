package model

// ReferenceExample 提示词中引用的示例帖子
type ReferenceExample struct {
	Content     string
	ToneProfile string
}

// PostGenerateInput 帖子生成链输入
type PostGenerateInput struct {
	Provider string
	Model    string

	Platform      string
	PlatformRules string
	Category      string
	Audience      string
	ToneProfile   string
	Summary       string
	KeyPoints     []string
	Examples      []ReferenceExample

	Temperature *float32
	MaxTokens   *int
}
