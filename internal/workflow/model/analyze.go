package model

// AnalyzeInput 内容分析链输入
type AnalyzeInput struct {
	Provider string
	Model    string
	URL      string
	Title    string
	Content  string

	Temperature *float32
	MaxTokens   *int
}

// AnalyzeResult 内容分析链输出（模型 JSON 输出反序列化后的结构）
type AnalyzeResult struct {
	Category      string       `json:"category"`
	Audience      string       `json:"audience"`
	Summary       string       `json:"summary"`
	KeyPoints     []string     `json:"key_points"`
	PitchStrength int          `json:"pitch_strength"`
	ToneProfile   []ToneWeight `json:"tone_profile"`
}

// ToneWeight 模型输出的单个语气分量，入库前需经实体层校验
type ToneWeight struct {
	Tone   string `json:"tone"`
	Weight int    `json:"weight"`
}
