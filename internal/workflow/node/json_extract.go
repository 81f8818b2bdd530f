package node

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject 从模型输出中截取第一个 JSON 对象或数组。
// 模型经常在 JSON 前后附带解释文字或代码围栏，这里做宽松截取；
// 截取结果不合法时原样返回，让上游的反序列化报出具体错误。
func ExtractJSONObject(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return trimmed
	}

	open := strings.IndexAny(trimmed, "{[")
	if open < 0 {
		return trimmed
	}

	closer := "}"
	if trimmed[open] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(trimmed, closer)
	if end <= open {
		return trimmed
	}

	candidate := trimmed[open : end+1]
	if json.Valid([]byte(candidate)) {
		return candidate
	}
	return trimmed
}
