// Package entity 定义领域实体
package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Tone string

const (
	ToneCasual        Tone = "casual"
	ToneWitty         Tone = "witty"
	ToneDirect        Tone = "direct"
	ToneInspirational Tone = "inspirational"
	ToneEducational   Tone = "educational"
	ToneBold          Tone = "bold"
)

// ValidTones 全部合法语气值
var ValidTones = []Tone{
	ToneCasual,
	ToneWitty,
	ToneDirect,
	ToneInspirational,
	ToneEducational,
	ToneBold,
}

func (t Tone) Valid() bool {
	for _, v := range ValidTones {
		if t == v {
			return true
		}
	}
	return false
}

// ToneWeight 单个语气及其权重分量
type ToneWeight struct {
	Tone   Tone `json:"tone"`
	Weight int  `json:"weight"`
}

// ToneProfile 语气画像：一组权重之和为 100 的语气分量
// 以 jsonb 形式存储在 PostgreSQL 中
type ToneProfile []ToneWeight

// Validate 校验画像：语气合法、不重复、权重为正且总和为 100
func (p ToneProfile) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("tone profile must not be empty")
	}
	sum := 0
	seen := make(map[Tone]bool, len(p))
	for _, w := range p {
		if !w.Tone.Valid() {
			return fmt.Errorf("invalid tone: %s", w.Tone)
		}
		if seen[w.Tone] {
			return fmt.Errorf("duplicate tone: %s", w.Tone)
		}
		seen[w.Tone] = true
		if w.Weight <= 0 || w.Weight > 100 {
			return fmt.Errorf("tone %s weight out of range: %d", w.Tone, w.Weight)
		}
		sum += w.Weight
	}
	if sum != 100 {
		return fmt.Errorf("tone weights must sum to 100, got %d", sum)
	}
	return nil
}

// Weight 返回指定语气的权重，未出现的语气隐含为 0
func (p ToneProfile) Weight(t Tone) int {
	w, _ := p.Lookup(t)
	return w
}

// Lookup 返回指定语气的权重及其是否出现在画像中
func (p ToneProfile) Lookup(t Tone) (int, bool) {
	for _, w := range p {
		if w.Tone == t {
			return w.Weight, true
		}
	}
	return 0, false
}

// Value 实现 driver.Valuer，序列化为 jsonb
func (p ToneProfile) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan 实现 sql.Scanner，从 jsonb 反序列化
func (p *ToneProfile) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported tone profile type: %T", value)
	}
	return json.Unmarshal(data, p)
}
