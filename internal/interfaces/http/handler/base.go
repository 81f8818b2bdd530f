package handler

import (
	"fmt"
	"strings"

	"postsmith-ai-api/internal/config"

	"github.com/gin-gonic/gin"
)

// resolveProviderModel 解析 LLM Provider 和 Model
func resolveProviderModel(cfg *config.Config, provider, model string) (string, string, error) {
	if cfg == nil {
		return "", "", fmt.Errorf("server config not configured")
	}

	p := strings.TrimSpace(provider)
	if p == "" {
		p = strings.TrimSpace(cfg.LLM.DefaultProvider)
	}
	if p == "" {
		return "", "", fmt.Errorf("llm provider not specified")
	}
	if len(p) > 32 {
		return "", "", fmt.Errorf("llm provider too long")
	}

	providerCfg, ok := cfg.LLM.Providers[p]
	if !ok {
		return "", "", fmt.Errorf("llm provider not found: %s", p)
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = strings.TrimSpace(providerCfg.Model)
	}
	if len(m) > 64 {
		return "", "", fmt.Errorf("llm model too long")
	}
	return p, m, nil
}

// currentOwnerID 从认证中间件注入的上下文中取 owner_id
func currentOwnerID(c *gin.Context) (string, error) {
	ownerID := c.GetString("owner_id")
	if ownerID == "" {
		return "", fmt.Errorf("owner not resolved from token")
	}
	return ownerID, nil
}
