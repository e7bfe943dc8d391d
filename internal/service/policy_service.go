package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shop-shielder/internal/llm"
)

// PolicyService genera texto legal via LLM, con fallback fijo en preview.
type PolicyService struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
}

func NewPolicyService(llmClient llm.LLMClient, logger *zap.Logger) *PolicyService {
	return &PolicyService{
		llmClient: llmClient,
		logger:    logger,
	}
}

const privacyPolicyPromptFmt = `Generate a high-fidelity, legally-aligned Privacy Policy for a US E-commerce store. Focus on CCPA, CPRA, and GDPR reciprocity. Context: %s`

// GeneratePrivacyPolicy devuelve el texto de la politica y degraded=true
// cuando se sirvio el fallback.
func (s *PolicyService) GeneratePrivacyPolicy(ctx context.Context, storeDetails string) (string, bool) {
	raw, err := s.llmClient.Generate(ctx, fmt.Sprintf(privacyPolicyPromptFmt, storeDetails))
	if err != nil {
		s.logger.Warn("privacy policy llm call failed", zap.Error(err))
		return fallbackPrivacyPolicy(storeDetails), true
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return fallbackPrivacyPolicy(storeDetails), true
	}
	return text, false
}

func fallbackPrivacyPolicy(storeDetails string) string {
	store := strings.TrimSpace(storeDetails)
	if store == "" {
		store = "this store"
	}
	return fmt.Sprintf(`PRIVACY POLICY (PREVIEW)

This is a preview document for %s. The full CCPA/CPRA and GDPR aligned
policy is generated when the AI backend is configured.

1. Information we collect: order, account and device data.
2. How we use it: fulfilling orders, support and legal obligations.
3. Your rights: access, deletion and opt-out of sale/sharing.
`, store)
}
