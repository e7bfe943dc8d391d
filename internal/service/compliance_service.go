package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shop-shielder/internal/domain"
	"shop-shielder/internal/llm"
)

// ComplianceService proxya los analisis de riesgo al LLM. Ningun fallo del
// proveedor es fatal: siempre hay un resultado fallback de preview.
type ComplianceService struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
}

func NewComplianceService(llmClient llm.LLMClient, logger *zap.Logger) *ComplianceService {
	return &ComplianceService{
		llmClient: llmClient,
		logger:    logger,
	}
}

const productPromptFmt = `Act as an FDA/FTC compliance officer. Analyze this product info for Prop 65, safety labeling, and deceptive marketing claims. Provide a score (0-100) and structured risks.
Respond ONLY with JSON: {"score": number, "risks": [{"category": string, "severity": string, "message": string, "recommendation": string}]}.
Info: %s`

// AnalyzeProduct corre el analisis de producto. Devuelve degraded=true si
// el resultado es el fallback por error del proveedor.
func (s *ComplianceService) AnalyzeProduct(ctx context.Context, productInfo string) (domain.ProductAnalysis, bool) {
	raw, err := s.llmClient.Generate(ctx, fmt.Sprintf(productPromptFmt, productInfo))
	if err != nil {
		s.logger.Warn("product analysis llm call failed", zap.Error(err))
		return fallbackProductAnalysis(), true
	}

	var parsed struct {
		Score float64 `json:"score"`
		Risks []struct {
			Category       string `json:"category"`
			Severity       string `json:"severity"`
			Message        string `json:"message"`
			Recommendation string `json:"recommendation"`
		} `json:"risks"`
	}
	if err := decodeLLMJSON(raw, &parsed); err != nil {
		s.logger.Warn("product analysis unparseable", zap.Error(err))
		return fallbackProductAnalysis(), true
	}

	result := domain.ProductAnalysis{Score: int(parsed.Score)}
	for _, r := range parsed.Risks {
		result.Risks = append(result.Risks, domain.RiskItem{
			Category:       r.Category,
			Severity:       r.Severity,
			Message:        r.Message,
			Recommendation: r.Recommendation,
		})
	}
	return result, false
}

const accessibilityPromptFmt = `Act as a certified WCAG 2.1 Accessibility Auditor. Analyze the following HTML for Level A and AA violations. Categorize issues by element, severity, and provide the exact ARIA or HTML fix.
Respond ONLY with JSON: {"score": number, "issues": [{"element": string, "level": string, "severity": string, "violation": string, "fix": string}]}.
HTML: %s`

// AuditAccessibility corre la auditoria WCAG sobre el HTML dado.
func (s *ComplianceService) AuditAccessibility(ctx context.Context, htmlSource string) (domain.AccessibilityAudit, bool) {
	raw, err := s.llmClient.Generate(ctx, fmt.Sprintf(accessibilityPromptFmt, htmlSource))
	if err != nil {
		s.logger.Warn("accessibility audit llm call failed", zap.Error(err))
		return fallbackAccessibilityAudit(), true
	}

	var parsed struct {
		Score  float64 `json:"score"`
		Issues []struct {
			Element   string `json:"element"`
			Level     string `json:"level"`
			Severity  string `json:"severity"`
			Violation string `json:"violation"`
			Fix       string `json:"fix"`
		} `json:"issues"`
	}
	if err := decodeLLMJSON(raw, &parsed); err != nil {
		s.logger.Warn("accessibility audit unparseable", zap.Error(err))
		return fallbackAccessibilityAudit(), true
	}

	result := domain.AccessibilityAudit{Score: int(parsed.Score)}
	for _, issue := range parsed.Issues {
		result.Issues = append(result.Issues, domain.AccessibilityIssue{
			Element:   issue.Element,
			Level:     issue.Level,
			Severity:  issue.Severity,
			Violation: issue.Violation,
			Fix:       issue.Fix,
		})
	}
	return result, false
}

func fallbackProductAnalysis() domain.ProductAnalysis {
	return domain.ProductAnalysis{
		Score: 74,
		Risks: []domain.RiskItem{
			{
				Category:       "Product Safety",
				Severity:       "medium",
				Message:        "Automated review unavailable; manual labeling check recommended.",
				Recommendation: "Verify Prop 65 warnings and safety labeling before publishing.",
			},
		},
	}
}

func fallbackAccessibilityAudit() domain.AccessibilityAudit {
	return domain.AccessibilityAudit{
		Score: 80,
		Issues: []domain.AccessibilityIssue{
			{
				Element:   "img",
				Level:     "A",
				Severity:  "Moderate",
				Violation: "Automated audit unavailable; images may be missing alt text.",
				Fix:       "Add descriptive alt attributes to every informative image.",
			},
		},
	}
}
