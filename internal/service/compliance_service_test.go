package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"shop-shielder/internal/llm"
)

func TestComplianceService_AnalyzeProduct(t *testing.T) {
	mock := &llm.MockClient{Response: "```json\n{\"score\": 62, \"risks\": [{\"category\": \"Labeling\", \"severity\": \"high\", \"message\": \"Missing Prop 65 warning\", \"recommendation\": \"Add the warning label\"}]}\n```"}
	svc := NewComplianceService(mock, zap.NewNop())

	analysis, degraded := svc.AnalyzeProduct(context.Background(), "CBD gummies, 500mg")
	if degraded {
		t.Fatalf("expected live result, got degraded fallback")
	}
	if analysis.Score != 62 {
		t.Fatalf("expected score 62, got %d", analysis.Score)
	}
	if len(analysis.Risks) != 1 || analysis.Risks[0].Category != "Labeling" {
		t.Fatalf("unexpected risks: %+v", analysis.Risks)
	}
}

func TestComplianceService_AnalyzeProductFallbackOnError(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("provider down")}
	svc := NewComplianceService(mock, zap.NewNop())

	analysis, degraded := svc.AnalyzeProduct(context.Background(), "widget")
	if !degraded {
		t.Fatalf("expected degraded result on provider error")
	}
	if analysis.Score != 74 || len(analysis.Risks) == 0 {
		t.Fatalf("unexpected fallback analysis: %+v", analysis)
	}
}

func TestComplianceService_AnalyzeProductFallbackOnGarbage(t *testing.T) {
	mock := &llm.MockClient{Response: "I cannot produce JSON today."}
	svc := NewComplianceService(mock, zap.NewNop())

	if _, degraded := svc.AnalyzeProduct(context.Background(), "widget"); !degraded {
		t.Fatalf("unparseable responses must degrade to the fallback")
	}
}

func TestComplianceService_AuditAccessibility(t *testing.T) {
	mock := &llm.MockClient{Response: `{"score": 55, "issues": [{"element": "button", "level": "AA", "severity": "Serious", "violation": "Missing accessible name", "fix": "Add aria-label"}]}`}
	svc := NewComplianceService(mock, zap.NewNop())

	audit, degraded := svc.AuditAccessibility(context.Background(), "<button></button>")
	if degraded {
		t.Fatalf("expected live result")
	}
	if audit.Score != 55 || len(audit.Issues) != 1 {
		t.Fatalf("unexpected audit: %+v", audit)
	}
	if audit.Issues[0].Fix != "Add aria-label" {
		t.Fatalf("unexpected fix: %q", audit.Issues[0].Fix)
	}
}

func TestComplianceService_AuditAccessibilityFallbackOnError(t *testing.T) {
	mock := &llm.MockClient{Err: errors.New("provider down")}
	svc := NewComplianceService(mock, zap.NewNop())

	audit, degraded := svc.AuditAccessibility(context.Background(), "<html></html>")
	if !degraded {
		t.Fatalf("expected degraded result on provider error")
	}
	if audit.Score != 80 || len(audit.Issues) == 0 {
		t.Fatalf("unexpected fallback audit: %+v", audit)
	}
}
