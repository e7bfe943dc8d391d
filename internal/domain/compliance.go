package domain

// ComplianceScore es el desglose de display que ve el dashboard.
type ComplianceScore struct {
	Overall       int `json:"overall"`
	Privacy       int `json:"privacy"`
	Accessibility int `json:"accessibility"`
	Safety        int `json:"safety"`
	Policies      int `json:"policies"`
}

// RiskItem es un hallazgo del analisis de producto.
type RiskItem struct {
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// ProductAnalysis es el resultado del analisis FDA/FTC de un producto.
type ProductAnalysis struct {
	Score int        `json:"score"`
	Risks []RiskItem `json:"risks"`
}

// AccessibilityIssue es una violacion WCAG detectada en el HTML auditado.
type AccessibilityIssue struct {
	Element   string `json:"element"`
	Level     string `json:"level"`
	Severity  string `json:"severity"`
	Violation string `json:"violation"`
	Fix       string `json:"fix"`
}

// AccessibilityAudit es el resultado de la auditoria WCAG 2.1.
type AccessibilityAudit struct {
	Score  int                  `json:"score"`
	Issues []AccessibilityIssue `json:"issues"`
}

// SecretFinding es un secreto comprometido detectado en el scan.
type SecretFinding struct {
	File        string `json:"file"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	FixCommand  string `json:"fix_command"`
}

// SecretScan es el resultado del scan de secretos sobre un repo o .env.
type SecretScan struct {
	LeaksFound int             `json:"leaks_found"`
	Findings   []SecretFinding `json:"findings"`
}
