package core

import (
	"time"
)

// Origin describes how the analyzed text was acquired
type Origin string

const (
	OriginText         Origin = "text"
	OriginJSON         Origin = "json"
	OriginTxtFile      Origin = "txt"
	OriginPDF          Origin = "pdf"
	OriginWebhook      Origin = "webhook"
	OriginNone         Origin = "none"
	OriginUnsupported  Origin = "unsupported"
	OriginFileTooLarge Origin = "file_too_large"
	OriginTxtError     Origin = "txt_error"
	OriginPDFError     Origin = "pdf_error"
)

// EmailContent represents a single logical email extracted from a submission
type EmailContent struct {
	Body   string
	Origin Origin
	Sender string
}

// AnalysisResult represents the structured output of email classification
type AnalysisResult struct {
	Category            string
	NeedsHumanAttention bool
	Summary             string
	SuggestedAction     string
	AnalyzedAt          time.Time
	ModelUsed           string
	ProcessingID        string
}

// ActionKind identifies the routing outcome for an analyzed email
type ActionKind string

const (
	// ActionEscalate forwards the analysis to the curator address
	ActionEscalate ActionKind = "escalate"
	// ActionSuppress takes no outbound action (spam)
	ActionSuppress ActionKind = "suppress"
	// ActionAutoReply sends an automatic reply to the original sender
	ActionAutoReply ActionKind = "auto_reply"
	// ActionNoSender is an auto-reply that could not be delivered because
	// no sender address was found in the email
	ActionNoSender ActionKind = "no_sender"
)

// RoutingDecision is the outcome of routing an AnalysisResult.
// To, Subject and Body are only set for decisions that dispatch mail.
type RoutingDecision struct {
	Action  ActionKind
	To      string
	Subject string
	Body    string
}

// BatchItem pairs one email with its analysis and the routing decision taken.
// Items are never mutated after routing completes.
type BatchItem struct {
	Content  EmailContent
	Result   *AnalysisResult
	Decision RoutingDecision
	Err      error
}

// EmailReport is the single-email result returned to callers
type EmailReport struct {
	Category  string `json:"categoria"`
	Attention string `json:"atencao_humana"`
	Summary   string `json:"resumo"`
	Suggested string `json:"sugestao"`
	Action    string `json:"acao"`
	Sender    string `json:"sender"`
	Cached    bool   `json:"cached"`
}

// BatchReport aggregates per-email reports for one submission
type BatchReport struct {
	TotalEmails int           `json:"total_emails"`
	Results     []EmailReport `json:"results"`
}
