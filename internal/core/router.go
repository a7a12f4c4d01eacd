package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SpamCategory is the taxonomy label that suppresses outbound action
const SpamCategory = "Spam"

// Action-taken messages reported to callers
const (
	ActionMsgEscalated  = "Encaminhado para curadoria humana"
	ActionMsgSuppressed = "Spam detectado - nenhuma ação necessária"
	ActionMsgReplied    = "Processado com sucesso - resposta automática enviada"
	ActionMsgNoSender   = "Remetente não identificado - resposta não enviada"
	ActionMsgSendFailed = "Falha no envio - entrega registrada como simulada"
)

// ActionRouter decides what happens to an analyzed email: escalate to the
// curator, suppress (spam), or auto-reply to the sender. Routing itself is
// pure; side effects are confined to Dispatch.
type ActionRouter struct {
	transport    MailTransport
	logger       *zap.Logger
	curatorAddr  string
	excerptChars int
}

// NewActionRouter creates a new action router
func NewActionRouter(transport MailTransport, logger *zap.Logger, curatorAddr string, excerptChars int) *ActionRouter {
	if excerptChars <= 0 {
		excerptChars = 500
	}
	return &ActionRouter{
		transport:    transport,
		logger:       logger,
		curatorAddr:  curatorAddr,
		excerptChars: excerptChars,
	}
}

// Route maps an analysis result to a routing decision. For fixed inputs the
// decision is always the same.
func (r *ActionRouter) Route(result *AnalysisResult, email *EmailContent) RoutingDecision {
	if result.NeedsHumanAttention {
		return RoutingDecision{
			Action:  ActionEscalate,
			To:      r.curatorAddr,
			Subject: fmt.Sprintf("[MailMind] E-mail para curadoria: %s", result.Category),
			Body:    r.escalationBody(result, email),
		}
	}

	if strings.EqualFold(result.Category, SpamCategory) {
		return RoutingDecision{Action: ActionSuppress}
	}

	if email.Sender == "" {
		return RoutingDecision{Action: ActionNoSender}
	}

	return RoutingDecision{
		Action:  ActionAutoReply,
		To:      email.Sender,
		Subject: "Re: sua mensagem",
		Body:    r.replyBody(result),
	}
}

// Dispatch executes the side effect of a routing decision and returns the
// action-taken message for the report. Send failures are converted into a
// reported outcome, never an error: a configured fallback transport has
// already had its chance inside the MailTransport implementation.
func (r *ActionRouter) Dispatch(ctx context.Context, decision RoutingDecision) string {
	switch decision.Action {
	case ActionSuppress:
		return ActionMsgSuppressed
	case ActionNoSender:
		r.logger.Warn("Auto-reply skipped, sender could not be identified")
		return ActionMsgNoSender
	case ActionEscalate, ActionAutoReply:
		if err := r.transport.Send(ctx, decision.To, decision.Subject, decision.Body); err != nil {
			r.logger.Error("Mail dispatch failed",
				zap.String("to", decision.To),
				zap.String("action", string(decision.Action)),
				zap.Error(err))
			return ActionMsgSendFailed
		}
		if decision.Action == ActionEscalate {
			return ActionMsgEscalated
		}
		return ActionMsgReplied
	}
	return ActionMsgNoSender
}

func (r *ActionRouter) escalationBody(result *AnalysisResult, email *EmailContent) string {
	sender := email.Sender
	if sender == "" {
		sender = "não identificado"
	}
	excerpt := email.Body
	if len(excerpt) > r.excerptChars {
		excerpt = excerpt[:r.excerptChars] + "..."
	}
	return fmt.Sprintf(
		"Remetente: %s\nCategoria: %s\n\nResumo:\n%s\n\nAção sugerida:\n%s\n\nTrecho do e-mail:\n%s\n",
		sender, result.Category, result.Summary, result.SuggestedAction, excerpt)
}

func (r *ActionRouter) replyBody(result *AnalysisResult) string {
	if result.SuggestedAction != "" {
		return result.SuggestedAction
	}
	return "Olá,\n\nRecebemos a sua mensagem e ela foi processada automaticamente.\nSe precisar de atendimento adicional, responda a este e-mail.\n\nAtenciosamente,\nEquipe MailMind"
}
