package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/rs/zerolog"

	"github.com/docflow/docflow/internal/domain/document"
	domainPolicy "github.com/docflow/docflow/internal/domain/policy"
	"github.com/docflow/docflow/internal/domain/user"
)

// Service evaluates submission policies. It is read-only: the first violated
// policy, at highest priority, fails the evaluation; nothing is mutated.
type Service struct {
	policyRepo   domainPolicy.Repository
	documentRepo document.Repository
	logger       zerolog.Logger
	now          func() time.Time
}

// NewService creates a policy service.
func NewService(policyRepo domainPolicy.Repository, documentRepo document.Repository, logger zerolog.Logger) *Service {
	return &Service{
		policyRepo:   policyRepo,
		documentRepo: documentRepo,
		logger:       logger.With().Str("service", "policy").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate applies active policies scoped to the document's type in
// descending priority order. Policies whose department/role scoping does not
// match the acting user pass silently. Evaluation short-circuits on the first
// violation, which propagates unmutated to the caller.
func (s *Service) Evaluate(ctx context.Context, u *user.User, doc *document.Document) error {
	policies, err := s.policyRepo.ListActiveForDocumentType(ctx, doc.DocumentTypeID)
	if err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}
	for _, p := range policies {
		if !p.IsApplicable(u, doc.DocumentTypeID) {
			continue
		}
		if err := s.evaluateOne(ctx, p, u, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) evaluateOne(ctx context.Context, p *domainPolicy.Policy, u *user.User, doc *document.Document) error {
	switch p.Type {
	case domainPolicy.TypeQuotaLimit:
		return s.evaluateQuotaLimit(ctx, p, u, doc)
	case domainPolicy.TypeAmountThreshold:
		return s.evaluateAmountThreshold(p, doc)
	case domainPolicy.TypeTimeBased:
		return s.evaluateTimeBased(p, doc)
	case domainPolicy.TypeCustom:
		return s.evaluateCustom(p, doc)
	default:
		s.logger.Warn().Str("policy", p.Name).Str("type", string(p.Type)).Msg("unknown policy type, skipping")
		return nil
	}
}

func (s *Service) evaluateQuotaLimit(ctx context.Context, p *domainPolicy.Policy, u *user.User, doc *document.Document) error {
	rules := p.DecodeQuotaRules()
	requested := int(doc.FieldFloat("days", 0))

	if requested > rules.MaxDaysPerRequest {
		return &domainPolicy.Violation{
			Code:    "QUOTA_MAX_PER_REQUEST",
			Message: fmt.Sprintf("at most %d days per request", rules.MaxDaysPerRequest),
		}
	}

	used, err := s.documentRepo.SumPayloadField(ctx, doc.SubmitterID, doc.DocumentTypeID,
		[]document.Status{document.StatusApproved, document.StatusCompleted},
		s.now().Year(), "days")
	if err != nil {
		return fmt.Errorf("failed to sum quota usage: %w", err)
	}

	remaining := rules.MaxDaysPerYear - int(used)
	if requested > remaining {
		return &domainPolicy.Violation{
			Code:    "QUOTA_EXCEEDED",
			Message: fmt.Sprintf("insufficient quota, %d days remaining this year", remaining),
		}
	}
	return nil
}

// evaluateAmountThreshold never fails submission: crossing the threshold is
// advisory only. The configured action is logged for downstream consumers.
func (s *Service) evaluateAmountThreshold(p *domainPolicy.Policy, doc *document.Document) error {
	rules := p.DecodeThresholdRules()
	amount := doc.FieldFloat(rules.Field, 0)
	if amount > rules.Threshold {
		s.logger.Info().
			Str("policy", p.Name).
			Str("document_id", doc.DocumentID.String()).
			Float64("amount", amount).
			Float64("threshold", rules.Threshold).
			Str("action", rules.Action).
			Msg("amount threshold exceeded")
	}
	return nil
}

func (s *Service) evaluateTimeBased(p *domainPolicy.Policy, doc *document.Document) error {
	rules := p.DecodeTimeRules()
	raw, ok := doc.Field(rules.Field).(string)
	if !ok || raw == "" {
		return nil
	}
	start, err := parseDate(raw)
	if err != nil {
		return nil
	}
	// Lead time counts whole days from the submission instant, not from
	// midnight: submitting at 09:00 for a start three calendar days out gives
	// only two full days of notice.
	daysUntil := int(start.Sub(s.now()).Hours() / 24)
	if daysUntil < rules.MinNoticeDays {
		return &domainPolicy.Violation{
			Code:    "NOTICE_PERIOD",
			Message: fmt.Sprintf("requests must be submitted at least %d days before the start date", rules.MinNoticeDays),
		}
	}
	return nil
}

// evaluateCustom is the extension point. Custom policies never block
// submission: a policy without an expression passes outright, and with one
// the expression is evaluated against the flattened payload with an
// unsatisfied or failing result logged for operators, not returned as a
// violation.
func (s *Service) evaluateCustom(p *domainPolicy.Policy, doc *document.Document) error {
	rules := p.DecodeCustomRules()
	if rules.Expression == "" {
		return nil
	}
	expr, err := govaluate.NewEvaluableExpression(rules.Expression)
	if err != nil {
		s.logger.Warn().Err(err).Str("policy", p.Name).Msg("invalid custom policy expression")
		return nil
	}
	result, err := expr.Evaluate(doc.Params())
	if err != nil {
		s.logger.Warn().Err(err).Str("policy", p.Name).Msg("custom policy expression failed")
		return nil
	}
	ok, isBool := result.(bool)
	if !isBool {
		s.logger.Warn().Str("policy", p.Name).Msg("custom policy expression is not boolean")
		return nil
	}
	if !ok {
		msg := rules.Message
		if msg == "" {
			msg = fmt.Sprintf("policy %q not satisfied", p.Name)
		}
		s.logger.Info().
			Str("policy", p.Name).
			Str("document_id", doc.DocumentID.String()).
			Str("message", msg).
			Msg("custom policy not satisfied")
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return truncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %s", raw)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
