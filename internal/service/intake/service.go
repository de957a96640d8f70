package intake

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/internal/repository"
	"github.com/sundiag/backoffice-api/internal/service/audit"
	"github.com/sundiag/backoffice-api/pkg/errors"
)

const sessionTTL = 30 * time.Minute

// Session is one in-flight pass through the intake wizard. The record is one
// flat struct; the three stages are views over slices of it.
type Session struct {
	ID          uuid.UUID          `json:"id"`
	Stage       model.WizardStage  `json:"stage"`
	Record      model.IntakeRecord `json:"record"`
	CodePreview string             `json:"code_preview"`

	mu sync.Mutex
}

// stageOrder fixes the forward sequence of the wizard.
var stageOrder = []model.WizardStage{
	model.StageGeneral,
	model.StageCommunication,
	model.StageFinance,
}

// UpdateRequest carries the fields a tab writes. Nil means untouched, so any
// tab can write its slice without clobbering the others.
type UpdateRequest struct {
	Name           *string `json:"name"`
	Type           *string `json:"type"`
	Segment        *string `json:"segment"`
	ContactPerson  *string `json:"contact_person"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	BillingType    *string `json:"billing_type"`
	CreditTermDays *int    `json:"credit_term_days"`
}

type Service struct {
	api      repository.IntakeAPI
	sessions *gocache.Cache
	auditor  *audit.Service
}

func NewService(api repository.IntakeAPI, auditor *audit.Service) *Service {
	return &Service{
		api:      api,
		sessions: gocache.New(sessionTTL, 10*time.Minute),
		auditor:  auditor,
	}
}

// Start opens a fresh wizard session on the General stage with an advisory
// next-code preview. The preview is a display guess; the server-assigned code
// on create is authoritative.
func (s *Service) Start(ctx context.Context) (*Session, error) {
	preview, err := s.codePreview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive code preview: %w", err)
	}

	session := &Session{
		ID:          uuid.New(),
		Stage:       model.StageGeneral,
		CodePreview: preview,
	}
	s.sessions.Set(session.ID.String(), session, gocache.DefaultExpiration)
	return session, nil
}

// Get returns a live session.
func (s *Service) Get(id string) (*Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, errors.NewNotFound("intake session", nil)
	}
	return v.(*Session), nil
}

// Update merges the provided fields into the session record. No validation
// happens here; validation gates transitions, not edits.
func (s *Service) Update(id string, req *UpdateRequest) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	r := &session.Record
	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Type != nil {
		r.Type = *req.Type
	}
	if req.Segment != nil {
		r.Segment = *req.Segment
	}
	if req.ContactPerson != nil {
		r.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		r.Phone = *req.Phone
	}
	if req.Email != nil {
		r.Email = *req.Email
	}
	if req.Address != nil {
		r.Address = *req.Address
	}
	if req.City != nil {
		r.City = *req.City
	}
	if req.BillingType != nil {
		r.BillingType = *req.BillingType
	}
	if req.CreditTermDays != nil {
		r.CreditTermDays = *req.CreditTermDays
	}
	return session, nil
}

// Attach stores the optional finance attachment on the session.
func (s *Service) Attach(id, filename string, data []byte) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.Record.AttachmentName = filename
	session.Record.Attachment = data
	return session, nil
}

// Next advances one stage forward, blocked unless the current stage
// validates. The stage stays put on failure.
func (s *Service) Next(id string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := validateStage(session.Stage, &session.Record); err != nil {
		return nil, err
	}

	idx := stageIndex(session.Stage)
	if idx >= len(stageOrder)-1 {
		return nil, errors.NewBadRequest("already on the last stage", nil)
	}
	session.Stage = stageOrder[idx+1]
	return session, nil
}

// Back moves one stage backward. Always allowed, never validated.
func (s *Service) Back(id string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if idx := stageIndex(session.Stage); idx > 0 {
		session.Stage = stageOrder[idx-1]
	}
	return session, nil
}

// SubmitResult carries the created record plus the reset session.
type SubmitResult struct {
	Created *model.IntakeRecord `json:"created"`
	Session *Session            `json:"session"`
}

// Submit packages the accumulated record into one multipart create. Only
// valid on the Finance stage with its validator passing. On success the
// session resets to an empty General stage with a fresh code preview.
func (s *Service) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Stage != model.StageFinance {
		return nil, errors.NewBadRequest("submit is only available on the finance stage", nil)
	}
	if err := validateStage(model.StageFinance, &session.Record); err != nil {
		return nil, err
	}
	if err := validateStage(model.StageGeneral, &session.Record); err != nil {
		return nil, err
	}

	created, err := s.api.CreateIntakeRecord(ctx, &session.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to create intake record: %w", err)
	}

	s.auditor.Log(ctx, "backoffice", "create", "intake_record", created.Name, created)

	session.Record = model.IntakeRecord{}
	session.Stage = model.StageGeneral
	if preview, err := s.codePreview(ctx); err == nil {
		session.CodePreview = preview
	}

	return &SubmitResult{Created: created, Session: session}, nil
}

func (s *Service) codePreview(ctx context.Context) (string, error) {
	last, err := s.api.LastReferrerCode(ctx)
	if err != nil {
		return "", err
	}
	return NextReferrerCode(last), nil
}

func validateStage(stage model.WizardStage, r *model.IntakeRecord) error {
	switch stage {
	case model.StageGeneral:
		if strings.TrimSpace(r.Name) == "" {
			return errors.NewBadRequest("name is required", nil)
		}
	case model.StageFinance:
		if strings.TrimSpace(r.BillingType) == "" {
			return errors.NewBadRequest("billing type is required", nil)
		}
	}
	// Communication has no required fields.
	return nil
}

func stageIndex(stage model.WizardStage) int {
	for i, st := range stageOrder {
		if st == stage {
			return i
		}
	}
	return 0
}

// NextReferrerCode increments the numeric suffix of the last-seen code,
// keeping the zero-padded width ("SD0009" -> "SD0010"). Purely advisory:
// concurrent submissions elsewhere can assign the same preview, so it must
// never be treated as a reservation.
func NextReferrerCode(last string) string {
	i := len(last)
	for i > 0 && unicode.IsDigit(rune(last[i-1])) {
		i--
	}
	if i == len(last) {
		return last
	}

	prefix, suffix := last[:i], last[i:]
	var n int
	fmt.Sscanf(suffix, "%d", &n)
	return fmt.Sprintf("%s%0*d", prefix, len(suffix), n+1)
}
