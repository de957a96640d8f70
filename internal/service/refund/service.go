package refund

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/sundiag/backoffice-api/internal/config"
	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/internal/repository"
	"github.com/sundiag/backoffice-api/internal/service/audit"
	"github.com/sundiag/backoffice-api/pkg/errors"
)

// Session is one pass through the refund workflow. The workflow is strictly
// linear: search, select, authorize, OTP, refund. A failed step leaves the
// state untouched.
type Session struct {
	ID         uuid.UUID         `json:"id"`
	State      model.RefundState `json:"state"`
	PatientID  string            `json:"patient_id"`
	Date       string            `json:"date"`
	Patients   []*model.Patient  `json:"patients"`
	Selected   map[string]bool   `json:"selected"` // "patientID|testName"
	Authorizer string            `json:"authorizer,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	OtpSent    bool              `json:"otp_sent"`
	Message    string            `json:"message,omitempty"`

	mu sync.Mutex
}

type Service struct {
	api         repository.RefundAPI
	sessions    *gocache.Cache
	auditor     *audit.Service
	authorizers []model.Authorizer
}

func NewService(api repository.RefundAPI, auditor *audit.Service, cfg config.RefundConfig) *Service {
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return &Service{
		api:         api,
		sessions:    gocache.New(ttl, 10*time.Minute),
		auditor:     auditor,
		authorizers: cfg.Authorizers,
	}
}

// Authorizers lists who may approve a refund.
func (s *Service) Authorizers() []model.Authorizer {
	return s.authorizers
}

// Start opens an idle session.
func (s *Service) Start() *Session {
	session := &Session{
		ID:       uuid.New(),
		State:    model.RefundIdle,
		Selected: make(map[string]bool),
	}
	s.sessions.Set(session.ID.String(), session, gocache.DefaultExpiration)
	return session
}

// Get returns a live session.
func (s *Service) Get(id string) (*Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, errors.NewNotFound("refund session", nil)
	}
	return v.(*Session), nil
}

// Search runs the candidate lookup. Both fields are required together. An
// empty result still moves to the searched state so the caller can show
// "no records" rather than an error.
func (s *Service) Search(ctx context.Context, id, patientID, date string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(patientID) == "" || strings.TrimSpace(date) == "" {
		return nil, errors.NewBadRequest("patient id and date are both required", nil)
	}

	patients, err := s.api.SearchRefundCandidates(ctx, patientID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to search refund candidates: %w", err)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.PatientID = patientID
	session.Date = date
	session.Patients = patients
	session.Selected = make(map[string]bool)
	session.Authorizer = ""
	session.Reason = ""
	session.OtpSent = false
	session.State = model.RefundSearched
	session.Message = ""
	if len(patients) == 0 {
		session.Message = "no refundable records found"
	}
	return session, nil
}

func selectionKey(patientID, testName string) string {
	return patientID + "|" + testName
}

// ToggleTest flips one test's selection. Selection only exists after a
// search.
func (s *Service) ToggleTest(id, patientID, testName string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == model.RefundIdle {
		return nil, errors.NewBadRequest("search before selecting tests", nil)
	}
	if session.State == model.RefundOtpSent {
		return nil, errors.NewBadRequest("selection is locked after the otp is sent", nil)
	}

	key := selectionKey(patientID, testName)
	if session.Selected[key] {
		delete(session.Selected, key)
	} else {
		session.Selected[key] = true
	}
	session.syncSelectionState()
	return session, nil
}

// SelectAll selects every active test across every searched patient, not
// just the rows of one record.
func (s *Service) SelectAll(id string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == model.RefundIdle {
		return nil, errors.NewBadRequest("search before selecting tests", nil)
	}
	if session.State == model.RefundOtpSent {
		return nil, errors.NewBadRequest("selection is locked after the otp is sent", nil)
	}

	for _, p := range session.Patients {
		for _, t := range p.Tests {
			if t.Cancelled || t.Refund {
				continue
			}
			session.Selected[selectionKey(p.ID, t.Name)] = true
		}
	}
	session.syncSelectionState()
	return session, nil
}

// ChooseAuthorizer picks who approves the refund. Switching after an OTP
// was sent invalidates it; a fresh one must go to the new authorizer.
func (s *Service) ChooseAuthorizer(id, name string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var found *model.Authorizer
	for i := range s.authorizers {
		if s.authorizers[i].Name == name {
			found = &s.authorizers[i]
			break
		}
	}
	if found == nil {
		return nil, errors.NewBadRequest(fmt.Sprintf("unknown authorizer %q", name), nil)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != model.RefundTestsSelected && session.State != model.RefundOtpSent {
		return nil, errors.NewBadRequest("select tests before choosing an authorizer", nil)
	}

	if session.Authorizer != found.Name && session.OtpSent {
		session.OtpSent = false
		session.State = model.RefundTestsSelected
	}
	session.Authorizer = found.Name
	return session, nil
}

// SetReason records the mandatory refund reason.
func (s *Service) SetReason(id, reason string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.Reason = reason
	return session, nil
}

// SendOTP dispatches the one-time password to the chosen authorizer along
// with a structured summary of what is being refunded.
func (s *Service) SendOTP(ctx context.Context, id string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != model.RefundTestsSelected {
		return nil, errors.NewBadRequest("select tests before requesting an otp", nil)
	}
	if session.Authorizer == "" {
		return nil, errors.NewBadRequest("choose an authorizer first", nil)
	}
	if strings.TrimSpace(session.Reason) == "" {
		return nil, errors.NewBadRequest("a refund reason is required", nil)
	}

	email := s.authorizerEmail(session.Authorizer)
	summary := session.buildSummary()

	msg, err := s.api.GenerateRefundOTP(ctx, email, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refund otp: %w", err)
	}

	session.OtpSent = true
	session.State = model.RefundOtpSent
	session.Message = msg
	return session, nil
}

// Verify submits the OTP and, if the lab accepts it, processes the refund.
// On success the selection clears and the search re-runs so the refreshed
// rows show the refunded flags.
func (s *Service) Verify(ctx context.Context, id, otp string) (*Session, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != model.RefundOtpSent {
		return nil, errors.NewBadRequest("request an otp before verifying", nil)
	}
	if strings.TrimSpace(otp) == "" {
		return nil, errors.NewBadRequest("otp is required", nil)
	}

	email := s.authorizerEmail(session.Authorizer)
	summary := session.buildSummary()

	msg, err := s.api.ProcessRefund(ctx, session.PatientID, summary.TestNames, email, otp)
	if err != nil {
		return nil, fmt.Errorf("failed to process refund: %w", err)
	}

	s.auditor.Log(ctx, session.Authorizer, "refund", "patient", session.PatientID, summary)

	session.State = model.RefundRefunded
	session.Message = msg
	session.Selected = make(map[string]bool)
	session.OtpSent = false

	if patients, err := s.api.SearchRefundCandidates(ctx, session.PatientID, session.Date); err == nil {
		session.Patients = patients
	}
	return session, nil
}

// syncSelectionState moves between searched and tests_selected as the
// selection empties or fills. Caller holds the lock.
func (session *Session) syncSelectionState() {
	if len(session.Selected) == 0 {
		session.State = model.RefundSearched
		session.Authorizer = ""
		session.OtpSent = false
		return
	}
	if session.State == model.RefundSearched || session.State == model.RefundRefunded {
		session.State = model.RefundTestsSelected
	}
}

// buildSummary assembles the refund summary from the current selection.
// Caller holds the lock.
func (session *Session) buildSummary() *model.RefundSummary {
	var names []string
	amount := decimal.Zero
	var patientName string

	for _, p := range session.Patients {
		for _, t := range p.Tests {
			if !session.Selected[selectionKey(p.ID, t.Name)] {
				continue
			}
			names = append(names, t.Name)
			amount = amount.Add(t.Amount)
			if patientName == "" {
				patientName = p.Name
			}
		}
	}

	return &model.RefundSummary{
		PatientID:   session.PatientID,
		PatientName: patientName,
		Date:        session.Date,
		TestNames:   names,
		Amount:      amount.Round(2).StringFixed(2),
		Reason:      session.Reason,
	}
}

func (s *Service) authorizerEmail(name string) string {
	for _, a := range s.authorizers {
		if a.Name == name {
			return a.Email
		}
	}
	return ""
}
