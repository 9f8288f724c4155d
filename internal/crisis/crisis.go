// Package crisis holds support contacts, the safety plan and the built-in
// crisis lines, and hands call or text intents to the platform.
package crisis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/steady/internal/logger"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/validation"
)

// Store is the storage surface used for crisis support.
type Store interface {
	GetSettings() (models.Settings, error)
	AddSupportContact(models.SupportContact) error
	GetSupportContact(id string) (models.SupportContact, error)
	ListSupportContacts(userID string) ([]models.SupportContact, error)
	UpdateSupportContact(models.SupportContact) error
	DeleteSupportContact(id string) error
	GetSafetyPlan(userID string) (models.SafetyPlan, error)
	SaveSafetyPlan(models.SafetyPlan) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) userID() (string, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	return settings.UserID, nil
}

// NewContact describes a support contact to add.
type NewContact struct {
	Name           string
	Phone          string
	Relationship   string
	IsProfessional bool
}

func (s *Service) AddContact(in NewContact) (models.SupportContact, error) {
	userID, err := s.userID()
	if err != nil {
		return models.SupportContact{}, err
	}
	contact := models.SupportContact{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           strings.TrimSpace(in.Name),
		Phone:          strings.TrimSpace(in.Phone),
		Relationship:   strings.TrimSpace(in.Relationship),
		IsProfessional: in.IsProfessional,
		CreatedAt:      s.now().UTC().Truncate(time.Second),
	}
	if err := validation.SupportContact(contact); err != nil {
		return models.SupportContact{}, err
	}
	if err := s.store.AddSupportContact(contact); err != nil {
		return models.SupportContact{}, fmt.Errorf("failed to save contact: %w", err)
	}
	return contact, nil
}

// Contacts lists contacts, professionals first.
func (s *Service) Contacts() ([]models.SupportContact, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.store.ListSupportContacts(userID)
}

// ResolveContact finds a contact by id or case-insensitive name.
func (s *Service) ResolveContact(ref string) (models.SupportContact, error) {
	ref = strings.TrimSpace(ref)
	if c, err := s.store.GetSupportContact(ref); err == nil {
		return c, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.SupportContact{}, err
	}

	contacts, err := s.Contacts()
	if err != nil {
		return models.SupportContact{}, err
	}
	for _, c := range contacts {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return models.SupportContact{}, fmt.Errorf("contact %q: %w", ref, storage.ErrNotFound)
}

// UpdateContact replaces the editable fields of a contact.
func (s *Service) UpdateContact(ref string, in NewContact) (models.SupportContact, error) {
	contact, err := s.ResolveContact(ref)
	if err != nil {
		return models.SupportContact{}, err
	}
	if in.Name != "" {
		contact.Name = strings.TrimSpace(in.Name)
	}
	if in.Phone != "" {
		contact.Phone = strings.TrimSpace(in.Phone)
	}
	if in.Relationship != "" {
		contact.Relationship = strings.TrimSpace(in.Relationship)
	}
	contact.IsProfessional = in.IsProfessional
	if err := validation.SupportContact(contact); err != nil {
		return models.SupportContact{}, err
	}
	if err := s.store.UpdateSupportContact(contact); err != nil {
		return models.SupportContact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

func (s *Service) DeleteContact(ref string) (models.SupportContact, error) {
	contact, err := s.ResolveContact(ref)
	if err != nil {
		return models.SupportContact{}, err
	}
	return contact, s.store.DeleteSupportContact(contact.ID)
}

// Plan returns the safety plan. A missing plan is returned empty.
func (s *Service) Plan() (models.SafetyPlan, error) {
	userID, err := s.userID()
	if err != nil {
		return models.SafetyPlan{}, err
	}
	plan, err := s.store.GetSafetyPlan(userID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.SafetyPlan{UserID: userID}, nil
	}
	return plan, err
}

// Section names a list in the safety plan.
type Section string

const (
	SectionWarningSigns  Section = "warning-signs"
	SectionCoping        Section = "coping"
	SectionReasons       Section = "reasons"
	SectionSafePlaces    Section = "places"
	SectionProfessionals Section = "professionals"
)

func Sections() []Section {
	return []Section{SectionWarningSigns, SectionCoping, SectionReasons, SectionSafePlaces, SectionProfessionals}
}

func (sec Section) field(plan *models.SafetyPlan) (*[]string, error) {
	switch sec {
	case SectionWarningSigns:
		return &plan.WarningSigns, nil
	case SectionCoping:
		return &plan.CopingStrategies, nil
	case SectionReasons:
		return &plan.ReasonsToLive, nil
	case SectionSafePlaces:
		return &plan.SafePlaces, nil
	case SectionProfessionals:
		return &plan.ProfessionalContacts, nil
	}
	return nil, fmt.Errorf("%w: unknown plan section %q", validation.ErrInvalid, sec)
}

// SavePlan upserts the whole plan.
func (s *Service) SavePlan(plan models.SafetyPlan) (models.SafetyPlan, error) {
	userID, err := s.userID()
	if err != nil {
		return models.SafetyPlan{}, err
	}
	plan.UserID = userID
	plan.UpdatedAt = s.now().UTC().Truncate(time.Second)
	for _, sec := range Sections() {
		f, _ := sec.field(&plan)
		*f = cleanItems(*f)
	}
	if err := s.store.SaveSafetyPlan(plan); err != nil {
		return models.SafetyPlan{}, fmt.Errorf("failed to save safety plan: %w", err)
	}
	logger.Debug("Saved safety plan", "user", userID)
	return plan, nil
}

// AddToPlan appends items to one section.
func (s *Service) AddToPlan(sec Section, items ...string) (models.SafetyPlan, error) {
	plan, err := s.Plan()
	if err != nil {
		return models.SafetyPlan{}, err
	}
	f, err := sec.field(&plan)
	if err != nil {
		return models.SafetyPlan{}, err
	}
	*f = append(*f, items...)
	return s.SavePlan(plan)
}

// RemoveFromPlan drops the 1-based item index from a section.
func (s *Service) RemoveFromPlan(sec Section, index int) (models.SafetyPlan, error) {
	plan, err := s.Plan()
	if err != nil {
		return models.SafetyPlan{}, err
	}
	f, err := sec.field(&plan)
	if err != nil {
		return models.SafetyPlan{}, err
	}
	if index < 1 || index > len(*f) {
		return models.SafetyPlan{}, fmt.Errorf("%w: %s has %d items", validation.ErrInvalid, sec, len(*f))
	}
	*f = append((*f)[:index-1], (*f)[index:]...)
	return s.SavePlan(plan)
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Intent is a call or text request.
type Intent struct {
	Target string
	URI    string
}

// CallIntent builds a tel: intent for a contact name/id or a built-in line.
func (s *Service) CallIntent(ref string) (Intent, error) {
	target, number, err := s.number(ref, false)
	if err != nil {
		return Intent{}, err
	}
	uri, err := TelURI(number)
	if err != nil {
		return Intent{}, err
	}
	return Intent{Target: target, URI: uri}, nil
}

// TextIntent builds an sms: intent with an optional prefilled message.
func (s *Service) TextIntent(ref, body string) (Intent, error) {
	target, number, err := s.number(ref, true)
	if err != nil {
		return Intent{}, err
	}
	uri, err := SMSURI(number, body)
	if err != nil {
		return Intent{}, err
	}
	return Intent{Target: target, URI: uri}, nil
}

func (s *Service) number(ref string, sms bool) (string, string, error) {
	if c, err := s.ResolveContact(ref); err == nil {
		return c.Name, c.Phone, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", "", err
	}

	line, ok := FindLine(ref)
	if !ok {
		return "", "", fmt.Errorf("no contact or crisis line matches %q: %w", ref, storage.ErrNotFound)
	}
	number := line.Phone
	if sms {
		number = line.SMS
	}
	if number == "" {
		kind := "calls"
		if sms {
			kind = "texts"
		}
		return "", "", fmt.Errorf("%s does not accept %s", line.Name, kind)
	}
	return line.Name, number, nil
}

// Open hands the intent to the platform. It returns once the handler starts.
func Open(intent Intent) error {
	logger.Info("Opening crisis intent", "target", intent.Target)
	return openURIFunc(intent.URI)
}
