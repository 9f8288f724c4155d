package crisis

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
	"github.com/julianstephens/steady/internal/storage/sqlite"
	"github.com/julianstephens/steady/internal/validation"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewService(store)
}

func TestContacts(t *testing.T) {
	svc := setupService(t)

	friend, err := svc.AddContact(NewContact{Name: "Alex", Phone: "+1 555 010 0199", Relationship: "friend"})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}
	if _, err := svc.AddContact(NewContact{Name: "Dr. Rivera", Phone: "555-0142", IsProfessional: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddContact(NewContact{Name: "Nobody", Phone: "n/a"}); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}

	contacts, err := svc.Contacts()
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 2 || !contacts[0].IsProfessional {
		t.Errorf("expected professionals first, got %+v", contacts)
	}

	byName, err := svc.ResolveContact("alex")
	if err != nil || byName.ID != friend.ID {
		t.Errorf("ResolveContact(name) = %+v, %v", byName, err)
	}

	updated, err := svc.UpdateContact(friend.ID, NewContact{Relationship: "sibling"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Relationship != "sibling" || updated.Phone != friend.Phone {
		t.Errorf("unexpected update: %+v", updated)
	}

	if _, err := svc.DeleteContact("Alex"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResolveContact("Alex"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSafetyPlan(t *testing.T) {
	svc := setupService(t)

	plan, err := svc.Plan()
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !plan.IsEmpty() {
		t.Errorf("new plan should be empty: %+v", plan)
	}

	if _, err := svc.AddToPlan(SectionCoping, "Go for a walk", "  ", "Call my sister"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddToPlan(SectionWarningSigns, "Skipping meals"); err != nil {
		t.Fatal(err)
	}
	plan, err = svc.RemoveFromPlan(SectionCoping, 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Call my sister"}, plan.CopingStrategies); diff != "" {
		t.Errorf("coping mismatch (-want +got):\n%s", diff)
	}

	again, err := svc.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Skipping meals"}, again.WarningSigns); diff != "" {
		t.Errorf("warning signs mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.RemoveFromPlan(SectionCoping, 5); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.AddToPlan(Section("hobbies"), "x"); !errors.Is(err, validation.ErrInvalid) {
		t.Errorf("expected unknown section error, got %v", err)
	}
}

func TestIntents(t *testing.T) {
	svc := setupService(t)
	if _, err := svc.AddContact(NewContact{Name: "Sam", Phone: "+1 (555) 010-0100"}); err != nil {
		t.Fatal(err)
	}

	call, err := svc.CallIntent("sam")
	if err != nil {
		t.Fatal(err)
	}
	if call.URI != "tel:+15550100100" || call.Target != "Sam" {
		t.Errorf("CallIntent = %+v", call)
	}

	text, err := svc.TextIntent("Crisis Text Line", "HOME now")
	if err != nil {
		t.Fatal(err)
	}
	if text.URI != "sms:741741?body=HOME%20now" {
		t.Errorf("TextIntent = %+v", text)
	}

	lifeline, err := svc.CallIntent("988")
	if err != nil || lifeline.URI != "tel:988" {
		t.Errorf("CallIntent(988) = %+v, %v", lifeline, err)
	}

	if _, err := svc.CallIntent("crisis text line"); err == nil {
		t.Error("expected error calling a text-only line")
	}
	if _, err := svc.CallIntent("nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenUsesPlatformHandler(t *testing.T) {
	var opened string
	orig := openURIFunc
	openURIFunc = func(uri string) error { opened = uri; return nil }
	defer func() { openURIFunc = orig }()

	if err := Open(Intent{Target: "988", URI: "tel:988"}); err != nil {
		t.Fatal(err)
	}
	if opened != "tel:988" {
		t.Errorf("opened %q", opened)
	}
}

func TestFindLine(t *testing.T) {
	if l, ok := FindLine("samaritans"); !ok || l.Phone != "116123" {
		t.Errorf("FindLine(samaritans) = %+v, %v", l, ok)
	}
	if _, ok := FindLine("ghostbusters"); ok {
		t.Error("unexpected match")
	}
}

func TestMarkdown(t *testing.T) {
	plan := models.SafetyPlan{ReasonsToLive: []string{"My dog"}}
	contacts := []models.SupportContact{{Name: "A|B", Phone: "555", IsProfessional: true}}

	md := Markdown(plan, contacts)
	for _, want := range []string{"## Reasons to keep going", "1. My dog", `A\|B (professional)`, "988 Suicide & Crisis Lifeline"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Warning signs") {
		t.Error("empty sections should be omitted")
	}

	empty := Markdown(models.SafetyPlan{}, nil)
	if !strings.Contains(empty, "Your plan is empty") {
		t.Error("expected empty plan hint")
	}

	out, err := Render(md, 60)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "My dog") {
		t.Error("rendered output missing plan content")
	}
}
