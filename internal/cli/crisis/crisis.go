package crisis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/steady/internal/cli"
	crisissvc "github.com/julianstephens/steady/internal/crisis"
)

// open hands an intent to the platform. Replaced in tests.
var open = crisissvc.Open

type CrisisCmd struct {
	Contact struct {
		Add    ContactAddCmd    `cmd:"" help:"Add a support contact."`
		List   ContactListCmd   `cmd:"" help:"List support contacts."`
		Edit   ContactEditCmd   `cmd:"" help:"Edit a support contact."`
		Delete ContactDeleteCmd `cmd:"" help:"Delete a support contact."`
	} `cmd:"" help:"Manage people you can reach out to."`
	Plan struct {
		Show   PlanShowCmd   `cmd:"" help:"Show your safety plan." default:"1"`
		Add    PlanAddCmd    `cmd:"" help:"Add items to a plan section."`
		Remove PlanRemoveCmd `cmd:"" help:"Remove an item from a plan section."`
	} `cmd:"" help:"View and edit your safety plan."`
	Call  CallCmd  `cmd:"" help:"Call a contact or crisis line."`
	Text  TextCmd  `cmd:"" help:"Text a contact or crisis line."`
	Lines LinesCmd `cmd:"" help:"List built-in crisis lines."`
}

type ContactAddCmd struct {
	Name         string `arg:"" help:"Contact name."`
	Phone        string `arg:"" help:"Phone number."`
	Relationship string `help:"How you know them."`
	Professional bool   `help:"Mark as a professional (therapist, doctor)."`
}

func (c *ContactAddCmd) Run(ctx *cli.Context) error {
	contact, err := ctx.Crisis().AddContact(crisissvc.NewContact{
		Name:           c.Name,
		Phone:          c.Phone,
		Relationship:   c.Relationship,
		IsProfessional: c.Professional,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added %s (%s)\n", contact.Name, contact.Phone)
	return nil
}

type ContactListCmd struct{}

func (c *ContactListCmd) Run(ctx *cli.Context) error {
	contacts, err := ctx.Crisis().Contacts()
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		ctx.Println("No support contacts yet. Add one with 'steady crisis contact add <name> <phone>'.")
		return nil
	}
	for _, sc := range contacts {
		tag := ""
		if sc.IsProfessional {
			tag = " [professional]"
		}
		ctx.Printf("%-24s %-16s %s%s\n", sc.Name, sc.Phone, sc.Relationship, tag)
	}
	return nil
}

type ContactEditCmd struct {
	Contact      string `arg:"" help:"Contact name or ID."`
	Name         string `help:"New name."`
	Phone        string `help:"New phone number."`
	Relationship string `help:"New relationship."`
	Professional *bool  `help:"Mark or unmark as a professional."`
}

func (c *ContactEditCmd) Run(ctx *cli.Context) error {
	svc := ctx.Crisis()
	existing, err := svc.ResolveContact(c.Contact)
	if err != nil {
		return err
	}
	professional := existing.IsProfessional
	if c.Professional != nil {
		professional = *c.Professional
	}
	updated, err := svc.UpdateContact(existing.ID, crisissvc.NewContact{
		Name:           c.Name,
		Phone:          c.Phone,
		Relationship:   c.Relationship,
		IsProfessional: professional,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Updated %s\n", updated.Name)
	return nil
}

type ContactDeleteCmd struct {
	Contact string `arg:"" help:"Contact name or ID."`
	Yes     bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ContactDeleteCmd) Run(ctx *cli.Context) error {
	svc := ctx.Crisis()
	contact, err := svc.ResolveContact(c.Contact)
	if err != nil {
		return err
	}
	ok, err := ctx.AskConfirm(fmt.Sprintf("Delete %s from your contacts?", contact.Name), c.Yes)
	if err != nil || !ok {
		return err
	}
	if _, err := svc.DeleteContact(contact.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted %s\n", contact.Name)
	return nil
}

type PlanShowCmd struct {
	Raw   bool `help:"Print plain Markdown."`
	Width int  `help:"Wrap width for formatted output." default:"80"`
}

func (c *PlanShowCmd) Run(ctx *cli.Context) error {
	svc := ctx.Crisis()
	plan, err := svc.Plan()
	if err != nil {
		return err
	}
	contacts, err := svc.Contacts()
	if err != nil {
		return err
	}
	md := crisissvc.Markdown(plan, contacts)
	if c.Raw {
		ctx.Printf("%s", md)
		return nil
	}
	rendered, err := crisissvc.Render(md, c.Width)
	if err != nil {
		// Fall back to the source so the plan is always readable.
		ctx.Printf("%s", md)
		return nil
	}
	ctx.Printf("%s", rendered)
	return nil
}

func sectionNames() string {
	names := make([]string, 0, len(crisissvc.Sections()))
	for _, s := range crisissvc.Sections() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

type PlanAddCmd struct {
	Section string   `arg:"" help:"Plan section: warning-signs, coping, reasons, places, professionals."`
	Items   []string `arg:"" help:"Items to add."`
}

func (c *PlanAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Crisis().AddToPlan(crisissvc.Section(strings.ToLower(c.Section)), c.Items...); err != nil {
		return fmt.Errorf("%w (sections: %s)", err, sectionNames())
	}
	ctx.Printf("✓ Added %d item(s) to %s\n", len(c.Items), c.Section)
	return nil
}

type PlanRemoveCmd struct {
	Section string `arg:"" help:"Plan section."`
	Index   int    `arg:"" help:"1-based item number as shown by 'plan show'."`
}

func (c *PlanRemoveCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Crisis().RemoveFromPlan(crisissvc.Section(strings.ToLower(c.Section)), c.Index); err != nil {
		return err
	}
	ctx.Printf("✓ Removed item %d from %s\n", c.Index, c.Section)
	return nil
}

type CallCmd struct {
	Target string `arg:"" help:"Contact name or ID, or a crisis line name or number."`
	DryRun bool   `help:"Print the call link instead of opening it."`
}

func (c *CallCmd) Run(ctx *cli.Context) error {
	intent, err := ctx.Crisis().CallIntent(c.Target)
	if err != nil {
		return err
	}
	return dispatch(ctx, intent, "Calling", c.DryRun)
}

type TextCmd struct {
	Target  string `arg:"" help:"Contact name or ID, or a crisis line name or number."`
	Message string `help:"Prefilled message." short:"m"`
	DryRun  bool   `help:"Print the message link instead of opening it."`
}

func (c *TextCmd) Run(ctx *cli.Context) error {
	intent, err := ctx.Crisis().TextIntent(c.Target, c.Message)
	if err != nil {
		return err
	}
	return dispatch(ctx, intent, "Texting", c.DryRun)
}

func dispatch(ctx *cli.Context, intent crisissvc.Intent, verb string, dryRun bool) error {
	if dryRun {
		ctx.Println(intent.URI)
		return nil
	}
	ctx.Printf("%s %s...\n", verb, intent.Target)
	if err := open(intent); err != nil {
		return errors.Join(
			fmt.Errorf("could not open %s: %w", intent.URI, err),
			errors.New("dial the number directly, or call your local emergency number"),
		)
	}
	return nil
}

type LinesCmd struct{}

func (c *LinesCmd) Run(ctx *cli.Context) error {
	for _, l := range crisissvc.Lines {
		var ways []string
		if l.Phone != "" {
			ways = append(ways, "call "+l.Phone)
		}
		if l.SMS != "" {
			ways = append(ways, "text "+l.SMS)
		}
		ctx.Printf("%-32s %-6s %s\n", l.Name, l.Region, strings.Join(ways, ", "))
	}
	ctx.Println("\nIf you are in immediate danger, call your local emergency number.")
	return nil
}
