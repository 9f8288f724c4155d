package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/steady/internal/cli"
	"github.com/julianstephens/steady/internal/constants"
	journalsvc "github.com/julianstephens/steady/internal/journal"
	"github.com/julianstephens/steady/internal/models"
	"github.com/julianstephens/steady/internal/storage"
)

type JournalCmd struct {
	Reframe struct {
		Add    ReframeAddCmd    `cmd:"" help:"Record a thought reframe."`
		List   ReframeListCmd   `cmd:"" help:"List reframes."`
		Show   ReframeShowCmd   `cmd:"" help:"Show one reframe."`
		Delete ReframeDeleteCmd `cmd:"" help:"Delete a reframe."`
	} `cmd:"" help:"Challenge automatic thoughts."`
	Worry struct {
		Add     WorryAddCmd     `cmd:"" help:"Park a worry."`
		List    WorryListCmd    `cmd:"" help:"List worries."`
		Resolve WorryResolveCmd `cmd:"" help:"Mark a worry resolved."`
		Delete  WorryDeleteCmd  `cmd:"" help:"Delete a worry."`
	} `cmd:"" help:"Park and resolve worries."`
	Win struct {
		Add    WinAddCmd    `cmd:"" help:"Record a micro-win."`
		List   WinListCmd   `cmd:"" help:"List micro-wins."`
		Delete WinDeleteCmd `cmd:"" help:"Delete a micro-win."`
	} `cmd:"" help:"Celebrate small wins."`
	Encrypt struct {
		On     EncryptOnCmd     `cmd:"" help:"Encrypt new journal entries with a passphrase."`
		Off    EncryptOffCmd    `cmd:"" help:"Stop encrypting new journal entries."`
		Status EncryptStatusCmd `cmd:"" help:"Show journal encryption status." default:"1"`
	} `cmd:"" help:"Manage journal encryption."`
}

// ParseDistortions accepts a comma-separated list of distortion names.
// Hyphens and spaces are treated as underscores.
func ParseDistortions(s string) ([]models.Distortion, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	known := make(map[models.Distortion]bool)
	for _, d := range models.Distortions() {
		known[d] = true
	}
	var out []models.Distortion
	for _, part := range strings.Split(s, ",") {
		name := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(part)))
		d := models.Distortion(name)
		if !known[d] {
			return nil, fmt.Errorf("unknown distortion %q (see 'steady journal reframe add --help')", part)
		}
		out = append(out, d)
	}
	return out, nil
}

// DistortionNames lists the accepted distortion names for help text.
func DistortionNames() string {
	names := make([]string, 0, len(models.Distortions()))
	for _, d := range models.Distortions() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

// since converts a --days flag to a lower bound. Zero means no bound.
func since(ctx *cli.Context, days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return ctx.Clock()().AddDate(0, 0, -days)
}

func when(t time.Time) string {
	return t.Local().Format(constants.DateFormat + " " + constants.TimeFormat)
}

func locked(err error) error {
	if errors.Is(err, journalsvc.ErrLocked) {
		return fmt.Errorf("%w (run 'steady journal encrypt on' to store it again)", err)
	}
	return err
}

type ReframeAddCmd struct {
	Situation   string `help:"What happened." required:""`
	Thought     string `help:"The automatic thought." required:""`
	Distortions string `help:"Comma-separated distortions: ${distortions}."`
	Balanced    string `help:"A more balanced thought." required:""`
	Before      int    `help:"Emotional intensity before (1-10)." required:""`
	After       int    `help:"Emotional intensity after (1-10, 0 to skip)."`
}

func (c *ReframeAddCmd) Run(ctx *cli.Context) error {
	distortions, err := ParseDistortions(c.Distortions)
	if err != nil {
		return err
	}
	entry, err := ctx.Journal().AddReframe(journalsvc.NewReframe{
		Situation:        c.Situation,
		AutomaticThought: c.Thought,
		Distortions:      distortions,
		BalancedThought:  c.Balanced,
		IntensityBefore:  c.Before,
		IntensityAfter:   c.After,
	})
	if err != nil {
		return locked(err)
	}
	ctx.Printf("✓ Saved reframe %s", cli.ShortID(entry.ID))
	if entry.IntensityAfter > 0 {
		ctx.Printf(" (intensity %d → %d)", entry.IntensityBefore, entry.IntensityAfter)
	}
	ctx.Println()
	return nil
}

type ReframeListCmd struct {
	Limit int `help:"Maximum entries to show." default:"20"`
	Days  int `help:"Only show entries from the last N days (0 for all)."`
}

func (c *ReframeListCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Journal().ListReframes(c.Limit, since(ctx, c.Days))
	if err != nil {
		return locked(err)
	}
	if len(entries) == 0 {
		ctx.Println("No reframes yet.")
		return nil
	}
	for _, e := range entries {
		ctx.Printf("%s  %s  %s\n", cli.ShortID(e.ID), when(e.CreatedAt), e.AutomaticThought)
		ctx.Printf("          → %s\n", e.BalancedThought)
	}
	return nil
}

func reframeID(ctx *cli.Context, ref string) (string, error) {
	all, err := ctx.Store.ListReframes(storage.JournalQuery{})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID
	}
	return cli.MatchID("reframe", ref, ids)
}

type ReframeShowCmd struct {
	ID string `arg:"" help:"Reframe ID or unique prefix."`
}

func (c *ReframeShowCmd) Run(ctx *cli.Context) error {
	id, err := reframeID(ctx, c.ID)
	if err != nil {
		return err
	}
	e, err := ctx.Journal().GetReframe(id)
	if err != nil {
		return locked(err)
	}
	ctx.Printf("Recorded:    %s\n", when(e.CreatedAt))
	ctx.Printf("Situation:   %s\n", e.Situation)
	ctx.Printf("Thought:     %s\n", e.AutomaticThought)
	if len(e.Distortions) > 0 {
		names := make([]string, len(e.Distortions))
		for i, d := range e.Distortions {
			names[i] = string(d)
		}
		ctx.Printf("Distortions: %s\n", strings.Join(names, ", "))
	}
	ctx.Printf("Balanced:    %s\n", e.BalancedThought)
	ctx.Printf("Intensity:   %d", e.IntensityBefore)
	if e.IntensityAfter > 0 {
		ctx.Printf(" → %d", e.IntensityAfter)
	}
	ctx.Println()
	return nil
}

type ReframeDeleteCmd struct {
	ID  string `arg:"" help:"Reframe ID or unique prefix."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ReframeDeleteCmd) Run(ctx *cli.Context) error {
	id, err := reframeID(ctx, c.ID)
	if err != nil {
		return err
	}
	ok, err := ctx.AskConfirm("Delete reframe "+cli.ShortID(id)+"?", c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Journal().DeleteReframe(id); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted reframe %s\n", cli.ShortID(id))
	return nil
}

type WorryAddCmd struct {
	Worry        string `arg:"" help:"What you are worried about."`
	Category     string `help:"One of: health, work, relationships, finances, future, other." default:"other"`
	Controllable bool   `help:"Whether this is within your control."`
	Action       string `help:"A next step, if controllable."`
	Intensity    int    `help:"How intense the worry feels (1-10)." default:"5"`
}

func (c *WorryAddCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Journal().AddWorry(journalsvc.NewWorry{
		Worry:        c.Worry,
		Category:     models.WorryCategory(strings.ToLower(strings.TrimSpace(c.Category))),
		Controllable: c.Controllable,
		ActionStep:   c.Action,
		Intensity:    c.Intensity,
	})
	if err != nil {
		return locked(err)
	}
	ctx.Printf("✓ Parked worry %s (%s)\n", cli.ShortID(entry.ID), entry.Category)
	if !entry.Controllable {
		ctx.Println("  This one is outside your control. Notice it, then let it rest.")
	}
	return nil
}

type WorryListCmd struct {
	All   bool `help:"Include resolved worries." short:"a"`
	Limit int  `help:"Maximum entries to show." default:"20"`
	Days  int  `help:"Only show entries from the last N days (0 for all)."`
}

func (c *WorryListCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Journal().ListWorries(c.Limit, since(ctx, c.Days), c.All)
	if err != nil {
		return locked(err)
	}
	if len(entries) == 0 {
		ctx.Println("No open worries.")
		return nil
	}
	for _, e := range entries {
		mark := "[ ]"
		if e.Resolved {
			mark = "[✓]"
		}
		ctx.Printf("%s %s  %-13s %2d/10  %s\n", mark, cli.ShortID(e.ID), e.Category, e.Intensity, e.Worry)
		if e.ActionStep != "" {
			ctx.Printf("                    next: %s\n", e.ActionStep)
		}
	}
	return nil
}

func worryID(ctx *cli.Context, ref string) (string, error) {
	all, err := ctx.Store.ListWorries(storage.JournalQuery{}, true)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID
	}
	return cli.MatchID("worry", ref, ids)
}

type WorryResolveCmd struct {
	ID string `arg:"" help:"Worry ID or unique prefix."`
}

func (c *WorryResolveCmd) Run(ctx *cli.Context) error {
	id, err := worryID(ctx, c.ID)
	if err != nil {
		return err
	}
	if _, err := ctx.Journal().ResolveWorry(id); err != nil {
		return locked(err)
	}
	ctx.Printf("✓ Resolved worry %s\n", cli.ShortID(id))
	return nil
}

type WorryDeleteCmd struct {
	ID  string `arg:"" help:"Worry ID or unique prefix."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *WorryDeleteCmd) Run(ctx *cli.Context) error {
	id, err := worryID(ctx, c.ID)
	if err != nil {
		return err
	}
	ok, err := ctx.AskConfirm("Delete worry "+cli.ShortID(id)+"?", c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Journal().DeleteWorry(id); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted worry %s\n", cli.ShortID(id))
	return nil
}

type WinAddCmd struct {
	Description string `arg:"" help:"What went well."`
	Category    string `help:"One of: self_care, social, productivity, health, mindset, other." default:"other"`
}

func (c *WinAddCmd) Run(ctx *cli.Context) error {
	category := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c.Category)), "-", "_")
	win, err := ctx.Journal().AddMicroWin(c.Description, models.WinCategory(category))
	if err != nil {
		return locked(err)
	}
	ctx.Printf("✓ Nice! Saved win %s (%s)\n", cli.ShortID(win.ID), win.Category)
	return nil
}

type WinListCmd struct {
	Limit int `help:"Maximum entries to show." default:"20"`
	Days  int `help:"Only show entries from the last N days (0 for all)."`
}

func (c *WinListCmd) Run(ctx *cli.Context) error {
	wins, err := ctx.Journal().ListMicroWins(c.Limit, since(ctx, c.Days))
	if err != nil {
		return locked(err)
	}
	if len(wins) == 0 {
		ctx.Println("No wins recorded yet. Small ones count too.")
		return nil
	}
	for _, w := range wins {
		ctx.Printf("%s  %s  %-12s %s\n", cli.ShortID(w.ID), when(w.CreatedAt), w.Category, w.Description)
	}
	return nil
}

type WinDeleteCmd struct {
	ID  string `arg:"" help:"Win ID or unique prefix."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *WinDeleteCmd) Run(ctx *cli.Context) error {
	all, err := ctx.Store.ListMicroWins(storage.JournalQuery{})
	if err != nil {
		return err
	}
	ids := make([]string, len(all))
	for i, w := range all {
		ids[i] = w.ID
	}
	id, err := cli.MatchID("win", c.ID, ids)
	if err != nil {
		return err
	}
	ok, err := ctx.AskConfirm("Delete win "+cli.ShortID(id)+"?", c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Journal().DeleteMicroWin(id); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted win %s\n", cli.ShortID(id))
	return nil
}

type EncryptOnCmd struct{}

func (c *EncryptOnCmd) Run(ctx *cli.Context) error {
	phrase, err := ctx.AskSecret("Journal passphrase")
	if err != nil {
		return err
	}
	again, err := ctx.AskSecret("Repeat passphrase")
	if err != nil {
		return err
	}
	if phrase != again {
		return errors.New("passphrases do not match")
	}
	if err := ctx.Journal().EnableEncryption(phrase, nil); err != nil {
		return fmt.Errorf("failed to enable encryption: %w", err)
	}
	ctx.Println("✓ Journal encryption enabled. The passphrase is stored in your OS keyring.")
	ctx.Println("  Losing it means losing access to encrypted entries.")
	return nil
}

type EncryptOffCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *EncryptOffCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.AskConfirm("Store new journal entries unencrypted?", c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Journal().DisableEncryption(); err != nil {
		return err
	}
	ctx.Println("✓ Journal encryption disabled for new entries.")
	ctx.Println("  Existing encrypted entries stay readable while the passphrase is in the keyring.")
	return nil
}

type EncryptStatusCmd struct{}

func (c *EncryptStatusCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if settings.JournalEncryption {
		ctx.Println("Journal encryption: on")
	} else {
		ctx.Println("Journal encryption: off")
	}
	return nil
}
