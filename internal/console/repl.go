package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/cardroid/ruleta/internal/i18n"
	"github.com/cardroid/ruleta/internal/models"
	"github.com/cardroid/ruleta/internal/services"
)

// Session is the controller driven by the command loop
type Session interface {
	Register(ctx context.Context, plate, email, phone string) (models.UserState, error)
	Spin(ctx context.Context) (*models.SpinOutcome, error)
	ShareForBonus(ctx context.Context) (models.UserState, error)
	Redeem(ctx context.Context, prizeText string)
	ChoosePopupAction(ctx context.Context, kind services.PopupActionKind) error
	History(ctx context.Context, limit int) ([]*models.TrackingEvent, error)
}

// historyLimit is how many events the history command shows
const historyLimit = 20

var commandAliases = map[string]string{
	"register":  "register",
	"registro":  "register",
	"spin":      "spin",
	"girar":     "spin",
	"share":     "share",
	"compartir": "share",
	"redeem":    "redeem",
	"canjear":   "redeem",
	"prizes":    "prizes",
	"premios":   "prizes",
	"history":   "history",
	"historial": "history",
	"choose":    "choose",
	"elegir":    "choose",
	"help":      "help",
	"ayuda":     "help",
	"quit":      "quit",
	"exit":      "quit",
	"salir":     "quit",
}

var popupAliases = map[string]services.PopupActionKind{
	"redeem":    services.PopupActionRedeem,
	"canjear":   services.PopupActionRedeem,
	"share":     services.PopupActionShare,
	"compartir": services.PopupActionShare,
	"close":     services.PopupActionClose,
	"cerrar":    services.PopupActionClose,
}

// Run reads commands from in until it is exhausted, a quit command is read or
// ctx is cancelled. Session errors are already reported to the user by the
// session and are only logged here.
func (c *Console) Run(ctx context.Context, in io.Reader, session Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.mu.Lock()
	c.printf("%s", c.loc.T(i18n.ConsoleHelp))
	c.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if quit := c.execute(ctx, line, session); quit {
				return nil
			}
		}
	}
}

// execute runs one command line and reports whether the loop should stop.
func (c *Console) execute(ctx context.Context, line string, session Session) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	command, ok := commandAliases[strings.ToLower(fields[0])]
	if !ok {
		c.Notify(c.loc.T(i18n.ConsoleUnknown, fields[0]))
		return false
	}
	args := fields[1:]

	var err error
	switch command {
	case "register":
		if len(args) != 3 {
			c.Notify(c.loc.T(i18n.ConsoleRegisterUsage))
			return false
		}
		_, err = session.Register(ctx, args[0], args[1], args[2])
	case "spin":
		_, err = session.Spin(ctx)
	case "share":
		_, err = session.ShareForBonus(ctx)
	case "redeem":
		err = c.redeem(ctx, args, session)
	case "prizes":
		c.PrintPrizes()
	case "history":
		err = c.history(ctx, session)
	case "choose":
		err = c.choose(ctx, args, session)
	case "help":
		c.Notify(c.loc.T(i18n.ConsoleHelp))
	case "quit":
		return true
	}
	if err != nil && !errors.Is(err, services.ErrStaleResponse) {
		log.Printf("[console] %s: %v", command, err)
	}
	return false
}

func (c *Console) redeem(ctx context.Context, args []string, session Session) error {
	if len(args) != 1 {
		c.Notify(c.loc.T(i18n.ConsoleRedeemPrompt))
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		c.Notify(c.loc.T(i18n.ConsoleRedeemPrompt))
		return nil
	}
	entry, ok := c.Entry(n)
	if !ok || entry.Action != services.PrizeActionRedeem {
		c.Notify(c.loc.T(i18n.ConsoleRedeemPrompt))
		return nil
	}
	session.Redeem(ctx, entry.Prize.Text)
	return nil
}

func (c *Console) history(ctx context.Context, session Session) error {
	events, err := session.History(ctx, historyLimit)
	switch {
	case errors.Is(err, services.ErrHistoryUnavailable):
		c.Notify(c.loc.T(i18n.HistoryUnavailable))
		return nil
	case err != nil:
		c.Notify(c.loc.T(i18n.HistoryFailed))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(events) == 0 {
		c.printf("  %s", c.loc.T(i18n.HistoryEmpty))
		return nil
	}
	for _, e := range events {
		c.printf("  %s", c.loc.T(i18n.HistoryEntry, e.At.Local().Format("15:04:05"), e.Kind, e.Prize, e.SpinsAvailable))
	}
	return nil
}

func (c *Console) choose(ctx context.Context, args []string, session Session) error {
	view, ok := c.Popup()
	if !ok {
		c.Notify(c.loc.T(i18n.ConsoleNoPopup))
		return nil
	}
	if len(args) != 1 {
		c.Notify(c.loc.T(i18n.ConsoleHelp))
		return nil
	}
	kind, ok := popupAliases[strings.ToLower(args[0])]
	if !ok || !offers(view, kind) {
		c.Notify(c.loc.T(i18n.ConsoleUnknown, args[0]))
		return nil
	}
	return session.ChoosePopupAction(ctx, kind)
}

func offers(view services.PopupView, kind services.PopupActionKind) bool {
	for _, a := range view.Actions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}
