// Package console is the terminal surface of a spin session. It implements
// the presenter, effects, link opener, countdown sink and wheel renderer used
// by the session controller, and reads user commands from a line-oriented input.
package console

import (
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"

	"github.com/cardroid/ruleta/internal/i18n"
	"github.com/cardroid/ruleta/internal/models"
	"github.com/cardroid/ruleta/internal/services"
)

// Console writes the session UI to a terminal
type Console struct {
	out         io.Writer
	loc         *i18n.Localizer
	openCommand string

	mu         sync.Mutex
	trigger    string
	popup      *services.PopupView
	entries    []services.PrizeEntry
	countdowns map[string]countdownLine
	framing    bool
}

type countdownLine struct {
	text     string
	expiring bool
}

// New creates a console writing to out. openCommand, when set, is run with
// each outbound link as its only argument.
func New(out io.Writer, loc *i18n.Localizer, openCommand string) *Console {
	return &Console{
		out:         out,
		loc:         loc,
		openCommand: strings.TrimSpace(openCommand),
		countdowns:  map[string]countdownLine{},
	}
}

// printf writes a full line, ending any in-place frame line first. Callers hold c.mu.
func (c *Console) printf(format string, args ...any) {
	if c.framing {
		fmt.Fprintln(c.out)
		c.framing = false
	}
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Notify shows a notice
func (c *Console) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf("! %s", message)
}

// ShowSpinScreen replaces the registration prompt with the wheel screen
func (c *Console) ShowSpinScreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf("==== RULETA CARDROID ====")
}

// SetTrigger updates the spin affordance
func (c *Console) SetTrigger(enabled bool, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := "[ " + label + " ]"
	if !enabled {
		line = "( " + label + " )"
	}
	if line == c.trigger {
		return
	}
	c.trigger = line
	c.printf("%s", line)
}

// ShowPrizePopup prints the prize and its actions
func (c *Console) ShowPrizePopup(view services.PopupView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.popup = &view
	c.printf("+------------------------------")
	c.printf("| %s", view.PrizeText)
	if view.Hint != "" {
		c.printf("| %s", view.Hint)
	}
	labels := make([]string, 0, len(view.Actions))
	for _, a := range view.Actions {
		labels = append(labels, fmt.Sprintf("%s (%s)", a.Label, a.Kind))
	}
	c.printf("| %s", strings.Join(labels, "  "))
	c.printf("+------------------------------")
	return nil
}

// HidePrizePopup dismisses the popup
func (c *Console) HidePrizePopup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.popup = nil
}

// Popup returns the popup on screen, if any
func (c *Console) Popup() (services.PopupView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.popup == nil {
		return services.PopupView{}, false
	}
	return *c.popup, true
}

// RenderPrizes replaces the prize list
func (c *Console) RenderPrizes(entries []services.PrizeEntry, emptyMessage string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]services.PrizeEntry(nil), entries...)
	c.countdowns = map[string]countdownLine{}
	c.writePrizes(emptyMessage)
	return nil
}

// PrintPrizes prints the current prize list with the latest countdowns
func (c *Console) PrintPrizes() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writePrizes(c.loc.T(i18n.PrizesEmpty))
}

func (c *Console) writePrizes(emptyMessage string) {
	if len(c.entries) == 0 {
		c.printf("  %s", emptyMessage)
		return
	}
	for i, e := range c.entries {
		text := e.Prize.Text
		if e.Highlighted {
			text = "*" + text + "*"
		}
		line := fmt.Sprintf("  %d. %s", i+1, c.loc.T(i18n.PrizesEntry, text, e.Prize.Expiry.Local().Format("02/01/2006")))
		if cd, ok := c.countdowns[e.Prize.ID]; ok {
			mark := ""
			if cd.expiring {
				mark = " !"
			}
			line += " [" + cd.text + mark + "]"
		}
		switch e.Action {
		case services.PrizeActionRedeem:
			line += " -> " + c.loc.T(i18n.PopupRedeem)
		case services.PrizeActionRedeemed:
			line += " (" + c.loc.T(i18n.PrizesRedeemed) + ")"
		}
		c.printf("%s", line)
	}
}

// Entry returns the n-th (1-based) entry of the rendered prize list
func (c *Console) Entry(n int) (services.PrizeEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > len(c.entries) {
		return services.PrizeEntry{}, false
	}
	return c.entries[n-1], true
}

// UpdateCountdown records the countdown text of a rendered prize. Only the
// transition to expired is printed right away.
func (c *Console) UpdateCountdown(prizeID, text string, expiring bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, seen := c.countdowns[prizeID]
	c.countdowns[prizeID] = countdownLine{text: text, expiring: expiring}
	if text == c.loc.T(i18n.CountdownExpired) && (!seen || prev.text != text) {
		for _, e := range c.entries {
			if e.Prize.ID == prizeID {
				c.printf("  %s: %s", e.Prize.Text, text)
				break
			}
		}
	}
}

// DrawFrame redraws the wheel status line in place
func (c *Console) DrawFrame(rotation float64, indicated models.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "\r  >> %6.1f° %-30s", rotation, indicated.Text)
	c.framing = true
}

// PlaySpinCue announces the start of a spin
func (c *Console) PlaySpinCue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf("~ ~ ~")
}

// PlayWinCue announces the end of a spin
func (c *Console) PlayWinCue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf("* ding *")
}

// Celebrate prints the confetti burst
func (c *Console) Celebrate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf(" * . * . * . * . * . * ")
	return nil
}

// OpenURL prints link and launches it with the configured command
func (c *Console) OpenURL(link string) error {
	c.mu.Lock()
	c.printf("%s", c.loc.T(i18n.ConsoleOpenLink, link))
	command := c.openCommand
	c.mu.Unlock()

	if command == "" {
		return nil
	}
	cmd := exec.Command(command, link)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", command, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("[console] %s exited: %v", command, err)
		}
	}()
	return nil
}
