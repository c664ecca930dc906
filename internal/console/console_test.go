package console

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cardroid/ruleta/internal/i18n"
	"github.com/cardroid/ruleta/internal/models"
	"github.com/cardroid/ruleta/internal/services"
)

type fakeSession struct {
	calls      []string
	redeemed   []string
	chosen     []services.PopupActionKind
	events     []*models.TrackingEvent
	historyErr error
}

func (f *fakeSession) History(_ context.Context, limit int) ([]*models.TrackingEvent, error) {
	f.calls = append(f.calls, "history "+strconv.Itoa(limit))
	return f.events, f.historyErr
}

func (f *fakeSession) Register(_ context.Context, plate, email, phone string) (models.UserState, error) {
	f.calls = append(f.calls, "register "+plate+" "+email+" "+phone)
	return models.UserState{}, nil
}

func (f *fakeSession) Spin(context.Context) (*models.SpinOutcome, error) {
	f.calls = append(f.calls, "spin")
	return nil, services.ErrNoSpins
}

func (f *fakeSession) ShareForBonus(context.Context) (models.UserState, error) {
	f.calls = append(f.calls, "share")
	return models.UserState{}, nil
}

func (f *fakeSession) Redeem(_ context.Context, prizeText string) {
	f.redeemed = append(f.redeemed, prizeText)
}

func (f *fakeSession) ChoosePopupAction(_ context.Context, kind services.PopupActionKind) error {
	f.chosen = append(f.chosen, kind)
	return nil
}

func newTestConsole() (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	return New(&out, i18n.New("es-PE"), ""), &out
}

func TestRunDispatchesCommands(t *testing.T) {
	c, out := newTestConsole()
	session := &fakeSession{}
	input := "registro ab12c3 a@b.pe 912345678\ngirar\n\nSHARE\nfoo\nregister only-one\nquit\nspin\n"

	if err := c.Run(context.Background(), strings.NewReader(input), session); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"register ab12c3 a@b.pe 912345678", "spin", "share"}
	if strings.Join(session.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %q, want %q", session.calls, want)
	}
	if !strings.Contains(out.String(), "Comando desconocido: foo") {
		t.Fatalf("output missing unknown notice:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Uso: registro") {
		t.Fatalf("output missing usage notice:\n%s", out.String())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _ := newTestConsole()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx, strings.NewReader(""), &fakeSession{}); err != nil && err != context.Canceled {
		t.Fatalf("Run = %v", err)
	}
}

func TestChooseRequiresOfferedAction(t *testing.T) {
	c, out := newTestConsole()
	session := &fakeSession{}
	ctx := context.Background()

	c.execute(ctx, "elegir canjear", session)
	if len(session.chosen) != 0 || !strings.Contains(out.String(), "No hay un premio en pantalla.") {
		t.Fatalf("choose without popup: chosen=%v", session.chosen)
	}

	view := services.PopupView{
		PrizeText: "Sigue Intentando",
		Actions:   []services.PopupAction{{Kind: services.PopupActionShare, Label: "Compartir"}, {Kind: services.PopupActionClose, Label: "Cerrar"}},
	}
	if err := c.ShowPrizePopup(view); err != nil {
		t.Fatalf("popup: %v", err)
	}
	c.execute(ctx, "choose redeem", session)
	c.execute(ctx, "choose compartir", session)
	if len(session.chosen) != 1 || session.chosen[0] != services.PopupActionShare {
		t.Fatalf("chosen = %v", session.chosen)
	}

	c.HidePrizePopup()
	if _, ok := c.Popup(); ok {
		t.Fatal("popup still visible after hide")
	}
}

func TestRedeemByListNumber(t *testing.T) {
	c, _ := newTestConsole()
	session := &fakeSession{}
	expiry := time.Now().Add(48 * time.Hour)
	entries := []services.PrizeEntry{
		{Prize: models.Prize{ID: "1", Text: "Sigue Intentando", Expiry: expiry}, Action: services.PrizeActionNone},
		{Prize: models.Prize{ID: "2", Text: "RADIO 100% GRATIS", Expiry: expiry}, Action: services.PrizeActionRedeem, Highlighted: true},
	}
	if err := c.RenderPrizes(entries, "vacío"); err != nil {
		t.Fatalf("render: %v", err)
	}

	c.execute(context.Background(), "canjear 1", session)
	c.execute(context.Background(), "canjear 9", session)
	c.execute(context.Background(), "canjear 2", session)
	if len(session.redeemed) != 1 || session.redeemed[0] != "RADIO 100% GRATIS" {
		t.Fatalf("redeemed = %v", session.redeemed)
	}
}

func TestRenderPrizes(t *testing.T) {
	c, out := newTestConsole()
	if err := c.RenderPrizes(nil, "No tienes premios."); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "No tienes premios.") {
		t.Fatalf("empty list output:\n%s", out.String())
	}

	out.Reset()
	expiry := time.Date(2026, 10, 20, 12, 0, 0, 0, time.Local)
	entries := []services.PrizeEntry{
		{Prize: models.Prize{ID: "a", Text: "RADIO 100% GRATIS", Expiry: expiry}, Action: services.PrizeActionRedeem, Highlighted: true},
		{Prize: models.Prize{ID: "b", Text: "Polo", Expiry: expiry, Claimed: true}, Action: services.PrizeActionRedeemed},
	}
	if err := c.RenderPrizes(entries, ""); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := out.String()
	for _, want := range []string{"1. *RADIO 100% GRATIS* - Expira el 20/10/2026 -> Canjear", "2. Polo - Expira el 20/10/2026 (Canjeado)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCountdownUpdates(t *testing.T) {
	c, out := newTestConsole()
	entries := []services.PrizeEntry{{Prize: models.Prize{ID: "a", Text: "Polo", Expiry: time.Now()}, Action: services.PrizeActionRedeem}}
	if err := c.RenderPrizes(entries, ""); err != nil {
		t.Fatalf("render: %v", err)
	}
	out.Reset()

	c.UpdateCountdown("a", "0d 2h 0m 0s", true)
	if out.Len() != 0 {
		t.Fatalf("running countdown printed: %q", out.String())
	}
	c.PrintPrizes()
	if !strings.Contains(out.String(), "[0d 2h 0m 0s !]") {
		t.Fatalf("prize list missing countdown:\n%s", out.String())
	}

	out.Reset()
	c.UpdateCountdown("a", "Expirado", false)
	c.UpdateCountdown("a", "Expirado", false)
	if strings.Count(out.String(), "Polo: Expirado") != 1 {
		t.Fatalf("expiry output:\n%s", out.String())
	}
}

func TestTriggerPrintsOnChange(t *testing.T) {
	c, out := newTestConsole()
	c.SetTrigger(true, "¡Girar la Ruleta! (3)")
	c.SetTrigger(true, "¡Girar la Ruleta! (3)")
	c.SetTrigger(false, "Sin giros disponibles")
	got := out.String()
	if strings.Count(got, "[ ¡Girar la Ruleta! (3) ]") != 1 || !strings.Contains(got, "( Sin giros disponibles )") {
		t.Fatalf("trigger output:\n%s", got)
	}
}

func TestOpenURLPrintsLink(t *testing.T) {
	c, out := newTestConsole()
	if err := c.OpenURL("https://wa.me/51932426069?text=hola"); err != nil {
		t.Fatalf("OpenURL: %v", err)
	}
	if !strings.Contains(out.String(), "https://wa.me/51932426069?text=hola") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestFrameLineIsTerminatedBeforeNextLine(t *testing.T) {
	c, out := newTestConsole()
	c.DrawFrame(12.5, models.Segment{Text: "Polo"})
	c.Notify("hola")
	if !strings.Contains(out.String(), "Polo") || !strings.Contains(out.String(), "\n! hola\n") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestHistoryCommand(t *testing.T) {
	c, out := newTestConsole()
	ctx := context.Background()

	c.execute(ctx, "historial", &fakeSession{historyErr: services.ErrHistoryUnavailable})
	if !strings.Contains(out.String(), "El historial requiere el registro de eventos activado.") {
		t.Fatalf("unavailable output:\n%s", out.String())
	}

	out.Reset()
	c.execute(ctx, "history", &fakeSession{})
	if !strings.Contains(out.String(), "Aún no hay actividad en esta sesión.") {
		t.Fatalf("empty output:\n%s", out.String())
	}

	out.Reset()
	at := time.Date(2026, 10, 14, 18, 30, 5, 0, time.Local)
	session := &fakeSession{events: []*models.TrackingEvent{
		{Kind: models.TrackingSpin, Prize: "Polo", SpinsAvailable: 2, At: at},
	}}
	c.execute(ctx, "history", session)
	if session.calls[0] != "history 20" {
		t.Fatalf("calls = %v", session.calls)
	}
	if !strings.Contains(out.String(), "18:30:05 spin Polo (giros: 2)") {
		t.Fatalf("history output:\n%s", out.String())
	}
}
