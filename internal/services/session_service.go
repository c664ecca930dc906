package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/cardroid/ruleta/internal/i18n"
	"github.com/cardroid/ruleta/internal/models"
	"github.com/cardroid/ruleta/pkg/ruletaapi"
	"github.com/google/uuid"
)

// PrizeAPI is the remote prize backend
type PrizeAPI interface {
	SpinConfig(ctx context.Context) (*models.WheelConfig, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisteredUser, error)
	Spin(ctx context.Context, plate string) (*models.SpinOutcome, error)
	Share(ctx context.Context, plate string) (*ruletaapi.ShareResult, error)
}

// Wheel is the animation widget driven by the session. done may be called
// from any goroutine, including before Animate returns.
type Wheel interface {
	Animate(ctx context.Context, stopAngle float64, done func(indicated models.Segment)) error
}

// WheelFactory builds the wheel widget from the loaded configuration
type WheelFactory func(cfg models.WheelConfig) (Wheel, error)

// PopupActionKind is one call to action of the prize popup
type PopupActionKind string

const (
	PopupActionRedeem PopupActionKind = "redeem"
	PopupActionShare  PopupActionKind = "share"
	PopupActionClose  PopupActionKind = "close"
)

// PopupAction is a button of the prize popup
type PopupAction struct {
	Kind  PopupActionKind
	Label string
}

// PopupView is what the prize popup shows
type PopupView struct {
	PrizeText string
	Winning   bool
	Hint      string
	Actions   []PopupAction
}

// Presenter is the user-facing surface of the session
type Presenter interface {
	// Notify shows a blocking notice.
	Notify(message string)
	ShowSpinScreen()
	SetTrigger(enabled bool, label string)
	ShowPrizePopup(view PopupView) error
	HidePrizePopup()
	RenderPrizes(entries []PrizeEntry, emptyMessage string) error
}

// Effects plays the audio and visual cues of a spin
type Effects interface {
	PlaySpinCue()
	PlayWinCue()
	Celebrate() error
}

// URLOpener opens an outbound link in a new browsing context
type URLOpener interface {
	OpenURL(url string) error
}

// SessionState is the lifecycle state of a spin session
type SessionState int

const (
	StateUnregistered SessionState = iota
	StateIdle
	StateSpinning
)

func (s SessionState) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateIdle:
		return "idle"
	case StateSpinning:
		return "spinning"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

type opClass int

const (
	opRegister opClass = iota
	opSpin
	opShare
	numOpClasses
)

type ticket struct {
	class opClass
	seq   uint64
	epoch uint64
}

// SessionDeps are the collaborators of a SessionService
type SessionDeps struct {
	API       PrizeAPI
	NewWheel  WheelFactory
	Presenter Presenter
	Effects   Effects
	Opener    URLOpener
	Countdown *CountdownBoard
	Tracker   Tracker
	Links     LinkBuilder
	Localizer *i18n.Localizer
	// Now is the session clock. When set it also drives Countdown.
	Now func() time.Time
}

// SessionService owns the state of one spin session and sequences the
// register, spin and share calls against the prize API.
type SessionService struct {
	api       PrizeAPI
	newWheel  WheelFactory
	ui        Presenter
	effects   Effects
	opener    URLOpener
	countdown *CountdownBoard
	tracker   Tracker
	links     LinkBuilder
	loc       *i18n.Localizer
	validator *RegistrationValidator
	now       func() time.Time
	sessionID string

	initMu sync.Mutex

	mu          sync.Mutex
	state       models.UserState
	wheel       Wheel
	wheelConfig *models.WheelConfig
	spinning    bool
	spinTicket  ticket
	latest      [numOpClasses]uint64
	epoch       uint64
}

// NewSessionService creates a session in the unregistered state
func NewSessionService(deps SessionDeps) *SessionService {
	loc := deps.Localizer
	if loc == nil {
		loc = i18n.New("")
	}
	tracker := deps.Tracker
	if tracker == nil {
		tracker = nopTracker{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	} else if deps.Countdown != nil {
		deps.Countdown.setClock(now)
	}
	return &SessionService{
		api:       deps.API,
		newWheel:  deps.NewWheel,
		ui:        deps.Presenter,
		effects:   deps.Effects,
		opener:    deps.Opener,
		countdown: deps.Countdown,
		tracker:   tracker,
		links:     deps.Links,
		loc:       loc,
		validator: NewRegistrationValidator(loc),
		now:       now,
		sessionID: uuid.NewString(),
		state:     models.UserState{Prizes: []models.Prize{}},
	}
}

// SessionID identifies this session in tracking events
func (s *SessionService) SessionID() string {
	return s.sessionID
}

// Snapshot returns a copy of the user state
func (s *SessionService) Snapshot() models.UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// State returns the lifecycle state
func (s *SessionService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.spinning:
		return StateSpinning
	case !s.state.Registered():
		return StateUnregistered
	default:
		return StateIdle
	}
}

// begin issues a ticket for class. Caller holds s.mu.
func (s *SessionService) begin(class opClass) ticket {
	s.latest[class]++
	return ticket{class: class, seq: s.latest[class], epoch: s.epoch}
}

// current reports whether t is still the newest request of its class in this
// epoch. Caller holds s.mu.
func (s *SessionService) current(t ticket) bool {
	return s.latest[t.class] == t.seq && s.epoch == t.epoch
}

// LoadWheelConfiguration fetches the segment layout and builds the wheel. The
// wheel is built once; later calls return the loaded configuration.
func (s *SessionService) LoadWheelConfiguration(ctx context.Context) (*models.WheelConfig, error) {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.mu.Lock()
	if s.wheelConfig != nil {
		cfg := s.wheelConfig
		s.mu.Unlock()
		return cfg, nil
	}
	s.mu.Unlock()

	log.Println("[LoadWheelConfiguration] Requesting spin configuration")
	cfg, err := s.api.SpinConfig(ctx)
	if err != nil {
		log.Printf("[LoadWheelConfiguration] Error: %v", err)
		s.ui.Notify(s.loc.T(i18n.WheelConfigFailed))
		return nil, fmt.Errorf("load wheel configuration: %w", err)
	}

	w, err := s.newWheel(*cfg)
	if err != nil {
		log.Printf("[LoadWheelConfiguration] Error building wheel: %v", err)
		s.ui.Notify(s.loc.T(i18n.WheelConfigFailed))
		return nil, fmt.Errorf("build wheel: %w", err)
	}

	s.mu.Lock()
	s.wheel = w
	s.wheelConfig = cfg
	s.mu.Unlock()
	log.Printf("[LoadWheelConfiguration] Wheel initialized with %d segments", len(cfg.Segments))

	s.refreshTrigger()
	return cfg, nil
}

// Register validates the form, registers the player and replaces the user state
// with the server's record.
func (s *SessionService) Register(ctx context.Context, plate, email, phone string) (models.UserState, error) {
	req, err := s.validator.Validate(plate, email, phone)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			s.ui.Notify(vErr.Message)
		} else {
			s.ui.Notify(s.loc.T(i18n.RegisterFailed, err.Error()))
		}
		return s.Snapshot(), err
	}

	s.mu.Lock()
	t := s.begin(opRegister)
	s.mu.Unlock()

	user, err := s.api.Register(ctx, req)

	s.mu.Lock()
	if !s.current(t) {
		s.mu.Unlock()
		log.Printf("[Register] Discarding superseded response for %s", req.Plate)
		return s.Snapshot(), ErrStaleResponse
	}
	if err != nil {
		s.mu.Unlock()
		log.Printf("[Register] Error: %v", err)
		s.ui.Notify(s.loc.T(i18n.RegisterFailed, s.apiMessage(err, i18n.RegisterFallback)))
		return s.Snapshot(), fmt.Errorf("register: %w", err)
	}
	prizes := user.Prizes
	if prizes == nil {
		prizes = []models.Prize{}
	}
	s.state = models.UserState{
		SpinsAvailable: *user.SpinsAvailable,
		Prizes:         prizes,
		Plate:          req.Plate,
		Email:          req.Email,
		Phone:          req.Phone,
	}
	// Responses to spin and share requests issued before this registration
	// belong to the previous identity.
	s.epoch++
	snapshot := s.state.Clone()
	s.mu.Unlock()

	log.Printf("[Register] Player %s registered with %d spins", snapshot.Plate, snapshot.SpinsAvailable)
	s.ui.ShowSpinScreen()
	s.refreshTrigger()
	s.renderPrizes(snapshot.Prizes)
	s.track(ctx, models.TrackingRegister, snapshot, "", "")
	return snapshot, nil
}

// Spin requests a spin and starts the wheel animation toward the server's stop
// angle. A spin requested while another is in flight is rejected.
func (s *SessionService) Spin(ctx context.Context) (*models.SpinOutcome, error) {
	s.mu.Lock()
	switch {
	case s.wheel == nil:
		s.mu.Unlock()
		s.ui.Notify(s.loc.T(i18n.WheelNotReady))
		return nil, &EnvironmentError{Component: "wheel"}
	case !s.state.Registered():
		s.mu.Unlock()
		s.ui.Notify(s.loc.T(i18n.NotRegistered))
		return nil, ErrNotRegistered
	case s.state.SpinsAvailable <= 0:
		s.mu.Unlock()
		s.ui.Notify(s.loc.T(i18n.SpinNoSpins))
		return nil, ErrNoSpins
	case s.spinning:
		s.mu.Unlock()
		s.ui.Notify(s.loc.T(i18n.SpinInFlight))
		return nil, ErrSpinInFlight
	}
	s.spinning = true
	t := s.begin(opSpin)
	s.spinTicket = t
	plate := s.state.Plate
	w := s.wheel
	s.mu.Unlock()

	s.ui.SetTrigger(false, s.triggerLabel(s.Snapshot().SpinsAvailable))
	log.Printf("[Spin] Starting spin for %s", plate)

	outcome, err := s.api.Spin(ctx, plate)
	if err == nil {
		err = validateStopAngle(outcome.StopAngle)
	}

	s.mu.Lock()
	if !s.current(t) {
		s.releaseSpin(t)
		s.mu.Unlock()
		log.Printf("[Spin] Discarding superseded spin response for %s", plate)
		s.refreshTrigger()
		return nil, ErrStaleResponse
	}
	if err != nil {
		s.releaseSpin(t)
		snapshot := s.state.Clone()
		s.mu.Unlock()
		return nil, s.failSpin(ctx, snapshot, err)
	}
	prizes := outcome.Prizes
	if prizes == nil {
		prizes = []models.Prize{}
	}
	previous := s.state.Clone()
	s.state.SpinsAvailable = outcome.SpinsAvailable
	s.state.Prizes = prizes
	s.state.SelectedPrize = outcome.PrizeText
	snapshot := s.state.Clone()
	s.mu.Unlock()

	log.Printf("[Spin] Server prize %q, stop angle %v, spins left %d", outcome.PrizeText, outcome.StopAngle, outcome.SpinsAvailable)
	s.refreshTrigger()
	s.renderPrizes(snapshot.Prizes)
	if s.effects != nil {
		s.effects.PlaySpinCue()
	}

	// s.mu must not be held here: a wheel may report completion before Animate returns.
	if err := w.Animate(ctx, outcome.StopAngle, func(indicated models.Segment) {
		s.completeSpin(t, indicated)
	}); err != nil {
		s.mu.Lock()
		if s.releaseSpin(t) && s.epoch == t.epoch {
			// A share granted meanwhile keeps its count.
			if s.state.SpinsAvailable == outcome.SpinsAvailable {
				s.state.SpinsAvailable = previous.SpinsAvailable
			}
			s.state.Prizes = previous.Prizes
			s.state.SelectedPrize = previous.SelectedPrize
		}
		snapshot := s.state.Clone()
		s.mu.Unlock()
		s.renderPrizes(snapshot.Prizes)
		return nil, s.failSpin(ctx, snapshot, fmt.Errorf("start animation: %w", err))
	}

	s.track(ctx, models.TrackingSpin, snapshot, outcome.PrizeText, "")
	return outcome, nil
}

// releaseSpin clears the spinning flag if t is the in-flight spin. Caller holds s.mu.
func (s *SessionService) releaseSpin(t ticket) bool {
	if s.spinning && s.spinTicket == t {
		s.spinning = false
		return true
	}
	return false
}

func (s *SessionService) failSpin(ctx context.Context, snapshot models.UserState, err error) error {
	log.Printf("[Spin] Error: %v", err)
	s.refreshTrigger()

	var protoErr *ruletaapi.ProtocolError
	var apiErr *ruletaapi.APIError
	var msg string
	switch {
	case errors.As(err, &protoErr):
		msg = s.loc.T(i18n.SpinAngleOutRange)
	case errors.As(err, &apiErr) && apiErr.Malformed:
		msg = s.loc.T(i18n.SpinInvalidData)
	case errors.As(err, &apiErr):
		msg = s.apiMessage(err, i18n.SpinUnknownError)
	default:
		msg = err.Error()
	}
	s.ui.Notify(s.loc.T(i18n.SpinFailed, msg))
	s.track(ctx, models.TrackingSpinFailed, snapshot, "", err.Error())
	return fmt.Errorf("spin: %w", err)
}

func validateStopAngle(angle float64) error {
	if math.IsNaN(angle) || angle < 0 || angle >= 360 {
		return &ruletaapi.ProtocolError{Op: ruletaapi.OpSpin, Reason: fmt.Sprintf("stop angle %v outside [0, 360)", angle)}
	}
	return nil
}

// completeSpin is the continuation of the animation started for t. The prize
// shown is the one recorded from the server, not the segment the wheel indicates.
func (s *SessionService) completeSpin(t ticket, indicated models.Segment) {
	defer func() {
		s.mu.Lock()
		s.releaseSpin(t)
		s.mu.Unlock()
		s.refreshTrigger()
	}()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[completeSpin] Recovered: %v", r)
			s.ui.Notify(s.loc.T(i18n.ResultFailed, fmt.Sprint(r)))
		}
	}()

	s.mu.Lock()
	if !s.spinning || s.spinTicket != t {
		s.mu.Unlock()
		log.Println("[completeSpin] Ignoring completion of a spin that is not in flight")
		return
	}
	if s.epoch != t.epoch {
		s.mu.Unlock()
		log.Println("[completeSpin] Session re-registered during animation, skipping result")
		return
	}
	prizeText := strings.TrimSpace(s.state.SelectedPrize)
	prizes := s.state.Clone().Prizes
	s.mu.Unlock()

	log.Printf("[completeSpin] Animation settled on %q, server prize %q", indicated.Text, prizeText)
	if s.effects != nil {
		s.effects.PlayWinCue()
	}

	if err := s.ui.ShowPrizePopup(s.popupView(prizeText)); err != nil {
		log.Printf("[completeSpin] Popup error: %v", err)
		s.ui.Notify(s.loc.T(i18n.ResultFailed, err.Error()))
		return
	}
	s.renderPrizes(prizes)

	if !IsNonWinning(prizeText) && s.effects != nil {
		if err := s.effects.Celebrate(); err != nil {
			log.Printf("[completeSpin] Celebration error: %v", err)
		}
	}
}

func (s *SessionService) popupView(prizeText string) PopupView {
	if IsNonWinning(prizeText) {
		return PopupView{
			PrizeText: prizeText,
			Hint:      s.loc.T(i18n.PopupShareHint),
			Actions: []PopupAction{
				{Kind: PopupActionShare, Label: s.loc.T(i18n.PopupShare)},
				{Kind: PopupActionClose, Label: s.loc.T(i18n.PopupClose)},
			},
		}
	}
	return PopupView{
		PrizeText: prizeText,
		Winning:   true,
		Actions: []PopupAction{
			{Kind: PopupActionRedeem, Label: s.loc.T(i18n.PopupRedeem)},
			{Kind: PopupActionClose, Label: s.loc.T(i18n.PopupClose)},
		},
	}
}

// ChoosePopupAction routes a popup button to its operation
func (s *SessionService) ChoosePopupAction(ctx context.Context, kind PopupActionKind) error {
	switch kind {
	case PopupActionRedeem:
		s.Redeem(ctx, strings.TrimSpace(s.Snapshot().SelectedPrize))
		return nil
	case PopupActionShare:
		s.ui.HidePrizePopup()
		_, err := s.ShareForBonus(ctx)
		return err
	case PopupActionClose:
		s.ui.HidePrizePopup()
		return nil
	default:
		return fmt.Errorf("unknown popup action %q", kind)
	}
}

// ShareForBonus opens the share dialog and asks the server for the share bonus
func (s *SessionService) ShareForBonus(ctx context.Context) (models.UserState, error) {
	s.mu.Lock()
	if !s.state.Registered() {
		s.mu.Unlock()
		s.ui.Notify(s.loc.T(i18n.NotRegistered))
		return s.Snapshot(), ErrNotRegistered
	}
	plate := s.state.Plate
	t := s.begin(opShare)
	s.mu.Unlock()

	shareURL := s.links.ShareURL()
	go func() {
		if err := s.opener.OpenURL(shareURL); err != nil {
			log.Printf("[ShareForBonus] Failed to open share dialog: %v", err)
		}
	}()

	res, err := s.api.Share(ctx, plate)

	s.mu.Lock()
	if !s.current(t) {
		s.mu.Unlock()
		log.Printf("[ShareForBonus] Discarding superseded share response for %s", plate)
		return s.Snapshot(), ErrStaleResponse
	}
	if err != nil {
		s.mu.Unlock()
		log.Printf("[ShareForBonus] Error: %v", err)
		var apiErr *ruletaapi.APIError
		if errors.As(err, &apiErr) {
			s.ui.Notify(s.apiMessage(err, i18n.ShareFallback))
		} else {
			s.ui.Notify(s.loc.T(i18n.ShareFailed))
		}
		return s.Snapshot(), fmt.Errorf("share: %w", err)
	}
	s.state.SpinsAvailable = res.SpinsAvailable
	snapshot := s.state.Clone()
	s.mu.Unlock()

	log.Printf("[ShareForBonus] Spins updated to %d", snapshot.SpinsAvailable)
	s.refreshTrigger()
	if res.Message != "" {
		s.ui.Notify(res.Message)
	}
	s.track(ctx, models.TrackingShare, snapshot, "", "")
	return snapshot, nil
}

// Redeem opens the prefilled messaging link for prizeText
func (s *SessionService) Redeem(ctx context.Context, prizeText string) {
	snapshot := s.Snapshot()
	link := s.links.RedeemURL(snapshot.Plate, prizeText)
	if err := s.opener.OpenURL(link); err != nil {
		log.Printf("[Redeem] Failed to open %s: %v", link, err)
	}
	s.ui.HidePrizePopup()
	s.track(ctx, models.TrackingRedeem, snapshot, prizeText, "")
}

func (s *SessionService) triggerLabel(spins int) string {
	if spins > 0 {
		return s.loc.T(i18n.TriggerEnabled, spins)
	}
	return s.loc.T(i18n.TriggerDisabled)
}

// refreshTrigger enables the spin trigger iff spins remain and no spin is in flight.
func (s *SessionService) refreshTrigger() {
	s.mu.Lock()
	spins := s.state.SpinsAvailable
	enabled := spins > 0 && !s.spinning
	s.mu.Unlock()
	s.ui.SetTrigger(enabled, s.triggerLabel(spins))
}

func (s *SessionService) renderPrizes(prizes []models.Prize) {
	entries := BuildPrizeEntries(prizes, s.now())
	if err := s.ui.RenderPrizes(entries, s.loc.T(i18n.PrizesEmpty)); err != nil {
		log.Printf("[renderPrizes] Error: %v", err)
	}
	if s.countdown != nil {
		visible := make([]models.Prize, len(entries))
		for i, e := range entries {
			visible[i] = e.Prize
		}
		s.countdown.Render(visible)
	}
}

// apiMessage returns the server message of err, a generic notice for malformed
// bodies, or the localized fallback.
func (s *SessionService) apiMessage(err error, fallbackKey string) string {
	var apiErr *ruletaapi.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Message != "":
			return apiErr.Message
		case apiErr.Malformed:
			return s.loc.T(i18n.UnexpectedResponse)
		}
	}
	return s.loc.T(fallbackKey)
}

func (s *SessionService) track(ctx context.Context, kind models.TrackingKind, state models.UserState, prize, detail string) {
	s.tracker.Track(ctx, models.TrackingEvent{
		SessionID:      s.sessionID,
		Kind:           kind,
		Plate:          state.Plate,
		Prize:          prize,
		SpinsAvailable: state.SpinsAvailable,
		Detail:         detail,
		At:             s.now(),
	})
}

// History returns the newest tracked events of this session
func (s *SessionService) History(ctx context.Context, limit int) ([]*models.TrackingEvent, error) {
	h, ok := s.tracker.(EventHistory)
	if !ok {
		return nil, ErrHistoryUnavailable
	}
	return h.History(ctx, s.sessionID, limit)
}

// Close stops the session's background tasks
func (s *SessionService) Close() {
	if s.countdown != nil {
		s.countdown.Stop()
	}
}
