// Package i18n holds the user-facing copy of the spin client.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	WheelNotReady      = "wheel.not_ready"
	WheelConfigFailed  = "wheel.config_failed"
	SpinNoSpins        = "spin.no_spins"
	SpinInFlight       = "spin.in_flight"
	SpinFailed         = "spin.failed"
	SpinInvalidData    = "spin.invalid_data"
	SpinAngleOutRange  = "spin.angle_out_of_range"
	SpinUnknownError   = "spin.unknown_error"
	NotRegistered      = "session.not_registered"
	RegisterFailed     = "register.failed"
	RegisterFallback   = "register.fallback"
	ValidationPlate    = "validation.plate"
	ValidationPhone    = "validation.phone"
	ValidationEmail    = "validation.email"
	ShareFallback      = "share.fallback"
	ShareFailed        = "share.failed"
	ResultFailed       = "result.failed"
	TriggerEnabled     = "trigger.enabled"
	TriggerDisabled    = "trigger.disabled"
	PopupRedeem        = "popup.redeem"
	PopupClose         = "popup.close"
	PopupShareHint     = "popup.share_hint"
	PopupShare         = "popup.share"
	PrizesEmpty        = "prizes.empty"
	PrizesEntry        = "prizes.entry"
	PrizesRedeemed     = "prizes.redeemed"
	CountdownExpired   = "countdown.expired"
	UnexpectedResponse = "api.unexpected"

	ConsoleHelp          = "console.help"
	ConsoleUnknown       = "console.unknown"
	ConsoleRegisterUsage = "console.register_usage"
	ConsoleNoPopup       = "console.no_popup"
	ConsoleOpenLink      = "console.open_link"
	ConsoleRedeemPrompt  = "console.redeem_prompt"
	HistoryEmpty         = "history.empty"
	HistoryUnavailable   = "history.unavailable"
	HistoryFailed        = "history.failed"
	HistoryEntry         = "history.entry"
)

var spanish = map[string]string{
	WheelNotReady:      "La ruleta no está lista. Intenta nuevamente.",
	WheelConfigFailed:  "Hubo un problema al cargar la configuración de la ruleta. Intenta nuevamente más tarde.",
	SpinNoSpins:        "No tienes giros disponibles.",
	SpinInFlight:       "La ruleta ya está girando. Por favor, espera.",
	SpinFailed:         "Hubo un problema: %s",
	SpinInvalidData:    "Datos de giro inválidos.",
	SpinAngleOutRange:  "stopAngle recibido está fuera de rango.",
	SpinUnknownError:   "Error desconocido.",
	NotRegistered:      "Primero debes registrarte.",
	RegisterFailed:     "Hubo un problema al registrar: %s",
	RegisterFallback:   "Error en el registro.",
	ValidationPlate:    "La placa debe tener 6 caracteres alfanuméricos.",
	ValidationPhone:    "El teléfono debe tener 9 dígitos.",
	ValidationEmail:    "El correo electrónico es obligatorio.",
	ShareFallback:      "No se pudo añadir giros adicionales.",
	ShareFailed:        "Hubo un problema al procesar tu solicitud. Intenta nuevamente más tarde.",
	ResultFailed:       "Hubo un problema al procesar el premio: %s",
	TriggerEnabled:     "¡Girar la Ruleta! (%d)",
	TriggerDisabled:    "Sin giros disponibles",
	PopupRedeem:        "Canjear",
	PopupClose:         "Cerrar",
	PopupShareHint:     "Comparte en Facebook para obtener giros adicionales.",
	PopupShare:         "Compartir en Facebook (+3 giros)",
	PrizesEmpty:        "No tienes premios.",
	PrizesEntry:        "%s - Expira el %s",
	PrizesRedeemed:     "Canjeado",
	CountdownExpired:   "Expirado",
	UnexpectedResponse: "Respuesta inesperada del servidor.",

	ConsoleHelp:          "Comandos: registro <placa> <correo> <telefono> | girar | compartir | canjear <n> | premios | historial | elegir <canjear|compartir|cerrar> | ayuda | salir",
	ConsoleUnknown:       "Comando desconocido: %s",
	ConsoleRegisterUsage: "Uso: registro <placa> <correo> <telefono>",
	ConsoleNoPopup:       "No hay un premio en pantalla.",
	ConsoleOpenLink:      "Abre este enlace: %s",
	ConsoleRedeemPrompt:  "Uso: canjear <n>, donde n es el número del premio en la lista.",
	HistoryEmpty:         "Aún no hay actividad en esta sesión.",
	HistoryUnavailable:   "El historial requiere el registro de eventos activado.",
	HistoryFailed:        "No se pudo leer el historial.",
	HistoryEntry:         "%s %s %s (giros: %d)",
}

var english = map[string]string{
	WheelNotReady:      "The wheel is not ready. Please try again.",
	WheelConfigFailed:  "There was a problem loading the wheel configuration. Please try again later.",
	SpinNoSpins:        "You have no spins available.",
	SpinInFlight:       "The wheel is already spinning. Please wait.",
	SpinFailed:         "There was a problem: %s",
	SpinInvalidData:    "Invalid spin data.",
	SpinAngleOutRange:  "Received stopAngle is out of range.",
	SpinUnknownError:   "Unknown error.",
	NotRegistered:      "Please register first.",
	RegisterFailed:     "There was a problem registering: %s",
	RegisterFallback:   "Registration failed.",
	ValidationPlate:    "The plate must have 6 alphanumeric characters.",
	ValidationPhone:    "The phone must have 9 digits.",
	ValidationEmail:    "The email is required.",
	ShareFallback:      "Could not add bonus spins.",
	ShareFailed:        "There was a problem processing your request. Please try again later.",
	ResultFailed:       "There was a problem processing the prize: %s",
	TriggerEnabled:     "Spin the Wheel! (%d)",
	TriggerDisabled:    "No spins available",
	PopupRedeem:        "Redeem",
	PopupClose:         "Close",
	PopupShareHint:     "Share on Facebook to get bonus spins.",
	PopupShare:         "Share on Facebook (+3 spins)",
	PrizesEmpty:        "You have no prizes.",
	PrizesEntry:        "%s - Expires on %s",
	PrizesRedeemed:     "Redeemed",
	CountdownExpired:   "Expired",
	UnexpectedResponse: "Unexpected server response.",

	ConsoleHelp:          "Commands: register <plate> <email> <phone> | spin | share | redeem <n> | prizes | history | choose <redeem|share|close> | help | quit",
	ConsoleUnknown:       "Unknown command: %s",
	ConsoleRegisterUsage: "Usage: register <plate> <email> <phone>",
	ConsoleNoPopup:       "There is no prize on screen.",
	ConsoleOpenLink:      "Open this link: %s",
	ConsoleRedeemPrompt:  "Usage: redeem <n>, where n is the prize number in the list.",
	HistoryEmpty:         "No activity in this session yet.",
	HistoryUnavailable:   "History needs event tracking enabled.",
	HistoryFailed:        "Could not read the history.",
	HistoryEntry:         "%s %s %s (spins: %d)",
}

var (
	spanishPeru = language.MustParse("es-PE")
	supported   = []language.Tag{spanishPeru, language.Spanish, language.English}
	matcher     = language.NewMatcher(supported)
)

func init() {
	for _, tag := range []language.Tag{spanishPeru, language.Spanish} {
		for key, msg := range spanish {
			message.SetString(tag, key, msg)
		}
	}
	for key, msg := range english {
		message.SetString(language.English, key, msg)
	}
}

// Default returns the default locale tag.
func Default() language.Tag {
	return spanishPeru
}

// Localizer formats catalog messages for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the best supported match of locale.
func New(locale string) *Localizer {
	tag := Default()
	if locale = strings.TrimSpace(locale); locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Localizer{tag: tag, printer: message.NewPrinter(tag)}
}

// Tag returns the resolved locale.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// T formats the message stored under key.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}
