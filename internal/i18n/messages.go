// Package i18n holds the localized operator-facing message catalog.
//
// The station UI surfaces short messages next to each failure kind; the
// catalog keys are the English source strings, with translations registered
// per supported locale.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Catalog keys. The engine and handlers format against these so every
// operator-visible string goes through the printer.
const (
	MsgWeighInCaptured     = "First weight captured. Ticket %s"
	MsgWeighOutCaptured    = "Transaction %s completed. Net weight %.1f kg"
	MsgOperationCancelled  = "Operation cancelled"
	MsgUnstableWeight      = "Weight reading is not stable yet. Wait for the scale to settle and retry."
	MsgBelowMinimumWeight  = "Weight %.1f kg is below the %.1f kg minimum"
	MsgNonPositiveNet      = "Net weight must be positive; entry and exit weight are equal"
	MsgSessionInProgress   = "Another weighing session is in progress"
	MsgPersistenceFailed   = "Could not save the transaction. Check the connection and retry."
	MsgScaleDisconnected   = "Scale connection lost"
	MsgManualModeRequired  = "Manual weight entry requires manual mode"
	MsgNoSessionInProgress = "No weighing session is in progress"
)

var supported = []language.Tag{
	language.English, // default, catalog keys are the English strings
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

func init() {
	for _, entry := range []struct{ key, es string }{
		{MsgWeighInCaptured, "Primer peso capturado. Boleta %s"},
		{MsgWeighOutCaptured, "Transacción %s completada. Peso neto %.1f kg"},
		{MsgOperationCancelled, "Operación cancelada"},
		{MsgUnstableWeight, "La lectura de peso aún no es estable. Espere a que la báscula se asiente y reintente."},
		{MsgBelowMinimumWeight, "El peso %.1f kg está por debajo del mínimo de %.1f kg"},
		{MsgNonPositiveNet, "El peso neto debe ser positivo; los pesos de entrada y salida son iguales"},
		{MsgSessionInProgress, "Hay otra sesión de pesaje en curso"},
		{MsgPersistenceFailed, "No se pudo guardar la transacción. Verifique la conexión y reintente."},
		{MsgScaleDisconnected, "Se perdió la conexión con la báscula"},
		{MsgManualModeRequired, "El ingreso manual de peso requiere el modo manual"},
		{MsgNoSessionInProgress, "No hay una sesión de pesaje en curso"},
	} {
		if err := message.SetString(language.Spanish, entry.key, entry.es); err != nil {
			panic(err)
		}
	}
}

// Printer returns a message printer for the best-matching supported locale.
func Printer(locale string) *message.Printer {
	tag, _ := language.MatchStrings(matcher, locale)
	return message.NewPrinter(tag)
}

// Default returns the English printer.
func Default() *message.Printer {
	return message.NewPrinter(language.English)
}
