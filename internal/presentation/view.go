// Package presentation выбирает, что показать пользователю, и форматирует отчёт.
package presentation

import (
	"errors"

	"defect-lens/internal/domain/entity"
)

// AnalysisFailedMessage единое сообщение для любых ошибок анализа
const AnalysisFailedMessage = "Analysis failed. Please try again."

// Screen экран, который сейчас показывается
type Screen string

const (
	ScreenIdle      Screen = "idle"
	ScreenAnalyzing Screen = "analyzing"
	ScreenResult    Screen = "result"
	ScreenError     Screen = "error"
)

// View ровно один экран: отчёт и ошибка никогда не показываются вместе
// и никогда вместе с индикатором анализа.
type View struct {
	Screen       Screen
	Report       *entity.InspectionReport
	ErrorMessage string
}

// Analyzing показывать ли индикатор анализа
func (v View) Analyzing() bool {
	return v.Screen == ScreenAnalyzing
}

// ViewOf строит экран из состояния сессии
func ViewOf(session *entity.Session) View {
	if session == nil {
		return View{Screen: ScreenIdle}
	}

	switch session.State {
	case entity.StateAnalyzing:
		return View{Screen: ScreenAnalyzing}
	case entity.StateResult:
		if session.Report == nil {
			return View{Screen: ScreenError, ErrorMessage: AnalysisFailedMessage}
		}
		return View{Screen: ScreenResult, Report: session.Report}
	case entity.StateError:
		return View{Screen: ScreenError, ErrorMessage: AnalysisFailedMessage}
	default:
		return View{Screen: ScreenIdle}
	}
}

// CameraMessage текст ошибки камеры для показа рядом с кнопкой повтора
func CameraMessage(err error) string {
	var camErr *entity.CameraError
	if errors.As(err, &camErr) {
		return camErr.Message()
	}
	return entity.AsCameraError(err).Message()
}
