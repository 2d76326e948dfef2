package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "defect-lens/internal/application"
	"defect-lens/internal/domain/entity"
	"defect-lens/internal/presentation"
)

const (
	msgStart = `👋 Привет! Я бот для поиска дефектов на фотографиях деталей.

📸 Отправьте мне фото детали или снимите её камерой командой /camera, и я пришлю отчёт инспекции.

📋 Команды:
/camera — сделать снимок камерой
/reset — начать новую проверку
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото детали или используйте /camera
2️⃣ Бот отправит снимок на анализ
3️⃣ Вы получите отчёт: вердикт, дефект, место, серьёзность, рекомендация и уверенность

💡 Рекомендации:
• Снимайте при хорошем освещении
• Используйте однотонный фон
• Фото должно быть чётким

📋 Команды:
/camera — сделать снимок камерой
/reset — сбросить результат и начать заново`

	msgSendPhoto       = "📸 Пожалуйста, отправьте фото детали или используйте /camera."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgCapturing       = "📷 Снимаю кадр..."
	msgAnalyzing       = "⏳ Анализирую поверхность..."
	msgBusy            = "⏳ Снимок уже анализируется, дождитесь результата или отправьте /reset."
	msgResetFirst      = "ℹ️ Результат уже готов. Отправьте /reset, чтобы начать новую проверку."
	msgReset           = "🔄 Готово. Отправьте новое фото или используйте /camera."
	msgAnalysisFailed  = "⚠️ Анализ не удался. Попробуйте ещё раз: /reset"
	msgNewScan         = "Для новой проверки отправьте /reset."
	msgProcessingError = "⚠️ Не удалось получить изображение. Попробуйте отправить фото ещё раз."

	msgCameraPermissionDenied = "🚫 Нет доступа к камере. Разрешите доступ к устройству и отправьте /camera ещё раз."
	msgCameraNotFound         = "🚫 Камера не найдена."
	msgCameraOther            = "🚫 Не удалось открыть камеру. Проверьте устройство и отправьте /camera ещё раз."
)

// sender отправка сообщений, в тестах подменяется
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	sender      sender
	fetch       func(fileID string) ([]byte, error)
	inspections *app.InspectionService
	capture     *app.CaptureSurface
	logger      *slog.Logger

	wg sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, inspections *app.InspectionService, capture *app.CaptureSurface, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(api, inspections, capture, logger)
	b.api = api
	b.fetch = b.downloadFile
	b.logger.Info("authorized on account", "username", api.Self.UserName)

	return b, nil
}

func newBot(s sender, inspections *app.InspectionService, capture *app.CaptureSurface, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		sender:      s,
		inspections: inspections,
		capture:     capture,
		logger:      logger.With("component", "telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reset(ctx, msg)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "camera", "check":
		b.handleCamera(ctx, msg)

	case "reset", "cancel":
		b.reset(ctx, msg)
		b.sendMessage(msg.Chat.ID, msgReset)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) reset(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := b.inspections.Reset(ctx, msg.From.ID, msg.Chat.ID); err != nil {
		b.logger.Error("reset session", "error", err)
	}
}

// handlePhoto обрабатывает входящее фото: это уже готовый снимок
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	data, err := b.fetch(photo.FileID)
	if err != nil {
		b.logger.Error("download photo", "error", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.submit(ctx, msg.From.ID, msg.Chat.ID, entity.NewJPEGImage(data))
}

// handleCamera снимает кадр камерой хоста. Камера занята только на время снимка.
func (b *Bot) handleCamera(ctx context.Context, msg *tgbotapi.Message) {
	session, err := b.inspections.Session(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get session", "error", err)
		return
	}
	if session.State != entity.StateIdle {
		b.sendBusy(session)
		return
	}

	b.sendMessage(msg.Chat.ID, msgCapturing)

	userID, chatID := msg.From.ID, msg.Chat.ID
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		img, err := b.capture.Snapshot(ctx)
		if err != nil {
			b.sendMessage(chatID, cameraMessage(err))
			return
		}
		b.submit(ctx, userID, chatID, img)
	}()
}

// submit переводит сессию в анализ и запускает запрос в отдельной горутине,
// чтобы цикл обновлений не блокировался.
func (b *Bot) submit(ctx context.Context, userID, chatID int64, img entity.EncodedImage) {
	session, seq, err := b.inspections.Submit(ctx, userID, chatID, img)
	switch {
	case errors.Is(err, entity.ErrSessionBusy):
		b.sendBusy(session)
		return
	case err != nil:
		b.logger.Error("submit image", "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	b.sendMessage(chatID, msgAnalyzing)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.analyze(ctx, userID, chatID, seq, img)
	}()
}

func (b *Bot) analyze(ctx context.Context, userID, chatID int64, seq uint64, img entity.EncodedImage) {
	session, err := b.inspections.Analyze(ctx, userID, chatID, seq, img)
	if errors.Is(err, app.ErrStaleResult) {
		// Пользователь уже сбросил проверку
		return
	}
	if err != nil {
		b.logger.Error("store analysis result", "error", err)
		b.sendMessage(chatID, msgAnalysisFailed)
		return
	}

	b.render(chatID, presentation.ViewOf(session))
}

// render отправляет экран, соответствующий состоянию
func (b *Bot) render(chatID int64, view presentation.View) {
	switch view.Screen {
	case presentation.ScreenResult:
		b.sendMessage(chatID, presentation.PlainText(view.Report)+"\n\n"+msgNewScan)
	case presentation.ScreenError:
		b.sendMessage(chatID, msgAnalysisFailed)
	case presentation.ScreenAnalyzing:
		b.sendMessage(chatID, msgAnalyzing)
	}
}

func (b *Bot) sendBusy(session *entity.Session) {
	if session == nil {
		return
	}
	if session.State == entity.StateAnalyzing {
		b.sendMessage(session.ChatID, msgBusy)
		return
	}
	b.sendMessage(session.ChatID, msgResetFirst)
}

// cameraMessage сообщение об ошибке камеры с подсказкой повтора
func cameraMessage(err error) string {
	switch entity.AsCameraError(err).Kind {
	case entity.CameraPermissionDenied:
		return msgCameraPermissionDenied
	case entity.CameraNotFound:
		return msgCameraNotFound
	default:
		return msgCameraOther
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}
