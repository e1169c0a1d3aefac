package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "github.com/ImaGaf/ArucoReader/internal/application"
	"github.com/ImaGaf/ArucoReader/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я измеряю предметы по фотографии.

📸 Положите рядом с предметом маркер ArUco 3.3 см и отправьте фото.

📋 Команды:
/measure — начать измерение
/last — последний результат
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Положите маркер ArUco (5x5, сторона 3.3 см) рядом с предметом
2️⃣ Поставьте предмет в центр кадра
3️⃣ Отправьте фото — в ответ придут размеры и разметка

💡 Рекомендации:
• Используйте однотонный фон
• Снимайте сверху, без перспективы
• Можно отправить фото файлом, чтобы не терять качество`

	msgAwaitingPhoto   = "📸 Отправьте фото предмета с маркером."
	msgCancelled       = "❌ Операция отменена. Отправьте /measure для нового измерения."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото предмета с маркером."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoLast          = "Пока нет ни одного измерения."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgInvalidImage    = "⚠️ Не удалось прочитать файл как изображение."
	msgNoMarker        = "🔍 Маркер ArUco не найден. Проверьте, что он целиком в кадре."
	msgBadMarker       = "🔍 Маркер найден, но его размер определить не удалось."
	msgNoObjects       = "🔍 Предметы не найдены. Попробуйте однотонный фон."
)

// Measurer измеряет объект на изображении
type Measurer interface {
	Measure(ctx context.Context, data []byte) (*entity.Measurement, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *app.SessionService
	measurer Measurer
	logger   *zap.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, sessions *app.SessionService, measurer Measurer, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:      api,
		sessions: sessions,
		measurer: measurer,
		logger:   logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
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
	session, err := b.sessions.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get session", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, session)
		return
	}

	// Фото или изображение, отправленное файлом
	if fileID, ok := imageFileID(msg); ok {
		b.handleImage(ctx, msg, fileID)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "measure":
		if _, err := b.sessions.BeginMeasure(ctx, userID, chatID); err != nil {
			b.logger.Error("begin measure", zap.Error(err))
		}
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "last":
		if session.Last == nil {
			b.sendMessage(chatID, msgNoLast)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("Последнее измерение (%d всего):\n%s", session.Count, caption(*session.Last)))

	case "cancel":
		if _, err := b.sessions.Cancel(ctx, userID, chatID); err != nil {
			b.logger.Error("cancel", zap.Error(err))
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage скачивает изображение, измеряет и отвечает фото с разметкой
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	userID, chatID := msg.From.ID, msg.Chat.ID
	b.setState(ctx, userID, chatID, entity.StateProcessing)
	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Error("download photo", zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		return
	}

	result, err := b.measurer.Measure(ctx, imageData)
	if err != nil {
		b.logger.Info("measurement failed", zap.Int64("user_id", userID), zap.Error(err))
		b.sendMessage(chatID, errorMessage(err))
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		return
	}

	if _, err := b.sessions.Record(ctx, userID, chatID, result.Dimensions); err != nil {
		b.logger.Error("record measurement", zap.Error(err))
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "measured.jpg", Bytes: result.Image})
	photo.Caption = caption(result.Dimensions)
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("send photo", zap.Error(err))
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (b *Bot) setState(ctx context.Context, userID, chatID int64, state entity.SessionState) {
	if _, err := b.sessions.SetState(ctx, userID, chatID, state); err != nil {
		b.logger.Error("set session state", zap.String("state", string(state)), zap.Error(err))
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// imageFileID выбирает фото максимального разрешения или документ-изображение
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

func caption(d entity.Dimensions) string {
	return fmt.Sprintf("📏 Ширина: %.1f см\n📐 Высота: %.1f см", d.Width, d.Height)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrInvalidImage):
		return msgInvalidImage
	case errors.Is(err, app.ErrNoMarker):
		return msgNoMarker
	case errors.Is(err, entity.ErrDegenerateMarker):
		return msgBadMarker
	case errors.Is(err, app.ErrNoObjects), errors.Is(err, app.ErrNoCenteredObject):
		return msgNoObjects
	default:
		return msgProcessingError
	}
}
