package chat

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pazlcollab/internal/conversation"
	"pazlcollab/internal/domain"
)

// Reply-menu button texts. The router matches incoming messages against these
// strings, so they live next to the keyboards that show them.

func FormButtonText(locale string) string {
	if locale == domain.LocaleEN {
		return "📝 Fill out the form"
	}
	return "📝 Заполнить анкету"
}

func StatusButtonText(locale string) string {
	if locale == domain.LocaleEN {
		return "📊 Check status"
	}
	return "📊 Проверить статус"
}

func CatalogButtonText(locale string) string {
	if locale == domain.LocaleEN {
		return "🗂 Expert catalog"
	}
	return "🗂 Каталог экспертов"
}

func PartnershipButtonText(locale string) string {
	if locale == domain.LocaleEN {
		return "🤝 Partnership"
	}
	return "🤝 Партнёрство"
}

func SkipButtonText(locale string) string {
	if locale == domain.LocaleEN {
		return "Skip"
	}
	return "Пропустить"
}

func doneButtonText(locale string) string {
	if locale == domain.LocaleEN {
		return "✅ Done"
	}
	return "✅ Готово"
}

// MainMenu is the resting keyboard before a profile is approved.
func MainMenu(locale string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(FormButtonText(locale)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(StatusButtonText(locale)),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// StatusMenu shows while the profile sits in moderation.
func StatusMenu(locale string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(StatusButtonText(locale)),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// PostApprovalMenu opens the catalog and partnership surfaces for approved
// experts. webAppURL may be empty; the catalog button is omitted then.
func PostApprovalMenu(locale, webAppURL string) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{}
	if webAppURL != "" {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.KeyboardButton{
				Text:   CatalogButtonText(locale),
				WebApp: &tgbotapi.WebAppInfo{URL: webAppURL},
			},
		))
	}
	rows = append(rows,
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(PartnershipButtonText(locale)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(StatusButtonText(locale)),
		),
	)
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// LanguageKeyboard is the /start language picker.
func LanguageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang:ru"),
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang:en"),
		),
	)
}

// OptionsKeyboard renders a selection step. Selected options get a check
// prefix; callback data is "<step>:<code>" so stale callbacks stay scoped to
// the step that produced them.
func OptionsKeyboard(step string, options []conversation.OptionView, showDone bool, locale string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options)+1)
	for _, opt := range options {
		label := opt.Label
		if opt.Selected {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, step+":"+opt.Code),
		))
	}
	if showDone {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(doneButtonText(locale), step+":"+conversation.DoneCode),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// PhotoKeyboard offers the skip branch of the photo step.
func PhotoKeyboard(locale string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(SkipButtonText(locale), "photo:skip"),
		),
	)
}

// PartnershipKeyboard lets the receiving expert answer a request.
func PartnershipKeyboard(requestID, locale string) tgbotapi.InlineKeyboardMarkup {
	accept, decline := "✅ Принять", "❌ Отклонить"
	if locale == domain.LocaleEN {
		accept, decline = "✅ Accept", "❌ Decline"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(accept, "partner:accept:"+requestID),
			tgbotapi.NewInlineKeyboardButtonData(decline, "partner:decline:"+requestID),
		),
	)
}
