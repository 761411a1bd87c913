package bot

import (
	"pazlcollab/internal/domain"
)

func welcomeText(locale string) string {
	if locale == domain.LocaleEN {
		return "👋 Welcome to the expert community!\n\nFill out the form to join the catalog, or check the status of your application."
	}
	return "👋 Добро пожаловать в сообщество экспертов!\n\nЗаполните анкету, чтобы попасть в каталог, или проверьте статус вашей заявки."
}

func pickLanguageText() string {
	return "Выберите язык / Choose your language:"
}

func statusPendingText(locale string) string {
	if locale == domain.LocaleEN {
		return "🟡 Your form is under review. We will notify you of the result."
	}
	return "🟡 Ваша анкета на проверке. Мы сообщим вам о результате."
}

func statusApprovedText(locale string) string {
	if locale == domain.LocaleEN {
		return "🟢 Your form is approved! The catalog and partnership features are open to you."
	}
	return "🟢 Ваша анкета одобрена! Вам доступны каталог и партнёрство."
}

func statusDeclinedText(locale string) string {
	if locale == domain.LocaleEN {
		return "🔴 Your form needs revision. The admin will contact you."
	}
	return "🔴 Ваша анкета требует доработки. Администратор свяжется с вами."
}

func noProfileText(locale string) string {
	if locale == domain.LocaleEN {
		return "You have not submitted a form yet. Press «📝 Fill out the form» to start."
	}
	return "Вы ещё не отправляли анкету. Нажмите «📝 Заполнить анкету», чтобы начать."
}

func statusUnavailableText(locale string) string {
	if locale == domain.LocaleEN {
		return "⚠️ Could not check the status right now, please try again later."
	}
	return "⚠️ Не удалось проверить статус, попробуйте позже."
}

func cancelledText(locale string) string {
	if locale == domain.LocaleEN {
		return "Form cancelled. You can start over from the menu."
	}
	return "Заполнение анкеты отменено. Вы можете начать заново из меню."
}

func nothingToCancelText(locale string) string {
	if locale == domain.LocaleEN {
		return "Nothing to cancel."
	}
	return "Сейчас нечего отменять."
}

func menuHintText(locale string) string {
	if locale == domain.LocaleEN {
		return "Use the menu below 👇"
	}
	return "Воспользуйтесь меню ниже 👇"
}

func partnershipHintText(locale, botName string) string {
	if locale == domain.LocaleEN {
		return "🤝 To propose a partnership, share your link with another expert:\nhttps://t.me/" + botName + "?start=partner_ID\n(replace ID with your Telegram ID from the catalog)"
	}
	return "🤝 Чтобы предложить партнёрство, отправьте эксперту свою ссылку:\nhttps://t.me/" + botName + "?start=partner_ID\n(ID — ваш Telegram ID из каталога)"
}

func partnershipOnlyApprovedText(locale string) string {
	if locale == domain.LocaleEN {
		return "Partnership is available to approved experts only."
	}
	return "Партнёрство доступно только одобренным экспертам."
}

func partnershipSentText(locale string) string {
	if locale == domain.LocaleEN {
		return "🤝 Partnership request sent."
	}
	return "🤝 Запрос на партнёрство отправлен."
}

func partnershipPendingText(locale string) string {
	if locale == domain.LocaleEN {
		return "You already have a pending request to this expert."
	}
	return "У вас уже есть активный запрос к этому эксперту."
}

func partnershipResolvedText(locale string, accepted bool) string {
	if accepted {
		if locale == domain.LocaleEN {
			return "✅ Partnership accepted, the initiator has been told."
		}
		return "✅ Партнёрство принято, инициатор получил уведомление."
	}
	if locale == domain.LocaleEN {
		return "❌ Request declined."
	}
	return "❌ Запрос отклонён."
}

func photoFailedText(locale string) string {
	if locale == domain.LocaleEN {
		return "⚠️ Could not read the photo, try another one or press Skip."
	}
	return "⚠️ Не удалось обработать фото, попробуйте другое или нажмите «Пропустить»."
}
