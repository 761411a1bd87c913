package notify

import (
	"fmt"

	"pazlcollab/internal/domain"
)

// Localized notification texts. RU is the fallback, matching the rest of the
// bot surface.

func ApprovedText(locale string) string {
	if locale == domain.LocaleEN {
		return "🎉 Your form has been approved! Welcome to the expert community 🙌"
	}
	return "🎉 Ваша анкета одобрена! Добро пожаловать в сообщество экспертов 🙌"
}

func DeclinedText(locale string) string {
	if locale == domain.LocaleEN {
		return "⚠️ Your form requires revision. The admin will contact you soon."
	}
	return "⚠️ Ваша анкета требует доработки. Администратор свяжется с вами для уточнений."
}

func RemovedText(locale string) string {
	if locale == domain.LocaleEN {
		return "ℹ️ Your profile was removed from the catalog. You can fill out the form again."
	}
	return "ℹ️ Ваша анкета была удалена из каталога. Вы можете заполнить её заново."
}

// ModeratorText alerts the admin chat about a fresh submission.
func ModeratorText(name string, userID int64) string {
	return fmt.Sprintf("📥 Новая анкета на модерацию: %s (id %d)", name, userID)
}
