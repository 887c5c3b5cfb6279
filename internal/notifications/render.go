package notifications

import (
	"fmt"
	"strings"

	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/i18n"
	"github.com/richxcame/carwash-booking/pkg/validation"
)

// Render validates msg and returns its body in the resolved language
func Render(msg *Message, defaultLang string) (string, error) {
	if !validation.IsValidPhone(msg.Phone) {
		return "", common.NewBadRequestError(fmt.Sprintf("invalid phone %q", msg.Phone), nil)
	}

	if msg.Template == TemplateCustom {
		body := strings.TrimSpace(msg.Custom)
		if body == "" {
			return "", common.NewBadRequestError("custom message requires a body", nil)
		}
		return body, nil
	}

	if !i18n.HasTemplate(string(msg.Template)) {
		return "", common.NewBadRequestError(fmt.Sprintf("unknown template %q", msg.Template), nil)
	}

	body, err := i18n.Render(string(msg.Template), i18n.ResolveLang(msg.Lang, defaultLang), msg.Vars)
	if err != nil {
		return "", common.NewBadRequestError("failed to render message", err)
	}
	return body, nil
}
