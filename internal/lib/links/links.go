// Package links реализует проверку текстовых полей на сторонние ссылки.
// Описания курсов и уроков могут содержать только ссылки на разрешённые
// видеохостинги, остальные ссылки отклоняются до записи в хранилище.
package links

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/magabrotheeeer/learning-platform/internal/apperr"
)

var urlPattern = regexp.MustCompile(`https?://[^\s)\]]+`)

// allowedHosts — разрешённые хосты видеохостингов. Совпадение проверяется
// точно либо по поддомену.
var allowedHosts = []string{
	"youtube.com",
	"youtu.be",
}

// ValidateText ищет в тексте URL со схемой http/https и возвращает
// ошибку валидации, если хотя бы одна ссылка ведёт не на разрешённый
// видеохостинг. Текст без ссылок проходит без изменений.
func ValidateText(text string) error {
	if text == "" {
		return nil
	}
	for _, raw := range urlPattern.FindAllString(text, -1) {
		parsed, err := url.Parse(raw)
		if err != nil {
			return apperr.Validation("malformed link in text")
		}
		if !hostAllowed(parsed.Hostname()) {
			return apperr.Validation("external links are not allowed, except video hosting")
		}
	}
	return nil
}

func hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range allowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
