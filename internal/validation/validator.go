// Package validation содержит чистые проверки пользовательского ввода:
// имя и телефонный номер. Состояния нет, обе функции детерминированы.
package validation

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// ValidName требует минимум два слова: имя и фамилию.
func ValidName(raw string) bool {
	return len(strings.Fields(raw)) >= 2
}

// NormalizePhone разбирает номер по правилам региона и возвращает его
// в формате E.164. Принимает и свободный ввод, и номер из контакта —
// оба проходят через один и тот же парсер.
func NormalizePhone(raw, region string) (string, error) {
	parsed, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumberForRegion(parsed, region) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
