package sl

import (
	"log/slog"
	"strings"
)

func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// MaskEmail оставляет первую букву локальной части и домен: j***@example.com.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return MaskName(email)
	}
	return email[:1] + "***" + email[at:]
}

// MaskName оставляет первый и последний символ.
func MaskName(name string) string {
	r := []rune(name)
	switch len(r) {
	case 0:
		return ""
	case 1, 2:
		return string(r[:1]) + "***"
	default:
		return string(r[:1]) + "***" + string(r[len(r)-1:])
	}
}
