package random

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Token возвращает непрозрачную строку из n случайных байт в base64url без паддинга.
func Token(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random.Token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
