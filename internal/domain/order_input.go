package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultMinStars = 50
	DefaultMaxStars = 10000
)

var handlePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{4,31}$`)

// LooksLikeValidHandle только синтаксическая проверка username,
// существование аккаунта в Telegram не проверяется.
func LooksLikeValidHandle(handle string) bool {
	return handlePattern.MatchString(handle)
}

// NormalizeHandle убирает ведущий @
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// QuantityLimits границы количества звёзд в одном заказе
type QuantityLimits struct {
	Min int
	Max int
}

func DefaultQuantityLimits() QuantityLimits {
	return QuantityLimits{Min: DefaultMinStars, Max: DefaultMaxStars}
}

func (l QuantityLimits) Contains(q int) bool {
	return q >= l.Min && q <= l.Max
}

// OrderInput разобранный ввод пользователя
type OrderInput struct {
	Recipient string
	Quantity  int
}

// ParseOrderInput разбирает "<username> <количество>" для друга или "<количество>" для себя.
// Для себя получатель берётся из selfHandle.
func ParseOrderInput(text string, forSelf bool, selfHandle string, limits QuantityLimits) (OrderInput, error) {
	tokens := strings.Fields(text)

	var recipient, rawQuantity string
	switch {
	case forSelf && len(tokens) == 1:
		recipient, rawQuantity = selfHandle, tokens[0]
	case !forSelf && len(tokens) == 2:
		recipient, rawQuantity = NormalizeHandle(tokens[0]), tokens[1]
	default:
		return OrderInput{}, fmt.Errorf("%w: got %d", ErrInputFormat, len(tokens))
	}

	quantity, err := strconv.Atoi(rawQuantity)
	if err != nil {
		return OrderInput{}, fmt.Errorf("%w: %q", ErrQuantityNotInteger, rawQuantity)
	}
	if !limits.Contains(quantity) {
		return OrderInput{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrQuantityOutOfRange, quantity, limits.Min, limits.Max)
	}

	recipient = NormalizeHandle(recipient)
	if !LooksLikeValidHandle(recipient) {
		return OrderInput{}, fmt.Errorf("%w: %q", ErrInvalidHandle, recipient)
	}

	return OrderInput{Recipient: recipient, Quantity: quantity}, nil
}
