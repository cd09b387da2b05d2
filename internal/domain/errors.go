package domain

import "errors"

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidSignature  = errors.New("invalid payment signature")
	ErrUnderpaid         = errors.New("paid amount is less than order cost")
	ErrInvalidAmount     = errors.New("invalid payment amount")
	ErrUsernameRequired  = errors.New("telegram username is required")
)

// Ошибки разбора ввода заказа, каждой соответствует своё сообщение пользователю
var (
	ErrInputFormat        = errors.New("wrong number of tokens")
	ErrQuantityNotInteger = errors.New("quantity is not an integer")
	ErrQuantityOutOfRange = errors.New("quantity is out of range")
	ErrInvalidHandle      = errors.New("recipient handle is invalid")
)

// BusinessError ошибка бизнес-логики, которая уже залогирована и показана пользователю в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}
