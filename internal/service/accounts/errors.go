package accounts

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken возвращается при регистрации с занятым email
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidCredentials возвращается при неверном email или пароле
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWrongPassword возвращается при смене пароля с неверным текущим паролем
	ErrWrongPassword = errors.New("wrong current password")

	// ErrInvalidToken возвращается при использовании неизвестного или истёкшего токена
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
