// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках и секретов.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Удобно использовать в логировании для единообразного вывода ошибок.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret возвращает slog.Attr, в котором значение заменено маской.
// Используется для логирования наличия токена без раскрытия его значения.
func Secret(key, value string) slog.Attr {
	masked := "<empty>"
	if value != "" {
		masked = "<redacted>"
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
