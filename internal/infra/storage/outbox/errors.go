package outbox

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("outbox.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("outbox.repository: failed to execute query")

	// ErrTransaction возвращается при ошибках работы с транзакцией выгрузки
	ErrTransaction = errors.New("outbox.repository: transaction error")
)
