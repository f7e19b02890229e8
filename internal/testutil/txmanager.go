package testutil

import (
	"context"
	"sync"
)

type undoKey struct{}

type undoLog struct {
	mu    sync.Mutex
	steps []func()
}

// journal регистрирует откат записи, если она выполнена внутри TxManager.Do.
// Вызывается под мьютексом Store.
func journal(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		log.mu.Lock()
		log.steps = append(log.steps, undo)
		log.mu.Unlock()
	}
}

// TxManager транзакции поверх Store: при ошибке fn все записи fn откатываются
type TxManager struct {
	Store *Store

	mu    sync.Mutex
	Calls int
	Modes []string // режим каждой транзакции: default, serializable, read_only
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, "default", fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, "serializable", fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, "read_only", fn)
}

func (m *TxManager) run(ctx context.Context, mode string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Calls++
	m.Modes = append(m.Modes, mode)
	m.mu.Unlock()

	if _, nested := ctx.Value(undoKey{}).(*undoLog); nested {
		return fn(ctx)
	}

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		m.Store.mu.Lock()
		for i := len(log.steps) - 1; i >= 0; i-- {
			log.steps[i]()
		}
		m.Store.mu.Unlock()
		return err
	}
	return nil
}
