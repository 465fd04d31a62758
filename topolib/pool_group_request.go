package topolib

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type indexedBatchResult struct {
	index  int
	result BatchResult
}

type resolveRequest struct {
	ctx           context.Context
	index         int
	raw           string
	resultChannel chan<- indexedBatchResult
	wg            *sync.WaitGroup
}

type poolGroupRequest struct {
	ctx           context.Context
	cancel        context.CancelFunc
	resultChannel chan<- indexedBatchResult
	wg            *sync.WaitGroup
	pool          *ants.PoolWithFunc
}

func (p *poolGroupRequest) Do(ctx context.Context, index int, raw string) error {
	select {
	case <-ctx.Done():
		return ErrContextIsClosed
	case <-p.ctx.Done():
		return ErrContextIsClosed
	default:
	}

	p.wg.Add(1)

	req := &resolveRequest{
		ctx:           p.ctx,
		index:         index,
		raw:           raw,
		resultChannel: p.resultChannel,
		wg:            p.wg,
	}

	if err := p.pool.Invoke(req); err != nil {
		p.wg.Done()
		p.cancel()

		return fmt.Errorf("cannot schedule a task: %w", err)
	}

	return nil
}

func newPoolGroupRequest(ctx context.Context,
	resultChannel chan<- indexedBatchResult,
	wg *sync.WaitGroup,
	pool *ants.PoolWithFunc) *poolGroupRequest {
	ctx, cancel := context.WithCancel(ctx)

	return &poolGroupRequest{
		ctx:           ctx,
		wg:            wg,
		resultChannel: resultChannel,
		cancel:        cancel,
		pool:          pool,
	}
}
