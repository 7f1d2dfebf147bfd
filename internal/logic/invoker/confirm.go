package invoker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helloworld-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/rpc"
)

// ErrConfirmTimeout 确认轮询在预算内未见交易落地。
// 注意与链上执行失败区分：后者是交易确认了但执行出错。
var ErrConfirmTimeout = errors.New("confirmation timed out")

// awaitConfirmation 有界轮询交易确认状态。
// 每次 RPC 瞬时失败同样计入轮询次数，防止坏节点把调用方拖死。
func (iv *Invoker) awaitConfirmation(ctx context.Context, sig string) error {
	interval := time.Duration(iv.confirm.IntervalMs) * time.Millisecond

	for attempt := 1; attempt <= iv.confirm.MaxAttempts; attempt++ {
		cctx, cancel := context.WithTimeout(ctx, iv.timeout)
		status, err := iv.client.GetSignatureStatus(cctx, sig)
		cancel()

		switch {
		case err != nil:
			logger.Warnf("[Invoker] 第 %d 次查询确认状态失败: %v", attempt, err)
		case status == nil:
			// 节点还没见到这笔交易，继续等
		case status.Err != nil:
			return fmt.Errorf("transaction failed on chain: %v", status.Err)
		case status.ConfirmationStatus != nil &&
			(*status.ConfirmationStatus == rpc.CommitmentConfirmed ||
				*status.ConfirmationStatus == rpc.CommitmentFinalized):
			logger.Debugf("[Invoker] 确认完成, attempt=%d, slot=%d", attempt, status.Slot)
			return nil
		}

		if attempt == iv.confirm.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	return fmt.Errorf("after %d attempts: %w", iv.confirm.MaxAttempts, ErrConfirmTimeout)
}
