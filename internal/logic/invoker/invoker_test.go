package invoker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"helloworld-sol/internal/config"
	"helloworld-sol/internal/consts"
	"helloworld-sol/internal/svc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProgramID  = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
	testBlockhash  = "11111111111111111111111111111111"
	testAirdropSig = "airdrop-signature-for-test"
	testInvokeSig  = "invoke-signature-for-test"
)

// fakeNode 模拟一个最小化的 Solana JSON-RPC 节点，
// 让 blocto 客户端走真实的 HTTP 编解码路径。
type fakeNode struct {
	mu    sync.Mutex
	calls []string // 收到的 method 调用顺序

	balance      uint64 // getBalance 返回值
	missing      bool   // 程序账户不存在
	executable   bool   // 程序账户 executable 标记
	pendingPolls int    // 前 N 次确认查询返回 null（交易尚未落地）
	statusErr    any    // 非 nil 时确认状态携带链上执行错误

	statusPolls int // 已收到的确认查询次数
}

func (f *fakeNode) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeNode) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusPolls
}

func (f *fakeNode) handler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     any    `json:"id"`
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls = append(f.calls, req.Method)
	f.mu.Unlock()

	write := func(result any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}
	withCtx := func(v any) map[string]any {
		return map[string]any{
			"context": map[string]any{"slot": 100},
			"value":   v,
		}
	}

	switch req.Method {
	case "getBalance":
		write(withCtx(f.balance))

	case "requestAirdrop":
		write(testAirdropSig)

	case "getAccountInfo":
		if f.missing {
			write(withCtx(nil))
			return
		}
		write(withCtx(map[string]any{
			"data":       []any{"", "base64"},
			"executable": f.executable,
			"lamports":   1141440,
			"owner":      "BPFLoaderUpgradeab1e11111111111111111111111",
			"rentEpoch":  0,
			"space":      36,
		}))

	case "getLatestBlockhash":
		write(withCtx(map[string]any{
			"blockhash":            testBlockhash,
			"lastValidBlockHeight": 200,
		}))

	case "sendTransaction":
		write(testInvokeSig)

	case "getSignatureStatuses":
		f.mu.Lock()
		f.statusPolls++
		pending := f.statusPolls <= f.pendingPolls
		f.mu.Unlock()

		if pending {
			write(withCtx([]any{nil}))
			return
		}
		write(withCtx([]any{map[string]any{
			"slot":               105,
			"confirmations":      1,
			"err":                f.statusErr,
			"confirmationStatus": "confirmed",
		}}))

	default:
		write(nil)
	}
}

func newTestInvoker(t *testing.T, node *fakeNode) *Invoker {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(node.handler))
	t.Cleanup(server.Close)

	c := config.InvokerConfig{
		RpcConf: config.RpcConfig{
			Endpoint:        server.URL,
			RequestTimeoutS: 2,
		},
		AirdropConf: config.AirdropConfig{
			Lamports:   consts.DefaultAirdropLamports,
			MinBalance: consts.DefaultMinBalanceLamports,
		},
		ConfirmConf: config.ConfirmConfig{
			IntervalMs:  10,
			MaxAttempts: 5,
		},
		ProgramID: testProgramID,
	}

	sc, err := svc.NewInvokerServiceContext(c)
	require.NoError(t, err)
	return New(sc)
}

// 全新 payer：应先领水再提交调用，最终返回 sendTransaction 的签名
func TestRun_FreshPayerAirdropsAndInvokes(t *testing.T) {
	node := &fakeNode{
		balance:      0,
		executable:   true,
		pendingPolls: 1, // 第一次确认查询返回 null，验证轮询确实会重试
	}

	sig, err := newTestInvoker(t, node).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testInvokeSig, sig)

	methods := node.methods()
	assert.Contains(t, methods, "requestAirdrop")
	assert.Contains(t, methods, "getAccountInfo")
	assert.Contains(t, methods, "sendTransaction")

	// 领水必须发生在交易提交之前
	airdropAt, sendAt := -1, -1
	for i, m := range methods {
		if m == "requestAirdrop" && airdropAt < 0 {
			airdropAt = i
		}
		if m == "sendTransaction" && sendAt < 0 {
			sendAt = i
		}
	}
	assert.Less(t, airdropAt, sendAt)
}

// 余额已达标：不应发起空投
func TestRun_SkipsAirdropWhenFunded(t *testing.T) {
	node := &fakeNode{
		balance:    consts.LamportsPerSol,
		executable: true,
	}

	sig, err := newTestInvoker(t, node).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testInvokeSig, sig)
	assert.NotContains(t, node.methods(), "requestAirdrop")
}

// 程序账户不存在：预检失败，不应提交交易
func TestRun_ProgramMissing(t *testing.T) {
	node := &fakeNode{
		balance: consts.LamportsPerSol,
		missing: true,
	}

	_, err := newTestInvoker(t, node).Run(context.Background())
	require.Error(t, err)
	assert.NotContains(t, node.methods(), "sendTransaction")
}

// 程序账户存在但不可执行：同样拒绝提交
func TestRun_ProgramNotExecutable(t *testing.T) {
	node := &fakeNode{
		balance:    consts.LamportsPerSol,
		executable: false,
	}

	_, err := newTestInvoker(t, node).Run(context.Background())
	require.Error(t, err)
	assert.NotContains(t, node.methods(), "sendTransaction")
}

// 确认一直不落地：用满轮询预算后返回 ErrConfirmTimeout
func TestAwaitConfirmation_Timeout(t *testing.T) {
	node := &fakeNode{
		pendingPolls: 1 << 30, // 永远 pending
	}
	iv := newTestInvoker(t, node)

	err := iv.awaitConfirmation(context.Background(), testInvokeSig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfirmTimeout), "应返回确认超时错误, got: %v", err)
	assert.Equal(t, iv.confirm.MaxAttempts, node.pollCount(), "轮询次数应精确等于预算")
}

// 链上执行失败：立即报错，而不是等到超时
func TestAwaitConfirmation_OnChainError(t *testing.T) {
	node := &fakeNode{
		statusErr: map[string]any{"InstructionError": []any{0, "InvalidAccountData"}},
	}
	iv := newTestInvoker(t, node)

	err := iv.awaitConfirmation(context.Background(), testInvokeSig)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfirmTimeout))
	assert.Equal(t, 1, node.pollCount())
}

// 上层 context 取消应立即中断轮询
func TestAwaitConfirmation_ContextCanceled(t *testing.T) {
	node := &fakeNode{
		pendingPolls: 1 << 30,
	}
	iv := newTestInvoker(t, node)
	iv.confirm.IntervalMs = 200
	iv.confirm.MaxAttempts = 100

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := iv.awaitConfirmation(ctx, testInvokeSig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got: %v", err)
}
