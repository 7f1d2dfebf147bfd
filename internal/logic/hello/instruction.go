package hello

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	soltypes "github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"
)

// helloPayload hello 指令的 borsh 载荷。
// 指令没有参数，序列化后在链上就是空字节。
type helloPayload struct{}

// NewHelloInstruction 构造指向 hello 程序的单条指令：不引用任何账户，载荷为空
func NewHelloInstruction(programID common.PublicKey) (soltypes.Instruction, error) {
	data, err := borsh.Serialize(helloPayload{})
	if err != nil {
		return soltypes.Instruction{}, fmt.Errorf("serialize hello payload: %w", err)
	}
	return soltypes.Instruction{
		ProgramID: programID,
		Accounts:  []soltypes.AccountMeta{},
		Data:      data,
	}, nil
}
