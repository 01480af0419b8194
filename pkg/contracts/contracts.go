// Package contracts holds hand-maintained bindings for the deployed loyalty
// contracts. The bindings cover only the methods the SDK uses; read methods
// take a context, write methods take transact options.
package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
