package wazero

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

func encode(t api.ValueType, v any) (uint64, error) {
	var (
		i int64
		f float64
	)
	switch n := v.(type) {
	case int64:
		i, f = n, float64(n)
	case int:
		i, f = int64(n), float64(n)
	case int32:
		i, f = int64(n), float64(n)
	case float64:
		i, f = int64(n), n
	case float32:
		i, f = int64(n), float64(n)
	case bool:
		if n {
			i, f = 1, 1
		}
	case nil:
	default:
		return 0, fmt.Errorf("unsupported argument type %T", v)
	}

	switch t {
	case api.ValueTypeI32:
		return api.EncodeI32(int32(i)), nil //nolint:gosec // G115: truncation matches wasm i32 semantics
	case api.ValueTypeI64:
		return api.EncodeI64(i), nil
	case api.ValueTypeF32:
		return api.EncodeF32(float32(f)), nil
	case api.ValueTypeF64:
		return api.EncodeF64(f), nil
	default:
		return 0, fmt.Errorf("unsupported parameter type %s", api.ValueTypeName(t))
	}
}

func decode(t api.ValueType, r uint64) any {
	switch t {
	case api.ValueTypeI32:
		return int64(api.DecodeI32(r))
	case api.ValueTypeI64:
		return int64(r) //nolint:gosec // G115: i64 results are two's complement
	case api.ValueTypeF32:
		return float64(api.DecodeF32(r))
	case api.ValueTypeF64:
		return api.DecodeF64(r)
	default:
		return r
	}
}
