package typesystem

import "github.com/funvibe/contractc/internal/config"

// SizeInBytes returns the stack size of a value of type id. Every value
// occupies at least one word, except unit which occupies none.
func (e *Engine) SizeInBytes(id TypeID) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sizeInBytes(id)
}

func (e *Engine) sizeInBytes(id TypeID) (uint64, error) {
	switch t := e.lookUp(id).(type) {
	case Unit:
		return 0, nil
	case UnsignedInteger, Boolean, Byte:
		return config.WordSize, nil
	case B256:
		return 32, nil
	case ContractCaller:
		return 32, nil
	case Str:
		return roundUpToWord(uint64(t.Length)), nil
	case Tuple:
		var total uint64
		for _, f := range t.Fields {
			n, err := e.sizeInBytes(f.TypeID)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case Struct:
		var total uint64
		for _, f := range t.Fields {
			n, err := e.sizeInBytes(f.TypeID)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case Enum:
		// Tag word followed by the largest payload.
		var largest uint64
		for _, v := range t.Variants {
			n, err := e.sizeInBytes(v.TypeID)
			if err != nil {
				return 0, err
			}
			if n > largest {
				largest = n
			}
		}
		return config.WordSize + largest, nil
	case Array:
		n, err := e.sizeInBytes(t.Elem)
		if err != nil {
			return 0, err
		}
		return n * uint64(t.Length), nil
	default:
		return 0, NewUnresolvedTypeError(e.friendlyName(id))
	}
}

func roundUpToWord(n uint64) uint64 {
	if n%config.WordSize == 0 {
		return n
	}
	return n + config.WordSize - n%config.WordSize
}
