package config

const SourceFileExt = ".sw"

// IsTestMode indicates if the program is running in test mode.
// It makes friendly names of inference variables deterministic.
var IsTestMode = false

// Special parameters accepted by contract calls: `foo { gas: 1, coins: 2 } (x)`.
const (
	ContractCallGasParameterName     = "gas"
	ContractCallCoinsParameterName   = "coins"
	ContractCallAssetIDParameterName = "asset_id"
)

// ContractCallParameterNames lists the recognized contract call parameters in
// the order they are checked for repetition.
var ContractCallParameterNames = []string{
	ContractCallGasParameterName,
	ContractCallCoinsParameterName,
	ContractCallAssetIDParameterName,
}

// SelectorLength is the width in bytes of a contract function selector.
const SelectorLength = 4

// Built-in intrinsic names
const (
	IsReferenceTypeIntrinsic = "__is_reference_type"
	SizeOfIntrinsic          = "__size_of"
	SizeOfValIntrinsic       = "__size_of_val"
)

// DisallowedOpcodes may not appear in inline assembly; control flow must stay
// under the compiler's control.
var DisallowedOpcodes = []string{"jnei", "ji"}

// Built-in type names
const (
	SelfTypeName = "Self"
	UnitTypeName = "()"
)

// Word size of the target machine in bytes, used by size intrinsics.
const WordSize = 8
