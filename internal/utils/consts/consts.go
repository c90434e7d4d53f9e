package consts

const (
	ServiceName = "settlement"

	// ZeroAddress is the sender of every ERC-1155 mint transfer.
	ZeroAddress = "0x0000000000000000000000000000000000000000"

	// TokenDecimals is the number of decimals of the platform token (TSE).
	TokenDecimals = 18
)
