package constants

import "time"

const (
	CallContractTimeout   = 10 * time.Second // timeout for read-only contract calls
	GasEstimateTimeout    = 10 * time.Second // timeout for gas estimation
	ReceiptPollInterval   = 3 * time.Second  // delay between receipt polls
	PriceFeedTimeout      = 10 * time.Second // timeout for Binance price requests
	TLSHandshakeTimeout   = 10 * time.Second // timeout for TLS handshake
	ResponseHeaderTimeout = 20 * time.Second // timeout for response header
	ProgressRefreshPeriod = 30 * time.Second // period of the background progress refresh
	TickerRefreshPeriod   = 60 * time.Second // period of the price marquee refresh
)

// Presale parameters
const (
	// RawContractAddress is the official presale contract. It is normalized once
	// at startup; an invalid value here aborts before any wallet interaction.
	RawContractAddress = "0xac958de36acfbb1dce325140973799475ed9493e"

	TokenPriceUSD = 0.10 // UI-only estimate of one AUR in USD
	TokenSymbol   = "AUR"
	TokenDecimals = 18

	// GasHeadroomNum/GasHeadroomDen apply +20% headroom to gas estimates.
	GasHeadroomNum = 12
	GasHeadroomDen = 10
)

// Network types
const (
	NetworkBSC        = "bsc"
	NetworkBSCTestnet = "bsc-testnet"
)

// TargetChainID is the only network the presale contract is deployed on.
const TargetChainID int64 = 56

var NetworkToChainID = map[string]int64{
	NetworkBSC:        56,
	NetworkBSCTestnet: 97,
}

var ChainIDToName = map[int64]string{
	56: "BNB Smart Chain",
	97: "BNB Smart Chain Testnet",
}

// Provider error codes per EIP-1193 / EIP-1474.
const (
	CodeUserRejected      = 4001
	CodeUnrecognizedChain = 4902
	CodeRequestPending    = -32002
	CodeInsufficientFunds = -32000
)

const (
	RatePairSymbol  = "BNBUSDT"
	ExplorerBaseURL = "https://bscscan.com"
)
